package analytics

// ForecastInput is a time series submitted for forecasting.
type ForecastInput struct {
	Values     []float64 `json:"values,omitempty"`
	Periods    int       `json:"periods"`
	Parameter  string    `json:"parameter"`
	Dates      []string  `json:"dates,omitempty"`
	Confidence float64   `json:"confidence,omitempty"` // e.g. 0.95
}

// Forecast is the projected series with its confidence band.
type Forecast struct {
	Periods int       `json:"periods"`
	Mean    []float64 `json:"mean,omitempty"`
	Lower   []float64 `json:"lower,omitempty"`
	Upper   []float64 `json:"upper,omitempty"`
}

// Accuracy holds in-sample error measures of a fitted model.
type Accuracy struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// ForecastResult is the reply to a forecast request.
type ForecastResult struct {
	Parameter  string    `json:"parameter"`
	Model      string    `json:"model"`
	AIC        float64   `json:"aic"`
	BIC        float64   `json:"bic"`
	Historical []float64 `json:"historical,omitempty"`
	Fitted     []float64 `json:"fitted,omitempty"`
	Residuals  []float64 `json:"residuals,omitempty"`
	Forecast   Forecast  `json:"forecast"`
	Accuracy   Accuracy  `json:"accuracy"`
}

// KrigingPoint is one georeferenced measurement.
type KrigingPoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Value float64 `json:"value"`
}

// KrigingInput is a set of measurements to interpolate over a grid.
type KrigingInput struct {
	Points    []KrigingPoint `json:"points,omitempty"`
	GridSize  int            `json:"grid_size,omitempty"`
	Parameter string         `json:"parameter,omitempty"`
}

// KrigingGridPoint is one interpolated grid cell.
type KrigingGridPoint struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Value    float64 `json:"value"`
	Variance float64 `json:"variance"`
}

// Bounds is the extent of an interpolation grid.
type Bounds struct {
	LngMin float64 `json:"lng_min"`
	LngMax float64 `json:"lng_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
}

// Variogram describes the fitted spatial covariance model.
type Variogram struct {
	Model  string  `json:"model"`
	Nugget float64 `json:"nugget"`
	Sill   float64 `json:"sill"`
	Range  float64 `json:"range"`
}

// GridStatistics summarises the interpolated values.
type GridStatistics struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"`
}

// KrigingResult is the reply to an interpolation request.
type KrigingResult struct {
	Parameter    string             `json:"parameter"`
	GridSize     int                `json:"grid_size"`
	Bounds       Bounds             `json:"bounds"`
	Variogram    Variogram          `json:"variogram"`
	Statistics   GridStatistics     `json:"statistics"`
	SamplePoints int                `json:"sample_points"`
	GridPoints   int                `json:"grid_points"`
	Grid         []KrigingGridPoint `json:"grid,omitempty"`
}

// HealthStatus is the reply to a health probe.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"r_version"`
	Timestamp string            `json:"timestamp"`
	Message   string            `json:"message"`
	Packages  map[string]string `json:"packages,omitempty"`
}

// envelope carries the success flag every analysis reply includes.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}
