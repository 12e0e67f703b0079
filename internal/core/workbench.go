package core

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"envirocheck/internal/analytics"
	"envirocheck/internal/compliance"
	"envirocheck/internal/dataset"
	"envirocheck/internal/seed"
	"envirocheck/pkg/schema"
)

// forecastConfidence is the confidence level requested for forecast bands.
const forecastConfidence = 0.95

// Forecaster submits a series for forecasting. Both analytics.Service and
// *analytics.Flows satisfy it.
type Forecaster interface {
	Forecast(ctx context.Context, input analytics.ForecastInput) (*analytics.ForecastResult, error)
}

// Workbench holds one editing session: a selected standard, the seed and
// sample count it was generated from, the current table and its assessment.
// It is not safe for concurrent use.
type Workbench struct {
	standards    []schema.Standard
	standard     schema.Standard
	seed         string
	requested    int // Sample count asked for
	sampleCount  int // Sample count of the current table
	safetyMargin float64

	rows    []schema.SampleRow
	results []schema.AssessmentResult

	forecaster Forecaster
	logger     Logger
}

// WorkbenchOption configures a Workbench.
type WorkbenchOption func(*Workbench)

// WithForecaster enables Forecast.
func WithForecaster(f Forecaster) WorkbenchOption {
	return func(w *Workbench) {
		w.forecaster = f
	}
}

// WithWorkbenchLogger sets the session logger.
func WithWorkbenchLogger(logger Logger) WorkbenchOption {
	return func(w *Workbench) {
		w.logger = logger
	}
}

// NewWorkbench creates a session over standards, starting on the first one
// with the seed, sample count and margin from cfg. The initial table is
// generated immediately.
func NewWorkbench(standards []schema.Standard, cfg *Config, opts ...WorkbenchOption) (*Workbench, error) {
	if len(standards) == 0 {
		return nil, &ValidationError{Field: "standards", Message: "at least one standard is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Workbench{
		standards:    standards,
		standard:     standards[0],
		seed:         cfg.Seed,
		requested:    cfg.Samples,
		safetyMargin: cfg.SafetyMargin,
		logger:       NewLoggerTo(io.Discard, "error"),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.Generate(false); err != nil {
		return nil, err
	}
	return w, nil
}

// Generate rebuilds the table from the current seed and assesses it. With
// randomize set, a fresh opaque seed replaces the current one first.
//
// An encoded seed that fits the selected standard dictates the sample count
// of the table; otherwise the requested count is used.
func (w *Workbench) Generate(randomize bool) error {
	if randomize {
		s, err := schema.NewRandomSeed()
		if err != nil {
			return fmt.Errorf("random seed: %w", err)
		}
		w.seed = s
	}

	w.sampleCount = w.requested
	if decoded, ok := seed.Decode(w.seed); ok && decoded.RowCount == len(w.standard.Parameters) {
		w.sampleCount = decoded.SampleCount
	}

	w.rows = dataset.Generate(w.standard, w.seed, w.sampleCount)
	w.assess()

	w.logger.Debug("dataset generated",
		"standard", w.standard.ID,
		"seed", w.seed,
		"samples", w.sampleCount,
		"rows", len(w.rows))
	return nil
}

// SetCell replaces one sample cell with text as typed, re-assesses and
// re-encodes the table. When the table holds at least one value the encoded
// string becomes the session seed. It returns the session seed.
func (w *Workbench) SetCell(row int, column, text string) (string, error) {
	if row < 0 || row >= len(w.rows) {
		return "", &ValidationError{Field: "row", Message: fmt.Sprintf("must be 0-%d", len(w.rows)-1)}
	}
	if !w.hasColumn(column) {
		return "", &ValidationError{Field: "column", Message: fmt.Sprintf("unknown column %q", column)}
	}

	w.rows[row].Set(column, cellFromText(text))
	w.assess()

	encoded, err := seed.Encode(w.rows, w.sampleCount)
	if err != nil {
		return "", fmt.Errorf("encode dataset: %w", err)
	}
	if encoded != "" {
		w.seed = encoded
	}

	w.logger.Debug("cell edited", "row", row, "column", column, "seed", w.seed)
	return w.seed, nil
}

// SelectStandard switches to the standard with id and regenerates.
func (w *Workbench) SelectStandard(id string) error {
	std, ok := schema.FindStandard(w.standards, id)
	if !ok {
		return &ValidationError{Field: "standard", Message: fmt.Sprintf("unknown standard %q", id)}
	}
	w.standard = std
	return w.Generate(false)
}

// SetSampleCount changes the requested number of sample columns and
// regenerates.
func (w *Workbench) SetSampleCount(n int) error {
	if err := schema.ValidateSampleCount(n); err != nil {
		return &ValidationError{Field: "samples", Message: err.Error(), Err: err}
	}
	w.requested = n
	return w.Generate(false)
}

// SetSeed replaces the seed and regenerates.
func (w *Workbench) SetSeed(s string) error {
	w.seed = s
	return w.Generate(false)
}

// Forecast submits the values of one parameter row, in column order, for a
// forecast of periods steps.
func (w *Workbench) Forecast(ctx context.Context, parameterID string, periods int) (*analytics.ForecastResult, error) {
	if w.forecaster == nil {
		return nil, &AnalyticsError{Operation: "forecast", Message: "analytics service not configured"}
	}

	var values []float64
	found := false
	for _, r := range w.rows {
		if r.ParameterID != parameterID {
			continue
		}
		found = true
		for _, col := range w.Columns() {
			if v, ok := r.Cell(col).Float(); ok {
				values = append(values, v)
			}
		}
		break
	}
	if !found {
		return nil, &ValidationError{Field: "parameter", Message: fmt.Sprintf("unknown parameter %q", parameterID)}
	}

	result, err := w.forecaster.Forecast(ctx, analytics.ForecastInput{
		Values:     values,
		Periods:    periods,
		Parameter:  parameterID,
		Confidence: forecastConfidence,
	})
	if err != nil {
		return nil, &AnalyticsError{Operation: "forecast", Message: err.Error(), Err: err}
	}
	return result, nil
}

// Seed returns the current session seed.
func (w *Workbench) Seed() string { return w.seed }

// SampleCount returns the number of sample columns.
func (w *Workbench) SampleCount() int { return w.sampleCount }

// Columns returns the sample column names in order.
func (w *Workbench) Columns() []string { return schema.SampleColumns(w.sampleCount) }

// Standard returns the selected standard.
func (w *Workbench) Standard() schema.Standard { return w.standard }

// Rows returns a copy of the current table.
func (w *Workbench) Rows() []schema.SampleRow {
	rows := make([]schema.SampleRow, len(w.rows))
	for i, r := range w.rows {
		rows[i] = r.Clone()
	}
	return rows
}

// Results returns the assessment of the current table.
func (w *Workbench) Results() []schema.AssessmentResult {
	return append([]schema.AssessmentResult(nil), w.results...)
}

// Stats counts the current results by status.
func (w *Workbench) Stats() schema.ComplianceStats {
	return compliance.Stats(w.results)
}

func (w *Workbench) assess() {
	w.results = compliance.Assess(w.rows, w.Columns(), w.safetyMargin)
}

func (w *Workbench) hasColumn(column string) bool {
	for _, col := range w.Columns() {
		if col == column {
			return true
		}
	}
	return false
}

// cellFromText turns editor input into a cell: blank clears it, a plain
// number is stored as a number and anything else is kept verbatim.
func cellFromText(text string) schema.Cell {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return schema.EmptyCell()
	}
	if strings.Trim(trimmed, "+-.0123456789eE") == "" {
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(v, 0) {
			return schema.NumericCell(v)
		}
	}
	return schema.UnparsedCell(text)
}
