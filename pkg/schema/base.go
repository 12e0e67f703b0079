package schema

// LimitType is the direction in which a regulatory limit applies.
type LimitType string

const (
	LimitMax LimitType = "max" // Higher is worse; the limit is a ceiling
	LimitMin LimitType = "min" // Lower is worse; the limit is a floor
)

// Category groups standards by the medium they regulate.
type Category string

const (
	CategoryWater Category = "Water"
	CategoryAir   Category = "Air"
	CategorySoil  Category = "Soil"
)

// ComplianceStatus is the classification of one assessed parameter.
type ComplianceStatus string

const (
	StatusPass         ComplianceStatus = "Pass"
	StatusWarning      ComplianceStatus = "Warning"
	StatusFail         ComplianceStatus = "Fail"
	StatusNotAvailable ComplianceStatus = "N/A"
)

// ValidationLimits defines the constraints for various fields.
const (
	StandardNameMin        = 1
	StandardNameMax        = 100
	StandardDescriptionMax = 500
	ParameterIDMin         = 1
	ParameterIDMax         = 32
	ParameterNameMax       = 64
	ParametersMax          = 255 // Row count must fit the two hex digits of a seed header
	SampleCountMin         = 1
	SampleCountMax         = 20
)

// DefaultSafetyMargin is the fraction of a limit at which a passing value
// becomes a warning.
const DefaultSafetyMargin = 0.8
