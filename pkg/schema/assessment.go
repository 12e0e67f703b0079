package schema

import (
	"encoding/json"
	"math"
)

// AssessmentResult summarises one parameter row against its limit.
type AssessmentResult struct {
	ParameterID    string           `json:"parameterId" yaml:"parameter_id"`
	ParameterName  string           `json:"parameterName" yaml:"parameter_name"`
	Unit           string           `json:"unit" yaml:"unit"`
	Limit          float64          `json:"limit" yaml:"limit"`
	Type           LimitType        `json:"type" yaml:"type"`
	MeanValue      float64          `json:"meanValue" yaml:"mean_value"`           // Two decimals
	MaxValue       float64          `json:"maxValue" yaml:"max_value"`             // Largest observed value, for both limit types
	Status         ComplianceStatus `json:"status" yaml:"status"`                  // Pass, Warning, Fail or N/A
	PercentOfLimit float64          `json:"percentOfLimit" yaml:"percent_of_limit"` // Whole number; +Inf when a min-type critical value is 0
}

// MarshalJSON writes non-finite numbers as null so a result with a zero
// min-type reading can still be exported.
func (r AssessmentResult) MarshalJSON() ([]byte, error) {
	type resultAlias AssessmentResult
	return json.Marshal(struct {
		resultAlias
		MeanValue      *float64 `json:"meanValue"`
		MaxValue       *float64 `json:"maxValue"`
		PercentOfLimit *float64 `json:"percentOfLimit"`
	}{
		resultAlias:    resultAlias(r),
		MeanValue:      finiteOrNil(r.MeanValue),
		MaxValue:       finiteOrNil(r.MaxValue),
		PercentOfLimit: finiteOrNil(r.PercentOfLimit),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ComplianceStats counts assessment results by status.
type ComplianceStats struct {
	Pass    int `json:"pass" yaml:"pass"`
	Warning int `json:"warning" yaml:"warning"`
	Fail    int `json:"fail" yaml:"fail"`
	Total   int `json:"total" yaml:"total"`
}
