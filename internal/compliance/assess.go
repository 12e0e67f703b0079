// Package compliance classifies sample rows against their regulatory limits.
package compliance

import (
	"envirocheck/pkg/schema"
)

// Assess produces one result per row, in row order. Only the named columns
// are read; empty and unparsable cells are dropped rather than counted as
// zero.
//
// For max-type rows the critical value is the highest reading: above the
// limit fails, at or above limit*safetyMargin warns. For min-type rows it is
// the lowest reading: below the limit fails, at or below
// limit*(1+(1-safetyMargin)) warns. Any type other than max is assessed as
// min.
func Assess(rows []schema.SampleRow, columns []string, safetyMargin float64) []schema.AssessmentResult {
	results := make([]schema.AssessmentResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, assessRow(row, columns, safetyMargin))
	}
	return results
}

// AssessDefault runs Assess with schema.DefaultSafetyMargin.
func AssessDefault(rows []schema.SampleRow, columns []string) []schema.AssessmentResult {
	return Assess(rows, columns, schema.DefaultSafetyMargin)
}

func assessRow(row schema.SampleRow, columns []string, safetyMargin float64) schema.AssessmentResult {
	result := schema.AssessmentResult{
		ParameterID:   row.ParameterID,
		ParameterName: row.ParameterName,
		Unit:          row.Unit,
		Limit:         row.Limit,
		Type:          row.Type,
		Status:        schema.StatusNotAvailable,
	}

	values := readValues(row, columns)
	if len(values) == 0 {
		return result
	}

	sum, hi, lo := values[0], values[0], values[0]
	for _, v := range values[1:] {
		sum += v
		hi = max(hi, v)
		lo = min(lo, v)
	}

	result.MeanValue = schema.Round2(sum / float64(len(values)))
	result.MaxValue = hi

	limit := row.Limit
	var percent float64
	result.Status = schema.StatusPass

	if row.Type == schema.LimitMax {
		percent = hi / limit * 100
		switch {
		case hi > limit:
			result.Status = schema.StatusFail
		case hi >= limit*safetyMargin:
			result.Status = schema.StatusWarning
		}
	} else {
		percent = limit / lo * 100
		switch {
		case lo < limit:
			result.Status = schema.StatusFail
		case lo <= limit*(1+(1-safetyMargin)):
			result.Status = schema.StatusWarning
		}
	}

	result.PercentOfLimit = schema.RoundHalfUp(percent)
	return result
}

func readValues(row schema.SampleRow, columns []string) []float64 {
	values := make([]float64, 0, len(columns))
	for _, col := range columns {
		if v, ok := row.Cell(col).Float(); ok {
			values = append(values, v)
		}
	}
	return values
}
