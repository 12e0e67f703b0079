// Package dataset builds sample tables for a regulatory standard from a seed
// string.
package dataset

import (
	"envirocheck/internal/seed"
	"envirocheck/pkg/schema"
)

// Scenario weights and value bands. A draw below passShare lands in the
// comfortable band, below warningShare in the band near the limit, and the
// rest exceed the limit.
const (
	passShare    = 0.7
	warningShare = 0.9
)

// Generate returns one row per parameter of standard, in parameter order.
//
// When seedStr is an encoded seed whose row count equals the number of
// parameters, its values are restored exactly and its own sample count is
// used instead of sampleCount. Any other string seeds a pseudo-random stream
// from which sampleCount plausible values per parameter are drawn.
func Generate(standard schema.Standard, seedStr string, sampleCount int) []schema.SampleRow {
	if decoded, ok := seed.Decode(seedStr); ok && decoded.RowCount == len(standard.Parameters) {
		return fromDecoded(standard, decoded)
	}
	return synthesize(standard, seed.NewRandom(seed.HashString(seedStr)), sampleCount)
}

// fromDecoded lays the flattened values out row by row. Slots past the end
// of a truncated payload stay unset.
func fromDecoded(standard schema.Standard, decoded seed.Decoded) []schema.SampleRow {
	columns := schema.SampleColumns(decoded.SampleCount)
	rows := make([]schema.SampleRow, 0, len(standard.Parameters))

	next := 0
	for _, param := range standard.Parameters {
		row := schema.NewSampleRow(param)
		for _, col := range columns {
			if next < len(decoded.Values) {
				row.Set(col, schema.NumericCell(decoded.Values[next]))
				next++
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func synthesize(standard schema.Standard, rng *seed.Random, sampleCount int) []schema.SampleRow {
	columns := schema.SampleColumns(max(sampleCount, 0))
	rows := make([]schema.SampleRow, 0, len(standard.Parameters))

	for _, param := range standard.Parameters {
		row := schema.NewSampleRow(param)
		for _, col := range columns {
			row.Set(col, schema.NumericCell(schema.Round2(drawValue(param, rng))))
		}
		rows = append(rows, row)
	}

	return rows
}

// drawValue picks a scenario, then a value inside that scenario's band.
// Exactly two draws are consumed per value. Any type other than max is
// treated as min. The float64 conversions keep the compiler from fusing
// multiply-add, which would change results on some architectures.
func drawValue(param schema.Parameter, rng *seed.Random) float64 {
	scenario := rng.Float64()
	limit := param.Limit

	if param.Type == schema.LimitMax {
		switch {
		case scenario < passShare:
			return limit * (rng.Float64() * 0.75) // [0, 0.75) x limit
		case scenario < warningShare:
			return limit * (0.8 + float64(rng.Float64()*0.2)) // [0.8, 1.0) x limit
		default:
			return limit * (1.01 + float64(rng.Float64()*0.5)) // [1.01, 1.51) x limit
		}
	}

	switch {
	case scenario < passShare:
		return limit * (1.1 + float64(rng.Float64()*0.5)) // [1.1, 1.6) x limit
	case scenario < warningShare:
		return limit * (1.0 + float64(rng.Float64()*0.1)) // [1.0, 1.1) x limit
	default:
		return limit * (rng.Float64() * 0.99) // [0, 0.99) x limit
	}
}
