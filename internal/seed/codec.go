// Package seed packs a table of two-decimal measurements into a short
// printable string and back, and supplies the deterministic random stream
// used when a string is not such an encoding.
//
// Seed layout:
//
//	byte 0     '2'                 format version
//	byte 1     'A' + sampleCount   sample columns per row
//	bytes 2-3  lowercase hex       row count, zero padded
//	bytes 4..  base-94 payload     int16 little-endian values, scaled by 100
package seed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode"

	"envirocheck/pkg/schema"
)

const (
	// Version is the only format version this package reads or writes.
	Version = '2'

	headerLength   = 4
	minSeedLength  = headerLength + 1
	maxSampleCount = 26  // Largest count whose header character is still an uppercase letter
	maxRowCount    = 255 // Two hex digits
	scale          = 100
)

// ErrOutOfContract is returned by Encode when the counts cannot be written
// into the header.
var ErrOutOfContract = errors.New("dataset shape outside seed format limits")

// Decoded is the content of a valid encoded seed. Values are row-major and
// may be shorter than RowCount*SampleCount when the payload was truncated.
type Decoded struct {
	Values      []float64
	SampleCount int
	RowCount    int
}

// Encode packs the first sampleCount sample columns of every row into a
// seed. Cells that are empty or not numeric are skipped without reserving a
// slot, so a table with holes encodes as a shorter, denser value sequence.
// When no value is produced the result is "" with a nil error.
func Encode(rows []schema.SampleRow, sampleCount int) (string, error) {
	columns := schema.SampleColumns(max(sampleCount, 0))

	values := make([]float64, 0, len(rows)*len(columns))
	for _, row := range rows {
		for _, col := range columns {
			if v, ok := row.Cell(col).Float(); ok {
				values = append(values, v)
			}
		}
	}

	if len(values) == 0 {
		return "", nil
	}

	if sampleCount < 1 || sampleCount > maxSampleCount {
		return "", fmt.Errorf("%w: sample count %d not in [1, %d]", ErrOutOfContract, sampleCount, maxSampleCount)
	}
	if len(rows) > maxRowCount {
		return "", fmt.Errorf("%w: row count %d exceeds %d", ErrOutOfContract, len(rows), maxRowCount)
	}

	payload := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(payload[2*i:], uint16(quantize(v)))
	}

	header := fmt.Sprintf("%c%c%02x", Version, 'A'+sampleCount, len(rows))
	return header + encodeBase94(payload), nil
}

// quantize scales v to hundredths and clamps it into the int16 range.
// NaN has no integer reading and is stored as zero.
func quantize(v float64) int16 {
	scaled := schema.RoundHalfUp(v * scale)
	if math.IsNaN(scaled) {
		return 0
	}
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, scaled)))
}

// Decode parses an encoded seed. It reports false, never panicking, for any
// string that is not a well-formed encoding, so callers can treat such
// strings as opaque random seeds.
func Decode(s string) (Decoded, bool) {
	chars := []rune(s)
	if len(chars) < minSeedLength {
		return Decoded{}, false
	}

	if chars[0] != Version {
		return Decoded{}, false
	}

	sampleCount := int(chars[1]) - 'A'
	if sampleCount < schema.SampleCountMin || sampleCount > schema.SampleCountMax {
		return Decoded{}, false
	}

	rowCount, ok := parseHexPrefix(chars[2:headerLength])
	if !ok || rowCount < 1 {
		return Decoded{}, false
	}

	payload, ok := decodeBase94(chars[headerLength:])
	if !ok {
		return Decoded{}, false
	}

	expected := rowCount * sampleCount
	values := make([]float64, 0, min(expected, len(payload)/2))
	for i := 0; i < expected && 2*i < len(payload); i++ {
		// A dangling odd byte where a value is still expected is malformed
		if 2*i+1 >= len(payload) {
			return Decoded{}, false
		}
		raw := int16(binary.LittleEndian.Uint16(payload[2*i:]))
		values = append(values, float64(raw)/scale)
	}

	return Decoded{Values: values, SampleCount: sampleCount, RowCount: rowCount}, true
}

// parseHexPrefix reads a hexadecimal integer from the start of s the lenient
// way a hand-typed count field is read: leading whitespace and a sign are
// allowed, an optional 0x prefix is skipped, and parsing stops at the first
// non-hex character. It reports false when no digit is found.
func parseHexPrefix(s []rune) (int, bool) {
	i := 0
	for i < len(s) && (unicode.IsSpace(s[i]) || s[i] == '\ufeff') {
		i++
	}

	sign := 1
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}

	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		i += 2
	}

	value, digits := 0, 0
	for ; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			break
		}
		value = value*16 + d
		digits++
	}

	if digits == 0 {
		return 0, false
	}
	return sign * value, true
}

func hexDigit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}
