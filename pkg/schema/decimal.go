package schema

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimal reads the longest decimal literal at the start of s, after
// leading whitespace. Trailing garbage is ignored ("3.5mg" reads as 3.5) and
// "Infinity" is accepted. It reports false when no number can be read.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	if strings.HasPrefix(s[end:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	intDigits := countDigits(s[end:])
	end += intDigits

	fracDigits := 0
	if end < len(s) && s[end] == '.' {
		fracDigits = countDigits(s[end+1:])
		if intDigits > 0 || fracDigits > 0 {
			end += 1 + fracDigits
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}

	// Exponent only counts when at least one digit follows it
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if n := countDigits(s[exp:]); n > 0 {
			end = exp + n
		}
	}

	literal := strings.TrimSuffix(s[:end], ".")
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		// Out-of-range literals still carry a usable ±Inf or 0
		if errors.Is(err, strconv.ErrRange) {
			return value, true
		}
		return 0, false
	}
	return value, true
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// RoundHalfUp rounds to the nearest integer with ties going towards +Inf.
func RoundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	floor := math.Floor(x)
	if x-floor >= 0.5 {
		return floor + 1
	}
	return floor
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return RoundHalfUp(x*100) / 100
}
