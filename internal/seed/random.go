package seed

import "unicode/utf16"

// Random is a Mulberry32 generator. All arithmetic is on uint32 with
// wraparound, so a given seed yields the same stream on every platform.
type Random struct {
	state uint32
}

// NewRandom creates a generator from a signed 32-bit seed.
func NewRandom(seed int32) *Random {
	return &Random{state: uint32(seed)}
}

// Float64 returns the next draw in [0, 1).
func (r *Random) Float64() float64 {
	r.state += 0x6d2b79f5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / (1 << 32)
}

// HashString folds s into a signed 32-bit seed with the classic
// h = h*31 + c accumulation over its UTF-16 code units.
func HashString(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(unit)
	}
	return h
}
