package mathhelp

import (
	"math"
)

// MaxGridValue bounds grid coordinates, so that every delta between two of them fits an int64
// and every one of them is exactly representable as a float64.
const MaxGridValue = 1 << 53

// FloorToGrid returns the index of the grid cell that v falls in,
// counting cells of size scale from origin.
// ok is false when the index is NaN, infinite or beyond MaxGridValue.
func FloorToGrid(v, origin, scale float64) (i int64, ok bool) {
	return toGridValue(math.Floor((v - origin) / scale))
}

// RoundToGrid returns the grid line closest to v, counting lines spaced scale apart from origin.
// Halves are rounded towards positive infinity (-2.5 becomes -2), not away from zero like math.Round.
// ok is false when the line is NaN, infinite or beyond MaxGridValue.
func RoundToGrid(v, origin, scale float64) (i int64, ok bool) {
	return toGridValue(RoundHalfUp((v - origin) / scale))
}

func toGridValue(f float64) (int64, bool) {
	if math.IsNaN(f) || f < -MaxGridValue || f > MaxGridValue {
		return 0, false
	}
	return int64(f), true
}

// RoundHalfUp rounds to the nearest integer, with halves towards positive infinity
func RoundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

// IsFinite reports whether f is neither NaN nor an infinity
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
