package vmath

import (
	"math"
)

// Epsilon is the tolerance used for float comparisons in movement math
const Epsilon = 1e-9

// --- Scalar ---

// Sign returns -1, 0 or 1
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// SignDeadzone returns the sign of v, or 0 when |v| <= deadzone
func SignDeadzone(v, deadzone float64) float64 {
	if math.Abs(v) <= deadzone {
		return 0
	}
	return Sign(v)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Lerp interpolates a toward b by t, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Approach moves current toward target by factor, used for low-pass smoothing
func Approach(current, target, factor float64) float64 {
	return current + factor*(target-current)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every value is finite
func AllFinite(vs ...float64) bool {
	for _, v := range vs {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// --- Vector ---

func Magnitude(x, y float64) float64 {
	return math.Hypot(x, y)
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Normalize2D returns the unit vector of (x, y), zero vector stays zero
func Normalize2D(x, y float64) (float64, float64) {
	m := math.Hypot(x, y)
	if m < Epsilon {
		return 0, 0
	}
	return x / m, y / m
}

// ClampMagnitude scales (x, y) down so its length does not exceed max
func ClampMagnitude(x, y, max float64) (float64, float64) {
	m := math.Hypot(x, y)
	if m <= max || m < Epsilon {
		return x, y
	}
	s := max / m
	return x * s, y * s
}

// LerpVec interpolates each component of (ax, ay) toward (bx, by)
func LerpVec(ax, ay, bx, by, t float64) (float64, float64) {
	return Lerp(ax, bx, t), Lerp(ay, by, t)
}

// --- Randomness ---

// FastRand is a xorshift64 generator, not safe for concurrent use
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 returns a value in [0, 1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Chance returns true with probability p, p <= 0 never rolls
func (r *FastRand) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}
