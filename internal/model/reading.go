package model

import "fmt"

// Reading is a health reading in one of the two upstream encodings: an
// absolute value paired with a maximum, or a pre-normalized fraction.
// The encoding is carried as a tag inside the value so call sites never
// branch on it; Percent is the single normalization point.
type Reading struct {
	absolute bool
	value    float64
	max      float64
}

// AbsoluteReading builds a reading from an absolute value and its maximum.
func AbsoluteReading(value, max float64) Reading {
	return Reading{absolute: true, value: value, max: max}
}

// FractionReading builds a reading from a pre-normalized fraction in [0, 1].
func FractionReading(fraction float64) Reading {
	return Reading{value: fraction}
}

// Percent normalizes the reading to a 0-100 percentage. An absolute reading
// without a positive maximum cannot be normalized and is malformed.
// The result is not clamped; transiently out-of-range values pass through.
func (r Reading) Percent() (float64, error) {
	if r.absolute {
		if r.max <= 0 {
			return 0, fmt.Errorf("absolute health reading requires a positive max, got %v", r.max)
		}
		return r.value / r.max * 100, nil
	}
	return r.value * 100, nil
}
