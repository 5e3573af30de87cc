package models

import "math"

// Forward returns the interest-rate-parity forward rate for a spot quoted
// as domestic units per foreign unit.
func Forward(s, rd, rf, t float64) float64 {
	return s * math.Exp((rd-rf)*t)
}
