package models

import "math"

// Abramowitz & Stegun 26.2.17, absolute error below 7.5e-8.
const (
	normGamma = 0.2316419
	normA1    = 0.319381530
	normA2    = -0.356563782
	normA3    = 1.781477937
	normA4    = -1.821255978
	normA5    = 1.330274429
)

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	if x < 0 {
		return 1 - NormCDF(-x)
	}
	k := 1 / (1 + normGamma*x)
	poly := k * (normA1 + k*(normA2+k*(normA3+k*(normA4+k*normA5))))
	return 1 - NormPDF(x)*poly
}

// NormPDF is the standard normal density.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
