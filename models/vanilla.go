package models

import (
	"fmt"
	"math"
)

// Floor applied to T and sigma so degenerate-but-priceable inputs do not
// divide by zero. Genuinely invalid inputs (S, K <= 0) error instead.
const epsFloor = 1e-10

// Vanilla prices a European FX option under Garman-Kohlhagen. Rates are
// continuously compounded decimals, sigma is annualized, t is in years.
// Spot and strike are quoted as domestic units per foreign unit.
func Vanilla(kind OptionKind, s, k, t, rd, rf, sigma float64) (float64, error) {
	if s <= 0 || k <= 0 {
		return 0, fmt.Errorf("%w: spot=%.6f strike=%.6f", ErrInvalidInput, s, k)
	}
	t = math.Max(t, epsFloor)
	sigma = math.Max(sigma, epsFloor)

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (rd-rf+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	var price float64
	if kind == Call {
		price = s*math.Exp(-rf*t)*NormCDF(d1) - k*math.Exp(-rd*t)*NormCDF(d2)
	} else {
		price = k*math.Exp(-rd*t)*NormCDF(-d2) - s*math.Exp(-rf*t)*NormCDF(-d1)
	}
	// The formula difference can go slightly negative in floating point.
	return math.Max(0, price), nil
}

type Greeks struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// VanillaGreeks returns the Garman-Kohlhagen price and sensitivities. The
// foreign rate plays the role of a continuous dividend yield.
func VanillaGreeks(kind OptionKind, s, k, t, rd, rf, sigma float64) (Greeks, error) {
	price, err := Vanilla(kind, s, k, t, rd, rf, sigma)
	if err != nil {
		return Greeks{}, err
	}
	t = math.Max(t, epsFloor)
	sigma = math.Max(sigma, epsFloor)

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (rd-rf+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	dfF := math.Exp(-rf * t)
	dfD := math.Exp(-rd * t)

	g := Greeks{
		Price: price,
		Gamma: dfF * NormPDF(d1) / (s * sigma * sqrtT),
		Vega:  s * dfF * NormPDF(d1) * sqrtT,
	}
	if kind == Call {
		g.Delta = dfF * NormCDF(d1)
		g.Theta = -s*dfF*NormPDF(d1)*sigma/(2*sqrtT) + rf*s*dfF*NormCDF(d1) - rd*k*dfD*NormCDF(d2)
		g.Rho = k * t * dfD * NormCDF(d2)
	} else {
		g.Delta = dfF * (NormCDF(d1) - 1)
		g.Theta = -s*dfF*NormPDF(d1)*sigma/(2*sqrtT) - rf*s*dfF*NormCDF(-d1) + rd*k*dfD*NormCDF(-d2)
		g.Rho = -k * t * dfD * NormCDF(-d2)
	}
	return g, nil
}
