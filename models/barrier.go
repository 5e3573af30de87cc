package models

import (
	"log"
	"math"
)

// SingleBarrier prices a continuously monitored single-barrier FX option
// with the Reiner-Rubinstein formulas: six partial terms f1..f6 combined per
// the eight {call,put} x {down,up} x {in,out} cases, with the strike side of
// the barrier selecting between two disjoint tables. in=false prices the
// knock-out, up=false places the barrier below spot. The rebate is paid on
// knock-out (or at expiry for an unexercised knock-in).
//
// Degenerate inputs price as 0 with a diagnostic so a sweep over many spot
// levels never aborts on one bad point.
func SingleBarrier(kind OptionKind, in, up bool, s, k, h, t, rd, rf, sigma, rebate float64) float64 {
	if s <= 0 || k <= 0 || h <= 0 || t <= 0 || sigma <= 0 {
		log.Printf("barrier: degenerate input s=%.6f k=%.6f h=%.6f t=%.6f sigma=%.6f, pricing 0", s, k, h, t, sigma)
		return 0
	}

	// Barrier already breached at inception: the knock-out is dead and the
	// knock-in is the vanilla.
	if (up && s >= h) || (!up && s <= h) {
		if in {
			p, err := Vanilla(kind, s, k, t, rd, rf, sigma)
			if err != nil {
				return 0
			}
			return p
		}
		return rebate
	}

	b := rd - rf
	sqrtT := math.Sqrt(t)
	sigT := sigma * sqrtT
	mu := (b - 0.5*sigma*sigma) / (sigma * sigma)
	lambda := math.Sqrt(math.Max(0, mu*mu+2*rd/(sigma*sigma)))

	phi := 1.0
	if kind == Put {
		phi = -1
	}
	eta := 1.0
	if up {
		eta = -1
	}

	x1 := math.Log(s/k)/sigT + (1+mu)*sigT
	x2 := math.Log(s/h)/sigT + (1+mu)*sigT
	y1 := math.Log(h*h/(s*k))/sigT + (1+mu)*sigT
	y2 := math.Log(h/s)/sigT + (1+mu)*sigT
	z := math.Log(h/s)/sigT + lambda*sigT

	dfS := s * math.Exp((b-rd)*t)
	dfK := k * math.Exp(-rd*t)
	hs := h / s
	pm := math.Pow(hs, 2*mu)
	pm1 := math.Pow(hs, 2*(mu+1))

	f1 := phi*dfS*NormCDF(phi*x1) - phi*dfK*NormCDF(phi*(x1-sigT))
	f2 := phi*dfS*NormCDF(phi*x2) - phi*dfK*NormCDF(phi*(x2-sigT))
	f3 := phi*dfS*pm1*NormCDF(eta*y1) - phi*dfK*pm*NormCDF(eta*(y1-sigT))
	f4 := phi*dfS*pm1*NormCDF(eta*y2) - phi*dfK*pm*NormCDF(eta*(y2-sigT))
	f5 := rebate * math.Exp(-rd*t) * (NormCDF(eta*(x2-sigT)) - pm*NormCDF(eta*(y2-sigT)))
	f6 := rebate * (math.Pow(hs, mu+lambda)*NormCDF(eta*z) + math.Pow(hs, mu-lambda)*NormCDF(eta*(z-2*lambda*sigT)))

	kAbove := k > h

	var price float64
	switch {
	case in && kind == Call && !up: // down-and-in call
		if kAbove {
			price = f3 + f5
		} else {
			price = f1 - f2 + f4 + f5
		}
	case in && kind == Call && up: // up-and-in call
		if kAbove {
			price = f1 + f5
		} else {
			price = f2 - f3 + f4 + f5
		}
	case in && kind == Put && !up: // down-and-in put
		if kAbove {
			price = f2 - f3 + f4 + f5
		} else {
			price = f1 + f5
		}
	case in && kind == Put && up: // up-and-in put
		if kAbove {
			price = f1 - f2 + f4 + f5
		} else {
			price = f3 + f5
		}
	case !in && kind == Call && !up: // down-and-out call
		if kAbove {
			price = f1 - f3 + f6
		} else {
			price = f2 - f4 + f6
		}
	case !in && kind == Call && up: // up-and-out call
		if kAbove {
			price = f6
		} else {
			price = f1 - f2 + f3 - f4 + f6
		}
	case !in && kind == Put && !up: // down-and-out put
		if kAbove {
			price = f1 - f2 + f3 - f4 + f6
		} else {
			price = f6
		}
	case !in && kind == Put && up: // up-and-out put
		if kAbove {
			price = f2 - f4 + f6
		} else {
			price = f1 - f3 + f6
		}
	}
	return math.Max(0, price)
}
