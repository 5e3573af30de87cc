package positions

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Breakeven locates the settlement spot at which the strategy's payoff
// exactly recovers its premium cost. Returns ok=false when the search does
// not land on a crossing (e.g. a zero-premium forward, where every spot
// breaks even).
func Breakeven(st Strategy, pricing PricingResult, market MarketParams) (float64, bool) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			d := PayoffAt(st, x[0]) - pricing.TotalPremium
			return d * d
		},
	}

	result, err := optimize.Minimize(problem, []float64{market.Spot}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, false
	}
	if math.Abs(result.F) > 1e-10 {
		return result.X[0], false
	}
	return result.X[0], true
}
