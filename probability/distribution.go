package probability

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jmontero/fxhedge/models"
	"github.com/jmontero/fxhedge/positions"
)

// RateDistribution summarizes the premium-inclusive hedged rate over
// simulated market outcomes. Rates are quoted domestic-per-foreign for a
// buyer of the foreign currency, so higher is worse: VaR95 is the rate
// exceeded in only 5% of outcomes and the expected shortfall averages that
// tail.
type RateDistribution struct {
	Mean              float64
	StdDev            float64
	VaR95             float64
	ExpectedShortfall float64
	Parametric95      float64
}

// HedgedRateDistribution simulates terminal spots and pushes each outcome
// through the strategy payoff to get the realized effective rate.
func HedgedRateDistribution(st positions.Strategy, pricing positions.PricingResult, market positions.MarketParams, engine *models.MonteCarloEngine) (RateDistribution, error) {
	if engine == nil {
		engine = models.NewMonteCarloEngine(0, 0, 1)
	}
	spots, err := engine.TerminalSpots(market.Spot, market.TimeToExpiry, market.DomesticRate, market.ForeignRate, market.Volatility)
	if err != nil {
		return RateDistribution{}, err
	}

	rates := make([]float64, len(spots))
	for i, sT := range spots {
		rates[i] = sT - positions.PayoffAt(st, sT) - pricing.TotalPremium
	}
	mean, std := stat.MeanStdDev(rates, nil)

	sort.Float64s(rates)
	idx := int(0.95 * float64(len(rates)))
	if idx >= len(rates) {
		idx = len(rates) - 1
	}
	var95 := rates[idx]
	tail := rates[idx:]
	es := stat.Mean(tail, nil)

	// Parametric comparison: the log-normal terminal-spot quantile pushed
	// through the same payoff.
	t := market.TimeToExpiry
	sigma := market.Volatility
	dist := distuv.Normal{
		Mu:    math.Log(market.Spot) + (market.DomesticRate-market.ForeignRate-0.5*sigma*sigma)*t,
		Sigma: sigma * math.Sqrt(t),
	}
	qSpot := math.Exp(dist.Quantile(0.95))
	param := qSpot - positions.PayoffAt(st, qSpot) - pricing.TotalPremium

	return RateDistribution{
		Mean:              mean,
		StdDev:            std,
		VaR95:             var95,
		ExpectedShortfall: es,
		Parametric95:      param,
	}, nil
}
