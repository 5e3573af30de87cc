package positions

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SweepConfig controls the spot sweep of a payoff curve. Zero values take
// the defaults: +/-30% around initial spot in 100 steps.
type SweepConfig struct {
	WidthPct float64
	Steps    int
}

const (
	defaultSweepWidth = 30
	defaultSweepSteps = 100
)

// Curve evaluates the hedged-rate curve over a spot sweep. Points are
// independent and computed in parallel. The hedged rate excluding premium
// is spot minus the signed strategy payoff; including premium additionally
// subtracts the total premium cost.
func Curve(st Strategy, market MarketParams, pricing PricingResult, cfg SweepConfig) (PayoffCurve, error) {
	if err := market.Validate(); err != nil {
		return PayoffCurve{}, err
	}
	width := cfg.WidthPct
	if width <= 0 {
		width = defaultSweepWidth
	}
	steps := cfg.Steps
	if steps <= 1 {
		steps = defaultSweepSteps
	}

	lo := st.InitialSpot * (1 - width/100)
	hi := st.InitialSpot * (1 + width/100)

	marks := make([]float64, len(st.Legs))
	for i, leg := range st.Legs {
		marks[i] = leg.Strike
	}

	points := make([]PayoffPoint, steps)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range points {
		i := i
		g.Go(func() error {
			spot := lo + (hi-lo)*float64(i)/float64(steps-1)
			hedged := spot - PayoffAt(st, spot)
			points[i] = PayoffPoint{
				Spot:               spot,
				UnhedgedRate:       spot,
				HedgedRate:         hedged,
				HedgedRateWithCost: hedged - pricing.TotalPremium,
				LegMarks:           marks,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PayoffCurve{}, err
	}

	return PayoffCurve{
		Strategy: st.Name,
		Forward:  market.Forward(),
		Points:   points,
	}, nil
}
