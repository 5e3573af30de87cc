package positions

import (
	"errors"

	"github.com/jmontero/fxhedge/models"
)

// PriceStrategy prices every leg under the requested mode and aggregates
// the totals. The mode is an explicit argument on every call; there is no
// process-wide pricing-model selector. A nil engine gets the defaults with
// seed 1.
func PriceStrategy(st Strategy, market MarketParams, mode models.PricingMode, engine *models.MonteCarloEngine) (PricingResult, error) {
	if err := market.Validate(); err != nil {
		return PricingResult{}, err
	}
	if engine == nil {
		engine = models.NewMonteCarloEngine(0, 0, 1)
	}

	res := PricingResult{Strategy: st.Name}
	for _, leg := range st.Legs {
		lr, err := priceLeg(leg, market, mode, engine)
		if err != nil {
			return PricingResult{}, err
		}
		res.Legs = append(res.Legs, lr)
		res.TotalPremium += lr.Premium
	}
	res.PremiumPct = res.TotalPremium / st.InitialSpot * 100
	return res, nil
}

func priceLeg(leg ResolvedLeg, market MarketParams, mode models.PricingMode, engine *models.MonteCarloEngine) (LegResult, error) {
	if mode == models.MonteCarlo {
		return mcLeg(leg, market, engine)
	}
	unit, err := closedFormLeg(leg, market)
	if errors.Is(err, models.ErrUnsupportedCombination) {
		// Fall back to simulation, observably: the result records which
		// method actually priced the leg.
		return mcLeg(leg, market, engine)
	}
	if err != nil {
		return LegResult{}, err
	}
	return LegResult{
		Leg:     leg,
		Premium: unit * leg.Quantity / 100,
		Method:  models.ClosedForm.String(),
	}, nil
}

func closedFormLeg(leg ResolvedLeg, market MarketParams) (float64, error) {
	s, t := market.Spot, market.TimeToExpiry
	rd, rf := market.DomesticRate, market.ForeignRate

	switch leg.Barrier.Kind {
	case models.BarrierNone:
		return models.Vanilla(leg.Kind, s, leg.Strike, t, rd, rf, leg.Vol)
	case models.KnockOut, models.KnockIn:
		in := leg.Barrier.Kind == models.KnockIn
		up := leg.Barrier.HitAbove(leg.Kind)
		return models.SingleBarrier(leg.Kind, in, up, s, leg.Strike, leg.Barrier.Level, t, rd, rf, leg.Vol, 0), nil
	case models.DoubleKnockOut, models.DoubleKnockIn:
		if leg.Barrier.Reverse {
			return 0, models.ErrUnsupportedCombination
		}
		in := leg.Barrier.Kind == models.DoubleKnockIn
		return models.DoubleBarrier(leg.Kind, in, s, leg.Strike, leg.Barrier.Lower, leg.Barrier.Upper, t, rd, rf, leg.Vol), nil
	}
	return 0, models.ErrUnsupportedCombination
}

func mcLeg(leg ResolvedLeg, market MarketParams, engine *models.MonteCarloEngine) (LegResult, error) {
	mc, err := engine.Price(leg.Kind, leg.Barrier, market.Spot, leg.Strike, market.TimeToExpiry, market.DomesticRate, market.ForeignRate, leg.Vol)
	if err != nil {
		return LegResult{}, err
	}
	return LegResult{
		Leg:      leg,
		Premium:  mc.Price * leg.Quantity / 100,
		Method:   models.MonteCarlo.String(),
		StdError: mc.StdError,
	}, nil
}
