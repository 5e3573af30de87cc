package positions

import (
	"fmt"

	"github.com/jmontero/fxhedge/models"
)

// Named strategy templates. Each expands into one to three legs with
// derived strikes and barriers; "custom" takes the caller's leg list as-is.
const (
	StrategyForward        = "forward"
	StrategyCall           = "call"
	StrategyPut            = "put"
	StrategyCollar         = "collar"
	StrategyStraddle       = "straddle"
	StrategyStrangle       = "strangle"
	StrategySeagull        = "seagull"
	StrategyKnockOut       = "knockout"
	StrategyKnockIn        = "knockin"
	StrategyDoubleKnockOut = "double-knockout"
	StrategyDoubleKnockIn  = "double-knockin"
	StrategyCustom         = "custom"
)

// Names lists the catalog in display order.
var Names = []string{
	StrategyForward, StrategyCall, StrategyPut, StrategyCollar,
	StrategyStraddle, StrategyStrangle, StrategySeagull,
	StrategyKnockOut, StrategyKnockIn,
	StrategyDoubleKnockOut, StrategyDoubleKnockIn, StrategyCustom,
}

// StrategyParams are the user-facing knobs for the named templates. Unset
// levels take per-template defaults; Quantity defaults to 100 (full
// notional).
type StrategyParams struct {
	Kind         models.OptionKind // knockout/knockin templates
	Strike       Level
	LowerStrike  Level // collar/strangle put strike, seagull sold put
	UpperStrike  Level // seagull sold call
	Barrier      Level
	LowerBarrier Level
	UpperBarrier Level
	Quantity     float64
	Legs         []OptionLeg // custom only
}

// Resolve expands a named strategy into absolute-level legs. All input
// validation happens here, before anything reaches a pricer: a degenerate
// strategy fails fast with a typed error instead of silently pricing zero.
func Resolve(name string, params StrategyParams, market MarketParams) (Strategy, error) {
	if err := market.Validate(); err != nil {
		return Strategy{}, err
	}
	qty := params.Quantity
	if qty == 0 {
		qty = 100
	}
	spot := market.Spot
	st := Strategy{Name: name, InitialSpot: spot}

	switch name {
	case StrategyForward:
		// A forward is a synthetic long call plus short put struck at the
		// forward rate: the payoff is exactly spot-F and put-call parity
		// makes the net premium zero.
		f := market.Forward()
		st.Legs = []ResolvedLeg{
			{Kind: models.Call, Strike: f, Vol: market.Volatility, Quantity: qty},
			{Kind: models.Put, Strike: f, Vol: market.Volatility, Quantity: -qty},
		}
	case StrategyCall:
		st.Legs = []ResolvedLeg{vanillaLeg(models.Call, orDefault(params.Strike, Pct(100)), qty, market)}
	case StrategyPut:
		st.Legs = []ResolvedLeg{vanillaLeg(models.Put, orDefault(params.Strike, Pct(100)), qty, market)}
	case StrategyCollar:
		st.Legs = []ResolvedLeg{
			vanillaLeg(models.Call, orDefault(params.Strike, Pct(105)), qty, market),
			vanillaLeg(models.Put, orDefault(params.LowerStrike, Pct(95)), -qty, market),
		}
	case StrategyStraddle:
		strike := orDefault(params.Strike, Pct(100))
		st.Legs = []ResolvedLeg{
			vanillaLeg(models.Call, strike, qty, market),
			vanillaLeg(models.Put, strike, qty, market),
		}
	case StrategyStrangle:
		st.Legs = []ResolvedLeg{
			vanillaLeg(models.Call, orDefault(params.Strike, Pct(105)), qty, market),
			vanillaLeg(models.Put, orDefault(params.LowerStrike, Pct(95)), qty, market),
		}
	case StrategySeagull:
		st.Legs = []ResolvedLeg{
			vanillaLeg(models.Call, orDefault(params.Strike, Pct(100)), qty, market),
			vanillaLeg(models.Call, orDefault(params.UpperStrike, Pct(110)), -qty, market),
			vanillaLeg(models.Put, orDefault(params.LowerStrike, Pct(95)), -qty, market),
		}
	case StrategyKnockOut, StrategyKnockIn:
		if !params.Barrier.isSet() {
			return Strategy{}, fmt.Errorf("%w: %s needs a barrier level", models.ErrInvalidInput, name)
		}
		kind := params.Kind
		barrier := params.Barrier.Resolve(spot)
		bk := models.KnockOut
		if name == StrategyKnockIn {
			bk = models.KnockIn
		}
		leg := ResolvedLeg{
			Kind:     kind,
			Strike:   orDefault(params.Strike, Pct(100)).Resolve(spot),
			Vol:      market.Volatility,
			Quantity: qty,
			Barrier: models.BarrierSpec{
				Kind:    bk,
				Level:   barrier,
				Reverse: inferReverse(kind, barrier, spot),
			},
		}
		st.Legs = []ResolvedLeg{leg}
	case StrategyDoubleKnockOut, StrategyDoubleKnockIn:
		if !params.LowerBarrier.isSet() || !params.UpperBarrier.isSet() {
			return Strategy{}, fmt.Errorf("%w: %s needs both barrier levels", models.ErrInvalidInput, name)
		}
		bk := models.DoubleKnockOut
		if name == StrategyDoubleKnockIn {
			bk = models.DoubleKnockIn
		}
		leg := ResolvedLeg{
			Kind:     params.Kind,
			Strike:   orDefault(params.Strike, Pct(100)).Resolve(spot),
			Vol:      market.Volatility,
			Quantity: qty,
			Barrier: models.BarrierSpec{
				Kind:  bk,
				Lower: params.LowerBarrier.Resolve(spot),
				Upper: params.UpperBarrier.Resolve(spot),
			},
		}
		st.Legs = []ResolvedLeg{leg}
	case StrategyCustom:
		if len(params.Legs) == 0 {
			return Strategy{}, fmt.Errorf("%w: custom strategy needs at least one leg", models.ErrInvalidInput)
		}
		for _, leg := range params.Legs {
			resolved, err := resolveLeg(leg, market)
			if err != nil {
				return Strategy{}, err
			}
			st.Legs = append(st.Legs, resolved)
		}
	default:
		return Strategy{}, fmt.Errorf("%w: unknown strategy %q", models.ErrInvalidInput, name)
	}

	for _, leg := range st.Legs {
		if err := validateLeg(leg); err != nil {
			return Strategy{}, err
		}
	}
	return st, nil
}

func vanillaLeg(kind models.OptionKind, strike Level, qty float64, market MarketParams) ResolvedLeg {
	return ResolvedLeg{
		Kind:     kind,
		Strike:   strike.Resolve(market.Spot),
		Vol:      market.Volatility,
		Quantity: qty,
	}
}

func resolveLeg(leg OptionLeg, market MarketParams) (ResolvedLeg, error) {
	vol := leg.Vol
	if vol == 0 {
		vol = market.Volatility
	}
	qty := leg.Quantity
	if qty == 0 {
		qty = 100
	}
	resolved := ResolvedLeg{
		Kind:     leg.Kind,
		Strike:   leg.Strike.Resolve(market.Spot),
		Vol:      vol,
		Quantity: qty,
		Barrier: models.BarrierSpec{
			Kind:    leg.Barrier,
			Reverse: leg.Reverse,
			Level:   leg.BarrierLevel.Resolve(market.Spot),
			Lower:   leg.LowerBarrier.Resolve(market.Spot),
			Upper:   leg.UpperBarrier.Resolve(market.Spot),
		},
	}
	return resolved, nil
}

func validateLeg(leg ResolvedLeg) error {
	if leg.Strike <= 0 {
		return fmt.Errorf("%w: strike=%.6f", models.ErrInvalidInput, leg.Strike)
	}
	if leg.Vol <= 0 {
		return fmt.Errorf("%w: vol=%.6f", models.ErrInvalidInput, leg.Vol)
	}
	switch leg.Barrier.Kind {
	case models.KnockOut, models.KnockIn:
		if leg.Barrier.Level <= 0 {
			return fmt.Errorf("%w: barrier=%.6f", models.ErrInvalidInput, leg.Barrier.Level)
		}
	case models.DoubleKnockOut, models.DoubleKnockIn:
		if leg.Barrier.Reverse {
			return fmt.Errorf("%w: reverse double barrier", models.ErrUnsupportedCombination)
		}
		if leg.Barrier.Lower <= 0 || leg.Barrier.Lower >= leg.Barrier.Upper {
			return fmt.Errorf("%w: corridor [%.6f, %.6f]", models.ErrInvalidInput, leg.Barrier.Lower, leg.Barrier.Upper)
		}
	}
	return nil
}

// inferReverse marks the leg reverse when the barrier sits on the opposite
// side of spot from the standard convention for that option kind (calls
// knock from above, puts from below).
func inferReverse(kind models.OptionKind, barrier, spot float64) bool {
	if kind == models.Call {
		return barrier < spot
	}
	return barrier > spot
}

func orDefault(l, def Level) Level {
	if l.isSet() {
		return l
	}
	return def
}
