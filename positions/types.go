package positions

import (
	"fmt"

	"github.com/jmontero/fxhedge/models"
)

// MarketParams is the market snapshot a pricing request runs against. Every
// field is required; Validate rejects missing or non-positive values at the
// boundary instead of substituting defaults.
type MarketParams struct {
	Spot         float64 // domestic units per foreign unit
	DomesticRate float64 // continuously compounded decimal
	ForeignRate  float64
	Volatility   float64 // annualized
	TimeToExpiry float64 // years
}

func (m MarketParams) Validate() error {
	if m.Spot <= 0 || m.Volatility <= 0 || m.TimeToExpiry <= 0 {
		return fmt.Errorf("%w: spot=%.6f vol=%.6f t=%.6f", models.ErrInvalidInput, m.Spot, m.Volatility, m.TimeToExpiry)
	}
	return nil
}

// Forward returns the interest-rate-parity forward for these params.
func (m MarketParams) Forward() float64 {
	return models.Forward(m.Spot, m.DomesticRate, m.ForeignRate, m.TimeToExpiry)
}

// Level is a strike or barrier, given either as an absolute rate or as a
// percentage of the initial spot.
type Level struct {
	Value   float64
	Percent bool
}

func (l Level) Resolve(initialSpot float64) float64 {
	if l.Percent {
		return initialSpot * l.Value / 100
	}
	return l.Value
}

func (l Level) isSet() bool { return l.Value > 0 }

// Pct is a level quoted as a percentage of initial spot.
func Pct(v float64) Level { return Level{Value: v, Percent: true} }

// Abs is a level quoted as an absolute rate.
func Abs(v float64) Level { return Level{Value: v} }

// OptionLeg is one instrument inside a user-supplied custom strategy.
// Quantity is a percentage of notional, negative for sold legs; zero means
// the full notional. Vol of zero falls back to MarketParams.Volatility.
type OptionLeg struct {
	Kind         models.OptionKind
	Barrier      models.BarrierKind
	Reverse      bool
	Strike       Level
	BarrierLevel Level // single barrier
	LowerBarrier Level // double-barrier corridor
	UpperBarrier Level
	Vol          float64
	Quantity     float64
}

// ResolvedLeg has every level converted to an absolute rate and every
// default filled in. This is what the pricers and the payoff evaluator eat.
type ResolvedLeg struct {
	Kind     models.OptionKind
	Barrier  models.BarrierSpec
	Strike   float64
	Vol      float64
	Quantity float64
}

// Strategy is an ordered collection of resolved legs. Order matters only
// for display.
type Strategy struct {
	Name        string
	InitialSpot float64
	Legs        []ResolvedLeg
}

// LegResult records the premium of one leg and the method that actually
// priced it, so closed-form-to-Monte-Carlo fallbacks stay observable.
type LegResult struct {
	Leg      ResolvedLeg
	Premium  float64 // in rate units, sign follows quantity
	Method   string
	StdError float64 // non-zero for Monte Carlo priced legs
}

type PricingResult struct {
	Strategy     string
	Legs         []LegResult
	TotalPremium float64 // rate units
	PremiumPct   float64 // total premium as a percentage of initial spot
}

// PayoffPoint is one sample of the hedged-rate curve. LegMarks carries each
// leg's resolved strike for chart annotation.
type PayoffPoint struct {
	Spot               float64
	UnhedgedRate       float64
	HedgedRate         float64 // excluding premium
	HedgedRateWithCost float64 // including premium
	LegMarks           []float64
}

type PayoffCurve struct {
	Strategy string
	Forward  float64
	Points   []PayoffPoint
}
