package positions

import (
	"math"

	"github.com/jmontero/fxhedge/models"
)

// PayoffAt returns the strategy's aggregate intrinsic value if spot settles
// exactly at the given level. Barrier conditions are tested statically at
// that level (the "what if spot lands here" view; path dependence belongs
// to the Monte Carlo engine). Short legs subtract through their negative
// quantity.
func PayoffAt(st Strategy, spot float64) float64 {
	var total float64
	for _, leg := range st.Legs {
		total += legPayoff(leg, spot)
	}
	return total
}

func legPayoff(leg ResolvedLeg, spot float64) float64 {
	var intrinsic float64
	if leg.Kind == models.Call {
		intrinsic = math.Max(0, spot-leg.Strike)
	} else {
		intrinsic = math.Max(0, leg.Strike-spot)
	}

	switch leg.Barrier.Kind {
	case models.KnockOut, models.DoubleKnockOut:
		if leg.Barrier.Touched(leg.Kind, spot) {
			intrinsic = 0
		}
	case models.KnockIn, models.DoubleKnockIn:
		if !leg.Barrier.Touched(leg.Kind, spot) {
			intrinsic = 0
		}
	}
	return intrinsic * leg.Quantity / 100
}
