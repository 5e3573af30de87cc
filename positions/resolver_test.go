package positions

import (
	"errors"
	"math"
	"testing"

	"github.com/jmontero/fxhedge/models"
)

var testMarket = MarketParams{
	Spot:         1.10,
	DomesticRate: 0.02,
	ForeignRate:  0.01,
	Volatility:   0.10,
	TimeToExpiry: 1.0,
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestResolve_Collar(t *testing.T) {
	st, err := Resolve(StrategyCollar, StrategyParams{}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	if len(st.Legs) != 2 {
		t.Fatalf("collar should have 2 legs, got %d", len(st.Legs))
	}

	call, put := st.Legs[0], st.Legs[1]
	if call.Kind != models.Call || put.Kind != models.Put {
		t.Fatalf("collar legs in wrong order: %v, %v", call.Kind, put.Kind)
	}
	if !almostEqual(call.Strike, 1.10*1.05, 1e-12) {
		t.Fatalf("call strike should default to 105%%: got=%v", call.Strike)
	}
	if !almostEqual(put.Strike, 1.10*0.95, 1e-12) {
		t.Fatalf("put strike should default to 95%%: got=%v", put.Strike)
	}
	if call.Quantity != 100 || put.Quantity != -100 {
		t.Fatalf("collar should be long call, short put: %v, %v", call.Quantity, put.Quantity)
	}
}

func TestResolve_PercentAndAbsoluteLevels(t *testing.T) {
	st, err := Resolve(StrategyCall, StrategyParams{Strike: Pct(110)}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	if !almostEqual(st.Legs[0].Strike, 1.21, 1e-12) {
		t.Fatalf("percent strike mismatch: got=%v", st.Legs[0].Strike)
	}

	st, err = Resolve(StrategyCall, StrategyParams{Strike: Abs(1.15)}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	if st.Legs[0].Strike != 1.15 {
		t.Fatalf("absolute strike mismatch: got=%v", st.Legs[0].Strike)
	}
}

func TestResolve_ForwardStrikesAtForwardRate(t *testing.T) {
	st, err := Resolve(StrategyForward, StrategyParams{}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	if len(st.Legs) != 2 {
		t.Fatalf("forward should be two synthetic legs, got %d", len(st.Legs))
	}
	f := testMarket.Forward()
	for _, leg := range st.Legs {
		if !almostEqual(leg.Strike, f, 1e-12) {
			t.Fatalf("forward leg strike %v should be the forward rate %v", leg.Strike, f)
		}
	}
	if st.Legs[0].Quantity != -st.Legs[1].Quantity {
		t.Fatalf("synthetic forward legs should offset: %v, %v", st.Legs[0].Quantity, st.Legs[1].Quantity)
	}
}

func TestResolve_SeagullHasThreeLegs(t *testing.T) {
	st, err := Resolve(StrategySeagull, StrategyParams{}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	if len(st.Legs) != 3 {
		t.Fatalf("seagull should have 3 legs, got %d", len(st.Legs))
	}
	var net float64
	for _, leg := range st.Legs {
		net += leg.Quantity
	}
	if net != -100 {
		t.Fatalf("seagull should be one bought and two sold legs: net quantity %v", net)
	}
}

func TestResolve_KnockoutInfersReverse(t *testing.T) {
	// Barrier above spot on a call: standard up-and-out.
	st, err := Resolve(StrategyKnockOut, StrategyParams{Barrier: Pct(115)}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	if st.Legs[0].Barrier.Reverse {
		t.Fatalf("barrier above spot on a call should not be reverse")
	}

	// Barrier below spot on a call: reverse knock-out.
	st, err = Resolve(StrategyKnockOut, StrategyParams{Barrier: Pct(95)}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	if !st.Legs[0].Barrier.Reverse {
		t.Fatalf("barrier below spot on a call should be reverse")
	}
}

func TestResolve_CustomLegDefaults(t *testing.T) {
	st, err := Resolve(StrategyCustom, StrategyParams{Legs: []OptionLeg{
		{Kind: models.Put, Strike: Pct(97)},
	}}, testMarket)
	if err != nil {
		t.Fatalf("resolve err: %v", err)
	}
	leg := st.Legs[0]
	if leg.Vol != testMarket.Volatility {
		t.Fatalf("leg vol should default to market vol: got=%v", leg.Vol)
	}
	if leg.Quantity != 100 {
		t.Fatalf("leg quantity should default to full notional: got=%v", leg.Quantity)
	}
}

func TestResolve_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		run  func() error
	}{
		{"unknown strategy", func() error {
			_, err := Resolve("butterfly", StrategyParams{}, testMarket)
			return err
		}},
		{"invalid market", func() error {
			_, err := Resolve(StrategyCall, StrategyParams{}, MarketParams{})
			return err
		}},
		{"knockout without barrier", func() error {
			_, err := Resolve(StrategyKnockOut, StrategyParams{}, testMarket)
			return err
		}},
		{"double without upper barrier", func() error {
			_, err := Resolve(StrategyDoubleKnockOut, StrategyParams{LowerBarrier: Pct(90)}, testMarket)
			return err
		}},
		{"custom without legs", func() error {
			_, err := Resolve(StrategyCustom, StrategyParams{}, testMarket)
			return err
		}},
		{"inverted corridor", func() error {
			_, err := Resolve(StrategyDoubleKnockIn, StrategyParams{
				LowerBarrier: Pct(115), UpperBarrier: Pct(90),
			}, testMarket)
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, models.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestResolve_ReverseDoubleIsUnsupported(t *testing.T) {
	// Same condition, same error as the pricers: no model handles a
	// reverse double barrier, so it is unsupported rather than malformed.
	_, err := Resolve(StrategyCustom, StrategyParams{Legs: []OptionLeg{{
		Kind:         models.Call,
		Barrier:      models.DoubleKnockOut,
		Reverse:      true,
		Strike:       Pct(100),
		LowerBarrier: Pct(90),
		UpperBarrier: Pct(115),
	}}}, testMarket)
	if !errors.Is(err, models.ErrUnsupportedCombination) {
		t.Fatalf("expected ErrUnsupportedCombination, got %v", err)
	}
}

func TestNames_CoversCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range Names {
		seen[name] = true
	}
	for _, want := range []string{StrategyForward, StrategyCollar, StrategySeagull, StrategyDoubleKnockIn, StrategyCustom} {
		if !seen[want] {
			t.Fatalf("catalog missing %q", want)
		}
	}
}
