package positions

import (
	"testing"

	"github.com/jmontero/fxhedge/models"
)

func TestBreakeven_LongCall(t *testing.T) {
	st, _ := Resolve(StrategyCall, StrategyParams{}, testMarket)
	pricing, _ := PriceStrategy(st, testMarket, models.ClosedForm, nil)

	be, ok := Breakeven(st, pricing, testMarket)
	if !ok {
		t.Fatalf("expected a breakeven for a long call")
	}
	want := st.Legs[0].Strike + pricing.TotalPremium
	if !almostEqual(be, want, 1e-4) {
		t.Fatalf("call breakeven mismatch: got=%v want=%v", be, want)
	}
}

func TestBreakeven_LongPut(t *testing.T) {
	st, _ := Resolve(StrategyPut, StrategyParams{}, testMarket)
	pricing, _ := PriceStrategy(st, testMarket, models.ClosedForm, nil)

	be, ok := Breakeven(st, pricing, testMarket)
	if !ok {
		t.Fatalf("expected a breakeven for a long put")
	}
	want := st.Legs[0].Strike - pricing.TotalPremium
	if !almostEqual(be, want, 1e-4) {
		t.Fatalf("put breakeven mismatch: got=%v want=%v", be, want)
	}
}
