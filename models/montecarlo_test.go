package models

import (
	"errors"
	"testing"
)

func TestMonteCarlo_SeededRunsAreIdentical(t *testing.T) {
	e1 := NewMonteCarloEngine(20000, 252, 7)
	e2 := NewMonteCarloEngine(20000, 252, 7)

	r1, err := e1.Price(Call, BarrierSpec{}, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	r2, err := e2.Price(Call, BarrierSpec{}, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if r1.Price != r2.Price || r1.StdError != r2.StdError {
		t.Fatalf("same seed must reproduce: %+v vs %+v", r1, r2)
	}

	r3, _ := NewMonteCarloEngine(20000, 252, 8).Price(Call, BarrierSpec{}, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if r3.Price == r1.Price {
		t.Fatalf("different seeds should give different estimates")
	}
}

func TestMonteCarlo_VanillaConvergesToClosedForm(t *testing.T) {
	engine := NewMonteCarloEngine(100000, 252, 42)
	mc, err := engine.Price(Call, BarrierSpec{}, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	cf, _ := Vanilla(Call, refSpot, 1.10, refTenor, refRd, refRf, refSigma)

	tol := 3 * mc.StdError
	if !almostEqual(mc.Price, cf, tol) {
		t.Fatalf("MC %v vs closed form %v differ beyond %v (stderr %v)", mc.Price, cf, tol, mc.StdError)
	}
}

func TestMonteCarlo_BarrierConvergesToClosedForm(t *testing.T) {
	engine := NewMonteCarloEngine(100000, 252, 42)
	spec := BarrierSpec{Kind: KnockOut, Level: 1.25}
	mc, err := engine.Price(Call, spec, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	cf := SingleBarrier(Call, false, true, refSpot, 1.10, 1.25, refTenor, refRd, refRf, refSigma, 0)

	tol := 3 * mc.StdError
	if !almostEqual(mc.Price, cf, tol) {
		t.Fatalf("MC %v vs closed form %v differ beyond %v (stderr %v)", mc.Price, cf, tol, mc.StdError)
	}
}

func TestMonteCarlo_StdErrorShrinksWithPaths(t *testing.T) {
	small, err := NewMonteCarloEngine(2000, 252, 42).Price(Call, BarrierSpec{}, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	large, err := NewMonteCarloEngine(50000, 252, 42).Price(Call, BarrierSpec{}, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if large.StdError >= small.StdError {
		t.Fatalf("standard error should shrink with more paths: %v -> %v", small.StdError, large.StdError)
	}
	if small.Paths != 2000 || large.Paths != 50000 {
		t.Fatalf("result should report the path count: %d, %d", small.Paths, large.Paths)
	}
}

func TestMonteCarlo_BarrierAtSpotIsWorthless(t *testing.T) {
	engine := NewMonteCarloEngine(5000, 252, 42)
	spec := BarrierSpec{Kind: KnockOut, Level: refSpot}
	mc, err := engine.Price(Call, spec, refSpot, 1.10, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if mc.Price != 0 || mc.StdError != 0 {
		t.Fatalf("knock-out touched at inception must be exactly zero: %+v", mc)
	}
}

func TestMonteCarlo_ShortTenorUsesAtLeastOneStep(t *testing.T) {
	engine := NewMonteCarloEngine(5000, 252, 42)
	mc, err := engine.Price(Call, BarrierSpec{}, refSpot, 1.10, 1e-4, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if mc.Price < 0 {
		t.Fatalf("negative price: %v", mc.Price)
	}
}

func TestMonteCarlo_InvalidInputs(t *testing.T) {
	engine := NewMonteCarloEngine(1000, 252, 42)
	if _, err := engine.Price(Call, BarrierSpec{}, -1, 1.10, refTenor, refRd, refRf, refSigma); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative spot, got %v", err)
	}
	if _, err := engine.Price(Call, BarrierSpec{Kind: KnockOut}, refSpot, 1.10, refTenor, refRd, refRf, refSigma); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing barrier level, got %v", err)
	}
	if _, err := engine.Price(Call, BarrierSpec{Kind: DoubleKnockOut, Lower: 1.20, Upper: 1.00}, refSpot, 1.10, refTenor, refRd, refRf, refSigma); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted corridor, got %v", err)
	}
}

func TestMonteCarlo_ReverseDoubleIsUnsupported(t *testing.T) {
	engine := NewMonteCarloEngine(1000, 252, 42)
	spec := BarrierSpec{Kind: DoubleKnockOut, Reverse: true, Lower: 1.00, Upper: 1.20}
	if _, err := engine.Price(Call, spec, refSpot, 1.10, refTenor, refRd, refRf, refSigma); !errors.Is(err, ErrUnsupportedCombination) {
		t.Fatalf("expected ErrUnsupportedCombination, got %v", err)
	}
}

func TestTerminalSpots_MeanMatchesForward(t *testing.T) {
	engine := NewMonteCarloEngine(200000, 252, 42)
	spots, err := engine.TerminalSpots(refSpot, refTenor, refRd, refRf, refSigma)
	if err != nil {
		t.Fatalf("terminal spots err: %v", err)
	}
	if len(spots) != 200000 {
		t.Fatalf("expected one terminal spot per path, got %d", len(spots))
	}

	var sum float64
	for _, s := range spots {
		sum += s
	}
	mean := sum / float64(len(spots))
	forward := Forward(refSpot, refRd, refRf, refTenor)
	// stderr of the mean is roughly sigma*S/sqrt(N) ~ 2.5e-4 here.
	if !almostEqual(mean, forward, 2e-3) {
		t.Fatalf("mean terminal spot %v should approximate the forward %v", mean, forward)
	}
}
