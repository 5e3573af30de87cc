package models

import "errors"

type OptionKind int

const (
	Call OptionKind = iota
	Put
)

func (k OptionKind) String() string {
	if k == Put {
		return "put"
	}
	return "call"
}

// BarrierKind is the tagged replacement for the string-encoded option types
// ("callDKO" etc.) that earlier versions of this tool matched by substring.
type BarrierKind int

const (
	BarrierNone BarrierKind = iota
	KnockOut
	KnockIn
	DoubleKnockOut
	DoubleKnockIn
)

func (b BarrierKind) String() string {
	switch b {
	case KnockOut:
		return "knock-out"
	case KnockIn:
		return "knock-in"
	case DoubleKnockOut:
		return "double-knock-out"
	case DoubleKnockIn:
		return "double-knock-in"
	}
	return "none"
}

func (b BarrierKind) IsDouble() bool {
	return b == DoubleKnockOut || b == DoubleKnockIn
}

func (b BarrierKind) IsKnockIn() bool {
	return b == KnockIn || b == DoubleKnockIn
}

// PricingMode selects the pricer for barrier legs. It is threaded through
// every call rather than held in process state.
type PricingMode int

const (
	ClosedForm PricingMode = iota
	MonteCarlo
)

func (m PricingMode) String() string {
	if m == MonteCarlo {
		return "monte-carlo"
	}
	return "closed-form"
}

var (
	ErrInvalidInput           = errors.New("invalid pricing input")
	ErrUnsupportedCombination = errors.New("unsupported barrier combination")
)

// BarrierSpec describes the barrier condition attached to a leg. Single
// barriers use Level; doubles use the Lower/Upper corridor.
type BarrierSpec struct {
	Kind    BarrierKind
	Reverse bool
	Level   float64
	Lower   float64
	Upper   float64
}

// HitAbove reports whether a single-barrier leg knocks when spot trades at
// or above the barrier. Standard convention: calls knock from above, puts
// from below; Reverse flips the side.
func (bs BarrierSpec) HitAbove(kind OptionKind) bool {
	above := kind == Call
	if bs.Reverse {
		above = !above
	}
	return above
}

// Touched reports whether the barrier condition is met at a single spot
// level. Double barriers count as touched once spot reaches either side of
// the corridor.
func (bs BarrierSpec) Touched(kind OptionKind, spot float64) bool {
	switch bs.Kind {
	case KnockOut, KnockIn:
		if bs.HitAbove(kind) {
			return spot >= bs.Level
		}
		return spot <= bs.Level
	case DoubleKnockOut, DoubleKnockIn:
		return spot <= bs.Lower || spot >= bs.Upper
	}
	return false
}
