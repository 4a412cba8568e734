package intercept

// UnreachableCycles caps every estimate.
const UnreachableCycles = 1000

// Mode tells whether an estimate needs the stamina reserve.
type Mode int

const (
	ModeNormal Mode = iota
	ModeExhaust
	ModeFallback // no success within the horizon; closed-form estimate
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeExhaust:
		return "exhaust"
	default:
		return "fallback"
	}
}

// Estimate is the earliest predicted control of the ball. DashCycles counts
// every cycle after the turns, including cycles spent drifting or waiting.
type Estimate struct {
	Mode       Mode
	TurnCycles int
	DashCycles int
	DashPower  float64
	BackDash   bool
}

// TotalCycles returns TurnCycles + DashCycles.
func (e Estimate) TotalCycles() int { return e.TurnCycles + e.DashCycles }

func capCycles(n int) int {
	if n < 0 {
		return 0
	}
	if n > UnreachableCycles {
		return UnreachableCycles
	}
	return n
}
