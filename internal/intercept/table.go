package intercept

import (
	"sort"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
	"github.com/fieldsense/perception/internal/sensor"
)

// Candidate is a tracked player handed to the table. Key is an opaque
// caller-side identity returned unchanged in results.
type Candidate struct {
	Key   uint64
	Team  sensor.Team
	Mover Mover
}

// Input is the belief snapshot the table is computed from.
type Input struct {
	Self       Mover
	SelfValid  bool
	Ball       geom.Vector2
	BallVel    geom.Vector2
	BallValid  bool
	Candidates []Candidate
}

// Result is one player's reach estimate.
type Result struct {
	Key      uint64
	Team     sensor.Team
	Estimate Estimate
}

// Table holds the reach estimates of one cycle. Update recomputes it at
// most once per cycle.
type Table struct {
	s    params.Server
	opts Options

	cycle    int
	computed bool

	cache     *BallCache
	self      Estimate
	selfValid bool
	teammates []Result
	opponents []Result
}

// NewTable returns an empty table.
func NewTable(s params.Server, opts Options) *Table {
	return &Table{s: s, opts: opts}
}

// Update recomputes every estimate for cycle. A second call for the same
// cycle is a no-op.
func (t *Table) Update(cycle int, in Input) {
	if t.computed && t.cycle == cycle {
		return
	}
	t.clear()
	t.cycle = cycle
	t.computed = true
	if !in.BallValid {
		return
	}

	t.cache = NewBallCache(in.Ball, in.BallVel, t.s, t.opts.Horizon)
	if in.SelfValid {
		t.self = PredictSelf(in.Self, t.cache, t.s, t.opts)
		t.selfValid = true
	}
	for _, c := range in.Candidates {
		est, ok := PredictPlayer(c.Mover, t.cache, t.s, t.opts)
		if !ok {
			continue
		}
		r := Result{Key: c.Key, Team: c.Team, Estimate: est}
		switch c.Team {
		case sensor.TeamOurs:
			t.teammates = append(t.teammates, r)
		case sensor.TeamTheirs:
			t.opponents = append(t.opponents, r)
		}
	}
	byCycles := func(rs []Result) {
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Estimate.TotalCycles() < rs[j].Estimate.TotalCycles()
		})
	}
	byCycles(t.teammates)
	byCycles(t.opponents)
}

// Invalidate forces the next Update to recompute.
func (t *Table) Invalidate() { t.computed = false }

func (t *Table) clear() {
	t.cache = nil
	t.self = Estimate{}
	t.selfValid = false
	t.teammates = t.teammates[:0]
	t.opponents = t.opponents[:0]
}

// Cycle returns the cycle of the last computation.
func (t *Table) Cycle() int { return t.cycle }

// BallCache returns the ball trajectory of the last computation, or nil
// when the ball was unknown.
func (t *Table) BallCache() *BallCache { return t.cache }

// SelfEstimate returns our estimate and whether it was computed.
func (t *Table) SelfEstimate() (Estimate, bool) { return t.self, t.selfValid }

// SelfReachCycle returns our earliest reach cycle, or UnreachableCycles.
func (t *Table) SelfReachCycle() int {
	if !t.selfValid {
		return UnreachableCycles
	}
	return t.self.TotalCycles()
}

// Teammates returns teammate results, fastest first.
func (t *Table) Teammates() []Result { return append([]Result(nil), t.teammates...) }

// Opponents returns opponent results, fastest first.
func (t *Table) Opponents() []Result { return append([]Result(nil), t.opponents...) }

// FastestTeammate returns the teammate with the smallest reach cycle.
func (t *Table) FastestTeammate() (Result, bool) {
	if len(t.teammates) == 0 {
		return Result{}, false
	}
	return t.teammates[0], true
}

// FastestOpponent returns the opponent with the smallest reach cycle.
func (t *Table) FastestOpponent() (Result, bool) {
	if len(t.opponents) == 0 {
		return Result{}, false
	}
	return t.opponents[0], true
}
