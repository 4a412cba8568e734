package world

import "github.com/fieldsense/perception/internal/sensor"

// Handle is a stable reference to a tracked player. A handle goes stale when
// its record is evicted or deleted; lookups with a stale handle fail rather
// than return a different player. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// Key packs the handle into a single integer, for callers that need an
// opaque identity (interception results, logs, the run store).
func (h Handle) Key() uint64 { return uint64(h.gen)<<32 | uint64(h.index) }

// HandleFromKey reverses Key.
func HandleFromKey(k uint64) Handle {
	return Handle{index: uint32(k), gen: uint32(k >> 32)}
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

type slot struct {
	gen  uint32
	live bool
	rec  PlayerRecord
}

// arena stores player records in reusable slots. Pointers returned by get
// are only valid until the next insert.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) insert(rec PlayerRecord) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{gen: 1})
	}
	s := &a.slots[idx]
	h := Handle{index: idx, gen: s.gen}
	rec.Handle = h
	s.live = true
	s.rec = rec
	return h
}

func (a *arena) get(h Handle) *PlayerRecord {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return &s.rec
}

func (a *arena) remove(h Handle) bool {
	if a.get(h) == nil {
		return false
	}
	s := &a.slots[h.index]
	s.live = false
	s.gen++
	s.rec = PlayerRecord{}
	a.free = append(a.free, h.index)
	return true
}

// pool identifies one of the three player collections.
type pool int

const (
	poolTeammates pool = iota
	poolOpponents
	poolUnknown
	numPools
)

func poolFor(team sensor.Team) pool {
	switch team {
	case sensor.TeamOurs:
		return poolTeammates
	case sensor.TeamTheirs:
		return poolOpponents
	default:
		return poolUnknown
	}
}

func (p pool) String() string {
	switch p {
	case poolTeammates:
		return "teammates"
	case poolOpponents:
		return "opponents"
	default:
		return "unknown"
	}
}
