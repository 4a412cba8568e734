package world

// DebugCollector receives association, ghost and eviction decisions for
// offline inspection. Implementations must be cheap when disabled.
type DebugCollector interface {
	IsEnabled() bool
	RecordAssociation(sample int, key uint64, dist, bound float64, created bool)
	RecordGhost(key uint64, ball bool, count int)
	RecordEviction(key uint64, age int)
}
