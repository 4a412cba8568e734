package network

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/world"
)

// FrameSink consumes decoded frames in arrival order.
type FrameSink interface {
	HandleFrame(f world.Frame) error
}

// DecodeFrame parses one datagram payload.
func DecodeFrame(payload []byte) (world.Frame, error) {
	var f world.Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return world.Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

// Stats counts datagrams by outcome. Safe for concurrent use.
type Stats struct {
	packets  atomic.Int64
	bytes    atomic.Int64
	frames   atomic.Int64
	rejected atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Packets  int64 `json:"packets"`
	Bytes    int64 `json:"bytes"`
	Frames   int64 `json:"frames"`
	Rejected int64 `json:"rejected"`
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Packets:  s.packets.Load(),
		Bytes:    s.bytes.Load(),
		Frames:   s.frames.Load(),
		Rejected: s.rejected.Load(),
	}
}

// deliver decodes payload and hands it to sink, updating stats.
func deliver(payload []byte, sink FrameSink, stats *Stats) {
	stats.packets.Add(1)
	stats.bytes.Add(int64(len(payload)))

	f, err := DecodeFrame(payload)
	if err != nil {
		stats.rejected.Add(1)
		monitoring.Opsf("dropping datagram of %d bytes: %v", len(payload), err)
		return
	}
	if err := sink.HandleFrame(f); err != nil {
		stats.rejected.Add(1)
		monitoring.Diagf("frame for cycle %d rejected: %v", f.Cycle, err)
		return
	}
	stats.frames.Add(1)
}
