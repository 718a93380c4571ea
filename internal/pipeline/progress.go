package pipeline

import (
	"sync/atomic"
	"time"
)

// counters are shared by every worker and the aggregator of one run.
type counters struct {
	generated  atomic.Uint64
	bytes      atomic.Uint64
	unique     atomic.Uint64
	duplicates atomic.Uint64
}

func (c *counters) addCase(n int) {
	c.generated.Add(1)
	c.bytes.Add(uint64(n))
}

// Progress is a point-in-time view of a run, for reporting only.
type Progress struct {
	Generated  uint64        // Cases produced by all workers
	Bytes      uint64        // Bytes produced by all workers
	Unique     uint64        // Distinct cases accepted by the aggregator
	Duplicates uint64        // Cases the aggregator had already seen
	Target     int           // Distinct cases requested
	Elapsed    time.Duration // Time since start, frozen once the run ends
}

// Fraction returns Unique/Target clamped to [0, 1].
func (p Progress) Fraction() float64 {
	if p.Target <= 0 {
		return 0
	}
	f := float64(p.Unique) / float64(p.Target)
	if f > 1 {
		return 1
	}
	return f
}

// Rate returns generated cases per second.
func (p Progress) Rate() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Generated) / p.Elapsed.Seconds()
}
