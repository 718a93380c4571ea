package pipeline

import (
	"log"

	"pkg.jsn.cam/jsongen/pkg/corpus"
)

// Aggregator deduplicates worker output into a corpus.Set.
type Aggregator struct {
	in       <-chan []byte
	target   int
	set      *corpus.Set
	pool     *bufferPool
	stats    *counters
	onTarget func()
}

// Run drains the results channel until the target is reached or the
// channel is closed. It is the only goroutine touching the set.
func (a *Aggregator) Run() {
	for buf := range a.in {
		if a.set.Insert(buf) {
			a.stats.unique.Add(1)
		} else {
			a.stats.duplicates.Add(1)
		}
		a.pool.put(buf)

		if a.set.Len() >= a.target {
			log.Printf("[AGGREGATOR] Target of %d reached (%d duplicates)",
				a.target, a.stats.duplicates.Load())
			a.onTarget()
			return
		}
	}
}
