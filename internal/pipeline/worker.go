package pipeline

import (
	"fmt"
	"log"
	"sync/atomic"

	"pkg.jsn.cam/jsongen/pkg/grammar"
)

// Worker produces test cases from its own generator and sends them to the
// aggregator until the run is stopped.
type Worker struct {
	id      int
	gen     *grammar.Generator
	grammar grammar.Grammar
	pool    *bufferPool
	stats   *counters

	out     chan<- []byte
	stop    <-chan struct{}
	stopped *atomic.Bool
}

// Run is the worker main loop. A stop is only observed between cases: the
// case in flight is always finished first.
func (w *Worker) Run() (err error) {
	var cases uint64
	// hint tracks the largest case seen so far so buffers rarely regrow.
	hint := initialBufferSize
	defer func() {
		// Engine panics are broken invariants; they end this worker with an error.
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = fmt.Errorf("%w: worker %d: %w", ErrInvariantViolation, w.id, perr)
			} else {
				err = fmt.Errorf("%w: worker %d: %v", ErrInvariantViolation, w.id, p)
			}
			log.Printf("[WORKER:%d] Aborted: %v", w.id, err)
			return
		}
		log.Printf("[WORKER:%d] Stopped after %d cases", w.id, cases)
	}()

	for {
		buf := w.grammar.Generate(w.gen, w.pool.get(hint))
		w.stats.addCase(len(buf))
		cases++
		if n := len(buf); n > hint {
			hint = min(n, maxPooledBuffer)
		}

		select {
		case w.out <- buf:
			// Ownership of buf moved to the aggregator.
		case <-w.stop:
			w.pool.put(buf)
			return nil
		}

		if w.stopped.Load() {
			return nil
		}
	}
}
