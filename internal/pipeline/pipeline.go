// Package pipeline runs a pool of grammar workers feeding one deduplicating
// aggregator until a target corpus size is reached.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"pkg.jsn.cam/jsongen/pkg/corpus"
	"pkg.jsn.cam/jsongen/pkg/grammar"
	"pkg.jsn.cam/jsongen/pkg/rng"
)

// maxPresize caps how many set entries are allocated up front.
const maxPresize = 1 << 20

// Handle is one running pipeline.
type Handle struct {
	cfg     Config
	started time.Time

	results chan []byte

	// stopCh is the primary stop signal; stopped is the fast path workers
	// poll after every send.
	stopCh   chan struct{}
	stopped  atomic.Bool
	stopOnce sync.Once

	stats   counters
	elapsed atomic.Int64

	done chan struct{}
	set  *corpus.Set
	err  error
}

// Start validates cfg and begins generating immediately. It returns
// without waiting; use Wait for the corpus. Cancelling ctx stops the run
// cooperatively.
func Start(ctx context.Context, cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.withDefaults()

	gr, err := grammar.Get(cfg.Grammar)
	if err != nil {
		return nil, err
	}
	return start(ctx, cfg, gr), nil
}

// start wires the workers and the aggregator for a validated config.
func start(ctx context.Context, cfg Config, gr grammar.Grammar) *Handle {
	h := &Handle{
		cfg:     cfg,
		started: time.Now(),
		results: make(chan []byte, cfg.BufferSize),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		set:     corpus.New(min(cfg.Target, maxPresize)),
	}
	pool := newBufferPool()

	log.Printf("[PIPELINE] Starting %d workers (grammar: %s, target: %d, max depth: %d, max repeat: %d)",
		cfg.Workers, cfg.Grammar, cfg.Target, cfg.Limits.MaxDepth, cfg.Limits.MaxRepeat)

	// A failing worker or a cancelled parent both end the run.
	g, gctx := errgroup.WithContext(ctx)
	stopOnCancel := context.AfterFunc(gctx, h.Stop)

	for i := range cfg.Workers {
		w := &Worker{
			id:      i,
			gen:     grammar.NewGenerator(newRand(cfg.Seed, i), cfg.Limits),
			grammar: gr,
			pool:    pool,
			stats:   &h.stats,
			out:     h.results,
			stop:    h.stopCh,
			stopped: &h.stopped,
		}
		g.Go(w.Run)
	}

	agg := &Aggregator{
		in:       h.results,
		target:   cfg.Target,
		set:      h.set,
		pool:     pool,
		stats:    &h.stats,
		onTarget: h.Stop,
	}
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		agg.Run()
	}()

	go func() {
		werr := g.Wait()
		// Every sender has returned, so the channel can close.
		close(h.results)
		<-aggDone
		stopOnCancel()
		h.finish(ctx, werr)
	}()

	return h
}

// Run starts a pipeline and waits for its corpus.
func Run(ctx context.Context, cfg Config) (*corpus.Set, error) {
	h, err := Start(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return h.Wait()
}

func newRand(seed uint64, worker int) *rng.Rand {
	if seed == 0 {
		return rng.New()
	}
	return rng.NewSeeded(seed + uint64(worker))
}

// Stop asks every worker to exit after its current case. It is safe to
// call more than once and from any goroutine.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() {
		h.stopped.Store(true)
		close(h.stopCh)
	})
}

func (h *Handle) finish(ctx context.Context, werr error) {
	h.elapsed.Store(int64(time.Since(h.started)))

	switch {
	case werr != nil:
		h.err = werr
	case h.set.Len() < h.cfg.Target:
		cause := context.Cause(ctx)
		if cause == nil {
			cause = ErrStopped
		}
		h.err = fmt.Errorf("%w: %d of %d cases: %w", ErrTargetNotReached, h.set.Len(), h.cfg.Target, cause)
	}

	if h.err != nil {
		log.Printf("[PIPELINE] Run failed: %v", h.err)
	} else {
		log.Printf("[PIPELINE] Collected %d cases in %v", h.set.Len(), time.Duration(h.elapsed.Load()))
	}
	close(h.done)
}

// Wait blocks until the run ends and returns the corpus. On error the
// returned set holds whatever was collected before the run ended.
func (h *Handle) Wait() (*corpus.Set, error) {
	<-h.done
	return h.set, h.err
}

// Done is closed when the run has ended.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Config returns the effective configuration of the run.
func (h *Handle) Config() Config { return h.cfg }

// Progress returns a snapshot of the run counters.
func (h *Handle) Progress() Progress {
	elapsed := time.Duration(h.elapsed.Load())
	if elapsed == 0 {
		elapsed = time.Since(h.started)
	}
	return Progress{
		Generated:  h.stats.generated.Load(),
		Bytes:      h.stats.bytes.Load(),
		Unique:     h.stats.unique.Load(),
		Duplicates: h.stats.duplicates.Load(),
		Target:     h.cfg.Target,
		Elapsed:    elapsed,
	}
}
