package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"

	"pkg.jsn.cam/jsongen/pkg/grammar"
	"pkg.jsn.cam/jsongen/pkg/rng"
)

// countingGrammar records how many cases were started.
type countingGrammar struct {
	calls atomic.Int64
}

func (c *countingGrammar) Generate(g *grammar.Generator, buf []byte) []byte {
	c.calls.Add(1)
	return g.Generate(buf)
}

func (c *countingGrammar) Name() string { return "counting" }

func (c *countingGrammar) Description() string { return "counting" }

func newTestWorker(gr grammar.Grammar, out chan []byte, stop chan struct{}, stopped *atomic.Bool) *Worker {
	return &Worker{
		id:      0,
		gen:     grammar.NewGenerator(rng.NewSeeded(1), grammar.DefaultLimits),
		grammar: gr,
		pool:    newBufferPool(),
		stats:   &counters{},
		out:     out,
		stop:    stop,
		stopped: stopped,
	}
}

func TestWorker_FinishesCurrentCaseBeforeStopping(t *testing.T) {
	t.Parallel()

	gr := &countingGrammar{}
	out := make(chan []byte, 1)
	stop := make(chan struct{})
	var stopped atomic.Bool

	stopped.Store(true)
	close(stop)

	w := newTestWorker(gr, out, stop, &stopped)
	if err := w.Run(); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if n := gr.calls.Load(); n != 1 {
		t.Errorf("worker started %d cases after stop, want exactly 1", n)
	}
	if n := w.stats.generated.Load(); n != 1 {
		t.Errorf("generated counter = %d, want 1", n)
	}
}

func TestWorker_StopUnblocksSend(t *testing.T) {
	t.Parallel()

	out := make(chan []byte) // never drained
	stop := make(chan struct{})
	var stopped atomic.Bool

	w := newTestWorker(&countingGrammar{}, out, stop, &stopped)
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run() }()

	close(stop)
	if err := <-errCh; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestWorker_FlagObservedAfterSend(t *testing.T) {
	t.Parallel()

	gr := &countingGrammar{}
	out := make(chan []byte, 16)
	stop := make(chan struct{}) // left open: only the flag signals
	var stopped atomic.Bool
	stopped.Store(true)

	w := newTestWorker(gr, out, stop, &stopped)
	if err := w.Run(); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if len(out) != 1 {
		t.Errorf("worker sent %d cases, want 1", len(out))
	}
}

func TestWorker_RecoversInvariantPanic(t *testing.T) {
	t.Parallel()

	out := make(chan []byte, 16)
	var stopped atomic.Bool
	w := newTestWorker(&panicGrammar{after: 3, value: grammar.ErrCodePoint}, out, make(chan struct{}), &stopped)

	err := w.Run()
	if !errors.Is(err, ErrInvariantViolation) || !errors.Is(err, grammar.ErrCodePoint) {
		t.Fatalf("expected wrapped invariant error, got %v", err)
	}
	if len(out) != 3 {
		t.Errorf("worker sent %d cases before failing, want 3", len(out))
	}
}
