package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pkg.jsn.cam/jsongen/pkg/grammar"
)

func TestRun_SingleWorkerTargetFive(t *testing.T) {
	t.Parallel()

	set, err := Run(context.Background(), Config{Workers: 1, Target: 5, Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if set.Len() != 5 {
		t.Fatalf("corpus has %d cases, want exactly 5", set.Len())
	}

	cases := set.Sorted()
	for i, c := range cases {
		if !json.Valid(c) {
			t.Errorf("case %d invalid: %q", i, c)
		}
		if i > 0 && bytes.Equal(cases[i-1], c) {
			t.Errorf("duplicate case %q", c)
		}
	}
}

func TestRun_ManyWorkers(t *testing.T) {
	t.Parallel()

	h, err := Start(context.Background(), Config{Workers: 8, Target: 2000})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	set, err := h.Wait()
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if set.Len() != 2000 {
		t.Errorf("corpus has %d cases, want 2000", set.Len())
	}

	p := h.Progress()
	if p.Unique != 2000 {
		t.Errorf("Progress.Unique = %d, want 2000", p.Unique)
	}
	if p.Generated < p.Unique+p.Duplicates {
		t.Errorf("generated %d < unique %d + duplicates %d", p.Generated, p.Unique, p.Duplicates)
	}
	if p.Bytes == 0 || p.Fraction() != 1 {
		t.Errorf("unexpected progress %+v", p)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done should be closed after Wait returns")
	}
}

func TestRun_DeterministicWithSingleSeededWorker(t *testing.T) {
	t.Parallel()

	cfg := Config{Workers: 1, Target: 50, Seed: 42}

	a, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	x, y := a.Sorted(), b.Sorted()
	if len(x) != len(y) {
		t.Fatalf("runs collected %d and %d cases", len(x), len(y))
	}
	for i := range x {
		if !bytes.Equal(x[i], y[i]) {
			t.Fatalf("case %d differs between identical seeded runs", i)
		}
	}
}

func TestRun_CountsDuplicates(t *testing.T) {
	t.Parallel()

	// Numbers only, one digit per run: a space of about 13k values.
	h, err := Start(context.Background(), Config{
		Workers: 2,
		Target:  500,
		Seed:    9,
		Limits:  grammar.Limits{MaxDepth: 1, MaxRepeat: 1},
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := h.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if p := h.Progress(); p.Duplicates == 0 {
		t.Errorf("expected duplicates from a small value space, got %+v", p)
	}
}

func TestStart_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"no workers", Config{Workers: 0, Target: 5}, ErrInvalidWorkers},
		{"negative workers", Config{Workers: -1, Target: 5}, ErrInvalidWorkers},
		{"no target", Config{Workers: 1, Target: 0}, ErrInvalidTarget},
		{"unknown grammar", Config{Workers: 1, Target: 5, Grammar: "xml"}, grammar.ErrUnknownGrammar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := Start(context.Background(), tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Start error = %v, want %v", err, tt.wantErr)
			}
			if h != nil {
				t.Error("Start should not return a handle on error")
			}
		})
	}
}

func TestRun_ContextTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	set, err := Run(ctx, Config{Workers: 4, Target: 1 << 40})
	if !errors.Is(err, ErrTargetNotReached) {
		t.Fatalf("expected ErrTargetNotReached, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error should carry the context cause, got %v", err)
	}
	if set == nil || set.Len() == 0 {
		t.Error("partial corpus should be returned")
	}
}

func TestRun_ContextAlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{Workers: 2, Target: 1 << 40})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHandle_Stop(t *testing.T) {
	t.Parallel()

	h, err := Start(context.Background(), Config{Workers: 3, Target: 1 << 40})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for h.Progress().Unique < 100 {
		select {
		case <-deadline:
			t.Fatal("no progress within 5s")
		case <-time.After(time.Millisecond):
		}
	}
	h.Stop()
	h.Stop() // idempotent

	set, err := h.Wait()
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if set.Len() < 100 {
		t.Errorf("stopped corpus has %d cases, want at least 100", set.Len())
	}

	// Counters freeze once the run ends.
	p1 := h.Progress()
	time.Sleep(10 * time.Millisecond)
	if p2 := h.Progress(); p1 != p2 {
		t.Errorf("progress changed after the run ended: %+v -> %+v", p1, p2)
	}
}

// panicGrammar fails its invariant after a number of good cases.
type panicGrammar struct {
	after int64
	calls atomic.Int64
	value any
}

func (p *panicGrammar) Generate(g *grammar.Generator, buf []byte) []byte {
	if p.calls.Add(1) > p.after {
		panic(p.value)
	}
	return g.Generate(buf)
}

func (p *panicGrammar) Name() string { return "panic" }

func (p *panicGrammar) Description() string { return "panics" }

func TestRun_InvariantViolationFailsRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		is    error
	}{
		{"error value", grammar.ErrImpossibleBucket, grammar.ErrImpossibleBucket},
		{"string value", "boom", ErrInvariantViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Config{Workers: 4, Target: 1 << 30, Seed: 5}.withDefaults()
			h := start(context.Background(), cfg, &panicGrammar{after: 20, value: tt.value})

			select {
			case <-h.Done():
			case <-time.After(5 * time.Second):
				t.Fatal("run did not end after an invariant violation")
			}

			_, err := h.Wait()
			if !errors.Is(err, ErrInvariantViolation) {
				t.Fatalf("expected ErrInvariantViolation, got %v", err)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("error %v should match %v", err, tt.is)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Workers: 3, Target: 1}.withDefaults()
	if cfg.Grammar != grammar.DefaultGrammar {
		t.Errorf("Grammar = %q, want %q", cfg.Grammar, grammar.DefaultGrammar)
	}
	if cfg.Limits != grammar.DefaultLimits {
		t.Errorf("Limits = %+v, want %+v", cfg.Limits, grammar.DefaultLimits)
	}
	if cfg.BufferSize != 6 {
		t.Errorf("BufferSize = %d, want 6", cfg.BufferSize)
	}
}
