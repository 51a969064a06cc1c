package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/phishguard/internal/allowlist"
	"github.com/nao1215/phishguard/internal/feature"
	"github.com/nao1215/phishguard/internal/model"
)

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != 10 {
			t.Errorf("expected default concurrency 10, got %d", bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(5))
		if bp.concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != 10 {
			t.Errorf("expected concurrency 10, got %d", bp.concurrency)
		}
	})
}

// TestBatchProcessorProcessBatch tests batch assessment.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order", func(t *testing.T) {
		t.Parallel()

		fc := &fakeClassifier{verdict: model.VerdictPhishing}
		factory := func() *Pipeline {
			return NewStandard(allowlist.Default(), feature.NewDefault(), fc)
		}

		urls := []string{
			"https://github.com/nao1215",
			"http://evil.xyz/secure-verify",
			"https://www.wikipedia.org/",
		}
		results, err := NewBatchProcessor(factory, WithConcurrency(2)).ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(urls) {
			t.Fatalf("expected %d results, got %d", len(urls), len(results))
		}
		for i, a := range results {
			if a.URL != urls[i] {
				t.Errorf("results[%d].URL = %q, want %q", i, a.URL, urls[i])
			}
		}
		if results[1].Verdict != model.VerdictPhishing {
			t.Errorf("results[1].Verdict = %v, want phishing", results[1].Verdict)
		}
		if results[0].Verdict != model.VerdictLegitimate || results[2].Verdict != model.VerdictLegitimate {
			t.Error("allowlisted URLs should be legitimate")
		}
		if fc.calls.Load() != 1 {
			t.Errorf("classifier called %d times, want 1", fc.calls.Load())
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "slow",
				doFunc: func(_ context.Context, a *model.Assessment) error {
					n := current.Add(1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					time.Sleep(20 * time.Millisecond)
					current.Add(-1)
					a.Verdict = model.VerdictLegitimate
					return nil
				},
			})
			return p
		}

		urls := make([]string, 8)
		for i := range urls {
			urls[i] = "https://example.com/"
		}
		if _, err := NewBatchProcessor(factory, WithConcurrency(2)).ProcessBatch(context.Background(), urls); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("peak concurrency %d exceeds limit 2", peak.Load())
		}
	})
}

// TestBatchProcessorCallback tests the streaming variant.
func TestBatchProcessorCallback(t *testing.T) {
	t.Parallel()

	fc := &fakeClassifier{verdict: model.VerdictLegitimate}
	factory := func() *Pipeline {
		return NewStandard(nil, feature.NewDefault(), fc)
	}

	var mu sync.Mutex
	seen := make(map[int]model.Verdict)
	err := NewBatchProcessor(factory).ProcessBatchWithCallback(context.Background(),
		[]string{"https://a.example", "https://b.example"},
		func(a *model.Assessment, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = a.Verdict
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != model.VerdictLegitimate || seen[1] != model.VerdictLegitimate {
		t.Errorf("unexpected callbacks: %v", seen)
	}
}
