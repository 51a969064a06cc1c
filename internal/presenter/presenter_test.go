package presenter

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nao1215/phishguard/internal/model"
)

func TestPopupFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rec     model.URLRecord
		ok      bool
		kind    ViewKind
		icon    string
		message string
		class   string
	}{
		{
			name:    "phishing",
			rec:     model.URLRecord{URL: "http://evil.xyz", Verdict: model.VerdictPhishing},
			ok:      true,
			kind:    ViewWarning,
			icon:    "⚠️",
			message: "Warning: Phishing Site!",
			class:   "warning",
		},
		{
			name:    "legitimate",
			rec:     model.URLRecord{URL: "https://example.com", Verdict: model.VerdictLegitimate},
			ok:      true,
			kind:    ViewSafe,
			icon:    "✅",
			message: "This site looks safe.",
			class:   "safe",
		},
		{
			name:    "error",
			rec:     model.URLRecord{URL: "https://example.com", Verdict: model.VerdictError},
			ok:      true,
			kind:    ViewError,
			icon:    "❓",
			message: "Could not get a prediction.",
			class:   "neutral",
		},
		{
			name:    "no record",
			ok:      false,
			kind:    ViewNoData,
			icon:    "🤔",
			message: "No analysis data for this page.",
			class:   "neutral",
		},
		{
			name:    "unknown verdict",
			rec:     model.URLRecord{URL: "https://example.com", Verdict: model.VerdictUnknown},
			ok:      true,
			kind:    ViewNoData,
			icon:    "🤔",
			message: "No analysis data for this page.",
			class:   "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := PopupFor(tt.rec, tt.ok)
			if v.Kind != tt.kind || v.Icon != tt.icon || v.Message != tt.message || v.Class != tt.class {
				t.Errorf("PopupFor() = %+v", v)
			}
		})
	}
}

func TestPopupForCarriesURL(t *testing.T) {
	t.Parallel()

	v := PopupFor(model.URLRecord{URL: "http://evil.xyz", Verdict: model.VerdictPhishing}, true)
	if v.URL != "http://evil.xyz" {
		t.Errorf("URL = %q", v.URL)
	}
	if views[ViewWarning].URL != "" {
		t.Error("shared view table must not be modified")
	}
}

func TestPopupForAssessment(t *testing.T) {
	t.Parallel()

	if got := PopupForAssessment(nil).Kind; got != ViewNoData {
		t.Errorf("nil assessment: %v", got)
	}

	a := model.NewAssessment("https://example.com")
	a.Verdict = model.VerdictLegitimate
	if got := PopupForAssessment(a).Kind; got != ViewSafe {
		t.Errorf("legitimate assessment: %v", got)
	}
}

func TestBannerTracker(t *testing.T) {
	t.Parallel()

	t.Run("presents once per epoch", func(t *testing.T) {
		t.Parallel()

		b := NewBannerTracker()
		if !b.EnsurePresented(1, 1) {
			t.Fatal("first request should present")
		}
		if b.EnsurePresented(1, 1) {
			t.Error("second request for the same epoch should not present")
		}
		if b.EnsurePresented(1, 0) {
			t.Error("older epoch should not present")
		}
		if !b.EnsurePresented(1, 2) {
			t.Error("new epoch should present")
		}
		if !b.EnsurePresented(2, 1) {
			t.Error("other tab should present")
		}
	})

	t.Run("revoke allows a retry", func(t *testing.T) {
		t.Parallel()

		b := NewBannerTracker()
		b.EnsurePresented(4, 2)
		b.Revoke(4, 1)
		if b.EnsurePresented(4, 2) {
			t.Error("revoking another epoch must keep the mark")
		}
		b.Revoke(4, 2)
		if !b.EnsurePresented(4, 2) {
			t.Error("revoked epoch should present again")
		}
	})

	t.Run("clear forgets the tab", func(t *testing.T) {
		t.Parallel()

		var b BannerTracker
		b.EnsurePresented(7, 3)
		b.Clear(7)
		if b.Len() != 0 {
			t.Errorf("Len() = %d, want 0", b.Len())
		}
		if !b.EnsurePresented(7, 3) {
			t.Error("cleared tab should present again")
		}
	})

	t.Run("concurrent requests present exactly once", func(t *testing.T) {
		t.Parallel()

		b := NewBannerTracker()
		var presented atomic.Int32
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if b.EnsurePresented(9, 4) {
					presented.Add(1)
				}
			}()
		}
		wg.Wait()
		if presented.Load() != 1 {
			t.Errorf("presented %d times, want 1", presented.Load())
		}
	})
}
