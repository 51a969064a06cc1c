package monitor

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/phishguard/internal/classifier"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/pipeline"
	"github.com/nao1215/phishguard/internal/presenter"
	"github.com/nao1215/phishguard/internal/tabstate"
)

// StatusComplete is the navigation status that triggers a check.
const StatusComplete = "complete"

// defaultPresentTimeout bounds each Presenter call.
const defaultPresentTimeout = 5 * time.Second

// tab is the monitor's bookkeeping for one browser tab.
type tab struct {
	epoch  uint64
	url    string
	state  model.TabState
	cancel context.CancelFunc
}

// Monitor reacts to tab events. It is safe for concurrent use.
type Monitor struct {
	mu    sync.Mutex
	tabs   map[int]*tab
	epoch  uint64
	closed bool

	store       *tabstate.Store
	newPipeline func() *pipeline.Pipeline
	presenter   Presenter
	logger      *slog.Logger

	checkTimeout   time.Duration
	presentTimeout time.Duration

	// base is the parent of every check context; stop cancels them all.
	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPresenter sets where phishing results are pushed.
func WithPresenter(p Presenter) Option {
	return func(m *Monitor) {
		if p != nil {
			m.presenter = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithCheckTimeout bounds a whole check. Non-positive values are ignored.
func WithCheckTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.checkTimeout = d
		}
	}
}

// New creates a Monitor that writes results to store. newPipeline is called
// once per check and must return a fresh pipeline.
func New(store *tabstate.Store, newPipeline func() *pipeline.Pipeline, opts ...Option) *Monitor {
	base, stop := context.WithCancel(context.Background())
	m := &Monitor{
		tabs:           make(map[int]*tab),
		store:          store,
		newPipeline:    newPipeline,
		presenter:      nopPresenter{},
		checkTimeout:   classifier.DefaultTimeout,
		presentTimeout: defaultPresentTimeout,
		base:           base,
		stop:           stop,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m
}

// HandleNavigation processes a tab update event. It returns true when a
// check was started. Events whose status is not "complete", URLs that are
// not http or https with a host, and events after Close are ignored. The
// tab's previous record is dropped when the new check starts.
func (m *Monitor) HandleNavigation(tabID int, rawURL, status string) bool {
	if status != StatusComplete || !checkable(rawURL) {
		m.logger.Debug("navigation ignored", "tab", tabID, "url", rawURL, "status", status)
		return false
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	t, ok := m.tabs[tabID]
	if !ok {
		t = &tab{}
		m.tabs[tabID] = t
	}
	if t.cancel != nil {
		t.cancel()
	}

	m.epoch++
	epoch := m.epoch
	ctx, cancel := context.WithTimeout(m.base, m.checkTimeout)
	t.epoch = epoch
	t.url = rawURL
	t.state = model.TabChecking
	t.cancel = cancel
	// The previous page's verdict must not be shown for the new one.
	m.store.Delete(tabID)
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Debug("check started", "tab", tabID, "epoch", epoch, "url", rawURL)

	go m.check(ctx, cancel, tabID, epoch, rawURL)
	return true
}

// HandleClosed forgets a tab: its running check is cancelled, its epoch is
// dropped so a late result is discarded, and its record is deleted.
func (m *Monitor) HandleClosed(tabID int) {
	m.mu.Lock()
	if t, ok := m.tabs[tabID]; ok {
		if t.cancel != nil {
			t.cancel()
		}
		delete(m.tabs, tabID)
	}
	m.store.Delete(tabID)
	m.mu.Unlock()

	if c, ok := m.presenter.(TabCloser); ok {
		c.TabClosed(tabID)
	}
	m.logger.Debug("tab closed", "tab", tabID)
}

// Status reports the state of a tab.
func (m *Monitor) Status(tabID int) model.TabState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tabs[tabID]; ok {
		return t.state
	}
	return model.TabUnobserved
}

// Epoch returns the tab's current navigation epoch, 0 if it has none.
func (m *Monitor) Epoch(tabID int) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tabs[tabID]; ok {
		return t.epoch
	}
	return 0
}

// Wait blocks until every running check has finished.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// Close cancels every running check and waits for them to return.
// Navigations reported after Close are ignored.
func (m *Monitor) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.stop()
	m.wg.Wait()
}

func (m *Monitor) check(ctx context.Context, cancel context.CancelFunc, tabID int, epoch uint64, rawURL string) {
	defer m.wg.Done()
	defer cancel()

	a := model.NewAssessment(rawURL)
	_ = m.newPipeline().Execute(ctx, a) //nolint:errcheck // Outcome is stored in the assessment

	rec := model.URLRecord{
		TabID:       tabID,
		URL:         rawURL,
		Verdict:     a.Verdict,
		Epoch:       epoch,
		Allowlisted: a.Allowlisted,
		CheckedAt:   time.Now(),
	}

	if !m.commit(rec) {
		m.logger.Debug("stale result discarded",
			"tab", tabID,
			"epoch", epoch,
			"verdict", a.Verdict,
		)
		return
	}

	m.logger.Info("tab checked",
		"tab", tabID,
		"url", rawURL,
		"verdict", a.Verdict,
		"allowlisted", a.Allowlisted,
		"elapsed", a.Duration,
	)
	if a.Verdict == model.VerdictError {
		m.logger.Warn("check failed", "tab", tabID, "url", rawURL, "error", a.ErrorMessage)
	}

	if a.Verdict == model.VerdictPhishing {
		m.present(tabID, epoch)
	}
}

// commit stores rec if its epoch is still current for the tab.
func (m *Monitor) commit(rec model.URLRecord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tabs[rec.TabID]
	if !ok || t.epoch != rec.Epoch {
		return false
	}
	t.state = model.TabResolved
	t.cancel = nil
	m.store.Set(rec)
	return true
}

func (m *Monitor) present(tabID int, epoch uint64) {
	ctx, cancel := context.WithTimeout(m.base, m.presentTimeout)
	defer cancel()

	n := Notification{
		TabID:   tabID,
		Title:   presenter.NotificationTitle,
		Message: presenter.NotificationMessage,
	}
	if err := m.presenter.Notify(ctx, n); err != nil {
		m.logger.Warn("notification not delivered", "tab", tabID, "error", err)
	}
	if err := m.presenter.ShowWarning(ctx, tabID, epoch); err != nil {
		m.logger.Warn("warning banner not delivered", "tab", tabID, "epoch", epoch, "error", err)
	}
}

// checkable reports whether rawURL is an http or https URL with a host.
func checkable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
