package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/phishguard/internal/feature"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/monitor"
	"github.com/nao1215/phishguard/internal/pipeline"
	"github.com/nao1215/phishguard/internal/presenter"
	"github.com/nao1215/phishguard/internal/tabstate"
)

// defaultMaxBodyBytes caps request bodies.
const defaultMaxBodyBytes = 64 * 1024

// Server serves the extension API.
type Server struct {
	monitor     *monitor.Monitor
	store       *tabstate.Store
	hub         *Hub
	newPipeline func() *pipeline.Pipeline
	extractor   *feature.Extractor

	maxBodyBytes int64
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithExtractor sets the extractor used by the features endpoint.
func WithExtractor(ex *feature.Extractor) Option {
	return func(s *Server) {
		s.extractor = ex
	}
}

// WithMaxBodyBytes caps request bodies. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer wires the API to a monitor, its store and the push hub.
// newPipeline builds the pipeline for synchronous checks.
func NewServer(mon *monitor.Monitor, store *tabstate.Store, hub *Hub, newPipeline func() *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		monitor:      mon,
		store:        store,
		hub:          hub,
		newPipeline:  newPipeline,
		maxBodyBytes: defaultMaxBodyBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.extractor == nil {
		s.extractor = feature.NewDefault()
	}

	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeText(w, http.StatusOK, "ok\n") })

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tabs/{id}/navigated", s.tabNavigated)
		r.Get("/tabs/{id}", s.getTab)
		r.Delete("/tabs/{id}", s.closeTab)

		r.Post("/check", s.check)
		r.Get("/features", s.features)

		r.Handle("/events", s.hub)
	})

	return r
}

type navigatedRequest struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

type navigatedResponse struct {
	TabID   int    `json:"tabId"`
	Started bool   `json:"started"`
	Epoch   uint64 `json:"epoch,omitempty"`
}

type tabResponse struct {
	TabID      int                 `json:"tabId"`
	State      model.TabState      `json:"state"`
	Record     *model.URLRecord    `json:"record,omitempty"`
	Assessment *model.Assessment   `json:"assessment,omitempty"`
	Popup      presenter.PopupView `json:"popup"`
}

type checkRequest struct {
	URL string `json:"url"`
}

type checkResponse struct {
	Assessment *model.Assessment   `json:"assessment"`
	Popup      presenter.PopupView `json:"popup"`
}

type featuresResponse struct {
	URL      string          `json:"url"`
	Schema   string          `json:"schema"`
	Host     string          `json:"host,omitempty"`
	Fallback bool            `json:"fallback"`
	Features []feature.Named `json:"features"`
}

func (s *Server) tabNavigated(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabIDParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	var req navigatedRequest
	if !decodeJSON(w, r, &req, "") {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "url is required"})
		return
	}

	resp := navigatedResponse{TabID: tabID}
	if s.monitor.HandleNavigation(tabID, req.URL, req.Status) {
		resp.Started = true
		resp.Epoch = s.monitor.Epoch(tabID)
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) closeTab(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabIDParam(w, r)
	if !ok {
		return
	}
	s.monitor.HandleClosed(tabID)
	w.WriteHeader(http.StatusNoContent)
}

// getTab returns the stored record and its popup view. With fresh=1 and a
// url parameter, a tab without a record is assessed on the spot.
func (s *Server) getTab(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabIDParam(w, r)
	if !ok {
		return
	}

	resp := tabResponse{
		TabID: tabID,
		State: s.monitor.Status(tabID),
	}

	rec, found := s.store.Get(tabID)
	if found {
		resp.Record = &rec
		resp.Popup = presenter.PopupFor(rec, true)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	q := r.URL.Query()
	if rawURL := q.Get("url"); q.Get("fresh") == "1" && rawURL != "" {
		a := s.assess(r, rawURL)
		resp.Assessment = a
		resp.Popup = presenter.PopupForAssessment(a)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Popup = presenter.PopupFor(model.URLRecord{}, false)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	var req checkRequest
	if !decodeJSON(w, r, &req, "") {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "url is required"})
		return
	}

	a := s.assess(r, req.URL)
	writeJSON(w, http.StatusOK, checkResponse{
		Assessment: a,
		Popup:      presenter.PopupForAssessment(a),
	})
}

func (s *Server) features(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "url is required"})
		return
	}

	res := s.extractor.Inspect(rawURL)
	writeJSON(w, http.StatusOK, featuresResponse{
		URL:      rawURL,
		Schema:   feature.SchemaVersion,
		Host:     res.Host,
		Fallback: res.Fallback,
		Features: res.Vector.Named(),
	})
}

func (s *Server) assess(r *http.Request, rawURL string) *model.Assessment {
	a := model.NewAssessment(rawURL)
	if err := s.newPipeline().Execute(r.Context(), a); err != nil {
		s.logger.Debug("synchronous check aborted", "url", rawURL, "error", err)
	}
	return a
}

func tabIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid tab id"})
		return 0, false
	}
	return id, true
}
