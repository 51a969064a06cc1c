package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/phishguard/internal/allowlist"
	"github.com/nao1215/phishguard/internal/feature"
	"github.com/nao1215/phishguard/internal/model"
)

// ErrNoFeatures is recorded when ClassifyStep runs before ExtractStep.
var ErrNoFeatures = errors.New("no feature vector to classify")

// Classifier is the part of classifier.Client the pipeline needs.
type Classifier interface {
	Classify(ctx context.Context, v feature.Vector) (model.Verdict, error)
}

// AllowlistStep resolves trusted domains to legitimate without further work.
type AllowlistStep struct {
	allowlist *allowlist.Allowlist
}

// NewAllowlistStep creates an AllowlistStep. A nil allowlist matches nothing.
func NewAllowlistStep(al *allowlist.Allowlist) *AllowlistStep {
	return &AllowlistStep{allowlist: al}
}

// Name returns the step name.
func (s *AllowlistStep) Name() string {
	return "allowlist"
}

// Do marks a as allowlisted and legitimate when its host is trusted.
func (s *AllowlistStep) Do(_ context.Context, a *model.Assessment) error {
	if s.allowlist.ContainsURL(a.URL) {
		a.Allowlisted = true
		a.Verdict = model.VerdictLegitimate
	}
	return nil
}

// ExtractStep computes the feature vector.
type ExtractStep struct {
	extractor *feature.Extractor
}

// NewExtractStep creates an ExtractStep. A nil extractor selects the defaults.
func NewExtractStep(ex *feature.Extractor) *ExtractStep {
	if ex == nil {
		ex = feature.NewDefault()
	}
	return &ExtractStep{extractor: ex}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do fills in the features. A malformed URL yields the fallback vector,
// which is still classified.
func (s *ExtractStep) Do(_ context.Context, a *model.Assessment) error {
	res := s.extractor.Inspect(a.URL)
	a.Features = res.Vector
	a.FeatureNames = feature.Names[:]
	a.Host = res.Host
	a.Fallback = res.Fallback
	return nil
}

// ClassifyStep sends the features to the classifier.
type ClassifyStep struct {
	classifier Classifier
	logger     *slog.Logger
}

// ClassifyStepOption configures a ClassifyStep.
type ClassifyStepOption func(*ClassifyStep)

// WithClassifyLogger sets a custom logger for the classify step.
func WithClassifyLogger(logger *slog.Logger) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.logger = logger
	}
}

// NewClassifyStep creates a ClassifyStep.
func NewClassifyStep(c Classifier, opts ...ClassifyStepOption) *ClassifyStep {
	s := &ClassifyStep{
		classifier: c,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do resolves the verdict. Classifier failures become VerdictError and are
// not returned, so the assessment always ends in a displayable state.
func (s *ClassifyStep) Do(ctx context.Context, a *model.Assessment) error {
	if len(a.Features) == 0 {
		a.Fail(ErrNoFeatures)
		return nil
	}

	verdict, err := s.classifier.Classify(ctx, a.Features)
	if err != nil {
		s.logger.Warn("classification failed",
			"url", a.URL,
			"error", err,
		)
		a.Fail(err)
		return nil
	}

	a.Verdict = verdict
	return nil
}

// NewStandard builds the allowlist → extract → classify pipeline.
func NewStandard(al *allowlist.Allowlist, ex *feature.Extractor, c Classifier, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewAllowlistStep(al),
		NewExtractStep(ex),
		NewClassifyStep(c, WithClassifyLogger(p.logger)),
	)
	return p
}
