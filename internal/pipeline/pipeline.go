package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/phishguard/internal/model"
)

// Step is one stage of an assessment.
type Step interface {
	// Do executes the step. Failures that have a displayable outcome
	// (for example an unreachable classifier) are recorded in the
	// assessment and Do returns nil. A non-nil error aborts the pipeline.
	Do(ctx context.Context, a *model.Assessment) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in sequence.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline with no steps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0, 3),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps until one resolves the verdict or all have run.
//
// On cancellation the assessment is resolved to VerdictError and the
// context error is returned. If a step returns an error the assessment is
// resolved to VerdictError and that error is returned. In every other case
// the caller gets nil and reads the outcome from a.
func (p *Pipeline) Execute(ctx context.Context, a *model.Assessment) error {
	defer func() {
		a.Duration = time.Since(a.StartedAt)
	}()

	for _, step := range p.steps {
		if a.Resolved() {
			break
		}

		select {
		case <-ctx.Done():
			p.logger.Debug("assessment cancelled",
				"step", step.Name(),
				"url", a.URL,
				"reason", ctx.Err(),
			)
			a.Fail(ctx.Err())
			return ctx.Err()
		default:
		}

		if err := step.Do(ctx, a); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", a.URL,
				"error", err,
			)
			a.PerformedSteps = append(a.PerformedSteps, step.Name())
			a.Fail(err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"url", a.URL,
			"verdict", a.Verdict,
		)
		a.PerformedSteps = append(a.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
