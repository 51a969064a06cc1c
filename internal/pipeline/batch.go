package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/phishguard/internal/model"
)

// defaultConcurrency is the number of assessments run at once by default.
const defaultConcurrency = 10

// BatchProcessor assesses multiple URLs concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a pipeline per URL so no state leaks between
	// assessments.
	pipelineFactory func() *Pipeline

	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent assessments.
// Non-positive values keep the default of 10.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     defaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch assesses every URL and returns the assessments in input
// order. Per-URL failures are recorded in the assessments; the returned
// error is only the context error when the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.Assessment, error) {
	bp.logger.Info("starting batch assessment",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.Assessment, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				a := model.NewAssessment(rawURL)
				a.Fail(ctx.Err())
				results[i] = a
				return ctx.Err()
			default:
			}

			a := model.NewAssessment(rawURL)
			_ = bp.pipelineFactory().Execute(ctx, a) //nolint:errcheck // Outcome is stored in the assessment
			results[i] = a

			bp.logger.Debug("assessment completed",
				"url", rawURL,
				"verdict", a.Verdict,
				"index", i+1,
				"total", len(urls),
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch assessment complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback assesses every URL and calls callback as each
// one finishes. The callback runs on the worker goroutine and must be safe
// for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(a *model.Assessment, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			a := model.NewAssessment(rawURL)
			_ = bp.pipelineFactory().Execute(ctx, a) //nolint:errcheck // Outcome is stored in the assessment
			callback(a, i)
			return nil
		})
	}

	return g.Wait()
}
