// Package pipeline runs a URL through the assessment steps in order:
// allowlist check, feature extraction, classification.
//
// Each step receives the shared *model.Assessment and may resolve its
// verdict. The pipeline stops as soon as a verdict is terminal, which is how
// an allowlisted URL skips extraction and never reaches the classifier.
//
// BatchProcessor assesses many URLs concurrently with errgroup, bounded by a
// configurable concurrency limit.
package pipeline
