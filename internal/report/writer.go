package report

import (
	"io"

	"github.com/nao1215/phishguard/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the assessments to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(assessments []*model.Assessment) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the assessments to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(assessments []*model.Assessment) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(assessments)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Summary counts assessments by outcome.
type Summary struct {
	Total       int `json:"total"`
	Phishing    int `json:"phishing"`
	Legitimate  int `json:"legitimate"`
	Errors      int `json:"errors"`
	Allowlisted int `json:"allowlisted"`
}

// Summarize counts the outcomes of assessments. Nil entries are skipped.
func Summarize(assessments []*model.Assessment) Summary {
	var s Summary
	for _, a := range assessments {
		if a == nil {
			continue
		}
		s.Total++
		switch a.Verdict {
		case model.VerdictPhishing:
			s.Phishing++
		case model.VerdictLegitimate:
			s.Legitimate++
		case model.VerdictError:
			s.Errors++
		default:
		}
		if a.Allowlisted {
			s.Allowlisted++
		}
	}
	return s
}

// verdictLabel is the display form of a verdict.
func verdictLabel(v model.Verdict) string {
	switch v {
	case model.VerdictPhishing:
		return "PHISHING"
	case model.VerdictLegitimate:
		return "legitimate"
	case model.VerdictError:
		return "could not determine"
	default:
		return "unknown"
	}
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
