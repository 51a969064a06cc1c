package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/phishguard/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the feature vector and pipeline steps of each URL.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the assessments in human-readable format.
func (w *SimpleWriter) Write(assessments []*model.Assessment) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb)
	for _, a := range assessments {
		if a == nil {
			continue
		}
		w.writeAssessment(&sb, a)
	}
	w.writeSummary(&sb, Summarize(assessments))

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PHISHGUARD REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeAssessment(sb *strings.Builder, a *model.Assessment) {
	marker := "[ ]"
	switch a.Verdict {
	case model.VerdictPhishing:
		marker = "[!]"
	case model.VerdictLegitimate:
		marker = "[+]"
	case model.VerdictError:
		marker = "[?]"
	default:
	}

	fmt.Fprintf(sb, "%s %s\n", marker, a.URL)
	fmt.Fprintf(sb, "    Verdict:     %s\n", verdictLabel(a.Verdict))
	if a.Allowlisted {
		sb.WriteString("    Allowlisted: yes\n")
	}
	if a.ErrorMessage != "" {
		fmt.Fprintf(sb, "    Error:       %s\n", a.ErrorMessage)
	}
	if a.Fallback {
		sb.WriteString("    Note:        URL could not be parsed, fallback features used\n")
	}

	if w.verbose {
		if a.Host != "" {
			fmt.Fprintf(sb, "    Host:        %s\n", a.Host)
		}
		fmt.Fprintf(sb, "    Steps:       %s\n", strings.Join(a.PerformedSteps, " -> "))
		fmt.Fprintf(sb, "    Duration:    %s\n", a.Duration)
		for i, v := range a.Features {
			name := fmt.Sprintf("feature_%d", i)
			if i < len(a.FeatureNames) {
				name = a.FeatureNames[i]
			}
			fmt.Fprintf(sb, "      %-28s %2d\n", name, v)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, s Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  PHISHING:    %d\n", s.Phishing)
	fmt.Fprintf(sb, "  LEGITIMATE:  %d (%d allowlisted)\n", s.Legitimate, s.Allowlisted)
	fmt.Fprintf(sb, "  UNKNOWN:     %d\n", s.Errors)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:       %d URLs\n", s.Total)
	sb.WriteString("\n")
}
