package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/phishguard/internal/model"
)

// MarkdownWriter outputs assessments in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the assessments in Markdown format.
func (w *MarkdownWriter) Write(assessments []*model.Assessment) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(assessments)

	md.H1("phishguard Report")
	md.PlainText("")

	w.writeSummary(md, summary)
	w.writeResults(md, assessments)
	w.writeFeatures(md, assessments)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows: [][]string{
			{"🚨 Phishing", strconv.Itoa(s.Phishing)},
			{"✅ Legitimate", strconv.Itoa(s.Legitimate)},
			{"❓ Could not determine", strconv.Itoa(s.Errors)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Verdicts"),
			piechart.WithShowData(true),
		)
		if s.Phishing > 0 {
			chart.LabelAndIntValue("Phishing", uint64(s.Phishing))
		}
		if s.Legitimate > 0 {
			chart.LabelAndIntValue("Legitimate", uint64(s.Legitimate))
		}
		if s.Errors > 0 {
			chart.LabelAndIntValue("Unknown", uint64(s.Errors))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case s.Phishing > 0:
		md.Cautionf("%d URL(s) look like phishing.", s.Phishing)
	case s.Errors > 0:
		md.Warningf("%d URL(s) could not be classified.", s.Errors)
	default:
		md.Tip("No phishing URLs detected.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, assessments []*model.Assessment) {
	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, 0, len(assessments))
	for _, a := range assessments {
		if a == nil {
			continue
		}
		allowlisted := "-"
		if a.Allowlisted {
			allowlisted = "yes"
		}
		note := a.ErrorMessage
		if note == "" && a.Fallback {
			note = "unparsable URL"
		}
		if note == "" {
			note = "-"
		}
		rows = append(rows, []string{
			"`" + truncateString(a.URL, 60) + "`",
			verdictLabel(a.Verdict),
			allowlisted,
			truncateString(note, 50),
		})
	}

	if len(rows) == 0 {
		md.PlainText("No URLs assessed.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Verdict", "Allowlisted", "Note"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFeatures adds a collapsible feature table per classified URL.
func (w *MarkdownWriter) writeFeatures(md *markdown.Markdown, assessments []*model.Assessment) {
	for _, a := range assessments {
		if a == nil || len(a.Features) == 0 {
			continue
		}
		var sb strings.Builder
		for i, v := range a.Features {
			name := fmt.Sprintf("feature_%d", i)
			if i < len(a.FeatureNames) {
				name = a.FeatureNames[i]
			}
			fmt.Fprintf(&sb, "%s=%d ", name, v)
		}
		md.Details(truncateString(a.URL, 60), strings.TrimSpace(sb.String()))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [phishguard](https://github.com/nao1215/phishguard)*")
}
