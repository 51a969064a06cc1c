package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/phishguard/internal/feature"
	"github.com/nao1215/phishguard/internal/model"
)

// JSONWriter outputs assessments in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// version is written into the envelope.
	version string

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the phishguard version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the envelope written by JSONWriter.
type JSONReport struct {
	// Version is the phishguard version that generated this report.
	Version string `json:"version,omitempty"`

	// Schema identifies the feature order of every Features slice.
	Schema string `json:"schema"`

	Summary     Summary             `json:"summary"`
	Assessments []*model.Assessment `json:"assessments"`
}

// Write outputs the assessments wrapped in a JSONReport.
func (w *JSONWriter) Write(assessments []*model.Assessment) (int, error) {
	if assessments == nil {
		assessments = []*model.Assessment{}
	}
	return w.writeJSON(JSONReport{
		Version:     w.version,
		Schema:      feature.SchemaVersion,
		Summary:     Summarize(assessments),
		Assessments: assessments,
	})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
