package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/phishguard/internal/feature"
	"github.com/nao1215/phishguard/internal/model"
)

// createTestAssessments returns one assessment of every outcome.
func createTestAssessments() []*model.Assessment {
	phishing := model.NewAssessment("http://192.168.1.1/login")
	phishing.Host = "192.168.1.1"
	phishing.Features = feature.NewDefault().Extract(phishing.URL)
	phishing.FeatureNames = feature.Names[:]
	phishing.Verdict = model.VerdictPhishing
	phishing.PerformedSteps = []string{"allowlist", "extract", "classify"}
	phishing.Duration = 12 * time.Millisecond

	allowlisted := model.NewAssessment("https://www.google.com/search?q=x")
	allowlisted.Allowlisted = true
	allowlisted.Verdict = model.VerdictLegitimate
	allowlisted.PerformedSteps = []string{"allowlist"}

	failed := model.NewAssessment("http://evil.xyz/secure-verify")
	failed.Features = feature.NewDefault().Extract(failed.URL)
	failed.FeatureNames = feature.Names[:]
	failed.Fail(errors.New("classifier timeout"))

	return []*model.Assessment{phishing, allowlisted, failed}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(append(createTestAssessments(), nil))
	want := Summary{Total: 3, Phishing: 1, Legitimate: 1, Errors: 1, Allowlisted: 1}
	if s != want {
		t.Errorf("Summarize() = %+v, want %+v", s, want)
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header, results and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAssessments()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"PHISHGUARD REPORT",
			"[!] http://192.168.1.1/login",
			"[+] https://www.google.com/search?q=x",
			"[?] http://evil.xyz/secure-verify",
			"Allowlisted: yes",
			"classifier timeout",
			"TOTAL:       3 URLs",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "having_IP_Address") {
			t.Error("features should only be shown in verbose mode")
		}
	})

	t.Run("verbose mode lists features", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestAssessments()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "having_IP_Address") {
			t.Error("expected feature names in verbose output")
		}
		if !strings.Contains(output, "allowlist -> extract -> classify") {
			t.Error("expected performed steps in verbose output")
		}
	})

	t.Run("fallback is noted", func(t *testing.T) {
		t.Parallel()

		a := model.NewAssessment("not a url")
		a.Fallback = true
		a.Verdict = model.VerdictPhishing

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write([]*model.Assessment{a}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "fallback features") {
			t.Errorf("expected fallback note:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a valid envelope", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("v1.2.3"))
		if _, err := w.Write(createTestAssessments()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Version     string    `json:"version"`
			Schema      string    `json:"schema"`
			Summary     Summary   `json:"summary"`
			Assessments []struct {
				URL      string `json:"url"`
				Verdict  string `json:"verdict"`
				Error    string `json:"error"`
				Features []int  `json:"features"`
			} `json:"assessments"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if got.Version != "v1.2.3" || got.Schema != feature.SchemaVersion {
			t.Errorf("version %q schema %q", got.Version, got.Schema)
		}
		if got.Summary.Total != 3 || len(got.Assessments) != 3 {
			t.Fatalf("summary %+v, %d assessments", got.Summary, len(got.Assessments))
		}
		if got.Assessments[0].Verdict != "phishing" || len(got.Assessments[0].Features) != feature.Count {
			t.Errorf("first assessment = %+v", got.Assessments[0])
		}
		if got.Assessments[2].Error != "classifier timeout" {
			t.Errorf("error message = %q", got.Assessments[2].Error)
		}
	})

	t.Run("compact output is a single line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAssessments()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact JSON followed by one newline")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestAssessments()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"schema\"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("nil input writes an empty list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"assessments":[]`) {
			t.Errorf("got %s", buf.String())
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestAssessments())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestAssessments()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# phishguard Report",
			"## Summary",
			"## Results",
			"http://192.168.1.1/login",
			"PHISHING",
			"mermaid",
			"[!CAUTION]",
			"<details>",
			"having_IP_Address=1",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no phishing gives a tip", func(t *testing.T) {
		t.Parallel()

		a := model.NewAssessment("https://github.com/nao1215")
		a.Allowlisted = true
		a.Verdict = model.VerdictLegitimate

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write([]*model.Assessment{a}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Error("expected TIP alert when nothing is phishing")
		}
	})

	t.Run("errors give a warning", func(t *testing.T) {
		t.Parallel()

		a := model.NewAssessment("https://shop.example")
		a.Fail(errors.New("connection refused"))

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write([]*model.Assessment{a}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Error("expected WARNING alert for unclassified URLs")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No URLs assessed.") {
			t.Error("expected empty notice")
		}
	})
}

// TestTruncateString tests the truncateString helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
