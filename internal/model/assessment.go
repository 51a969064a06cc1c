package model

import "time"

// Assessment accumulates the result of running one URL through the
// assessment pipeline. Steps fill it in order: allowlist, extraction,
// classification.
type Assessment struct {
	// URL is the raw address as reported by the browser.
	URL string `json:"url"`

	// Host is the normalized hostname, empty when the URL did not parse.
	Host string `json:"host,omitempty"`

	// Allowlisted is true when the allowlist short-circuited the check.
	Allowlisted bool `json:"allowlisted"`

	// Features is the extracted feature vector. It stays nil for
	// allowlisted URLs because extraction never runs for them.
	Features []int `json:"features,omitempty"`

	// FeatureNames mirrors Features with the canonical feature names.
	FeatureNames []string `json:"featureNames,omitempty"`

	// Fallback is true when the URL failed to parse and Features holds the
	// degenerate all-ones vector.
	Fallback bool `json:"fallback,omitempty"`

	// Verdict is the outcome. VerdictUnknown until a step resolves it.
	Verdict Verdict `json:"verdict"`

	// Err records why the verdict is VerdictError, if it is.
	Err error `json:"-"`

	// ErrorMessage is the string form of Err for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string `json:"performedSteps"`

	// StartedAt is when the assessment began.
	StartedAt time.Time `json:"startedAt"`

	// Duration is the total time spent in the pipeline.
	Duration time.Duration `json:"duration"`
}

// NewAssessment creates an empty assessment for rawURL.
func NewAssessment(rawURL string) *Assessment {
	return &Assessment{
		URL:            rawURL,
		Verdict:        VerdictUnknown,
		PerformedSteps: make([]string, 0, 3),
		StartedAt:      time.Now(),
	}
}

// Resolved reports whether a step has already produced a terminal verdict.
func (a *Assessment) Resolved() bool {
	return a.Verdict.Terminal()
}

// Fail resolves the assessment to VerdictError and records err.
func (a *Assessment) Fail(err error) {
	a.Verdict = VerdictError
	a.Err = err
	if err != nil {
		a.ErrorMessage = err.Error()
	}
}
