package model

import (
	"fmt"
	"strings"
)

// Verdict is the classification outcome for a URL.
type Verdict int

const (
	// VerdictUnknown means no classification has been attempted.
	// It is the zero value so an unset verdict is never mistaken for a result.
	VerdictUnknown Verdict = iota

	// VerdictLegitimate means the URL was judged safe, either by the
	// allowlist or by the classifier.
	VerdictLegitimate

	// VerdictPhishing means the classifier flagged the URL.
	VerdictPhishing

	// VerdictError means the classifier could not be reached or answered
	// with something unusable. The user sees a neutral state.
	VerdictError
)

// String returns the lowercase label used on the wire and in storage.
func (v Verdict) String() string {
	switch v {
	case VerdictLegitimate:
		return "legitimate"
	case VerdictPhishing:
		return "phishing"
	case VerdictError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether v is one of the values the classifier client may
// resolve to. VerdictUnknown is the only non-terminal value.
func (v Verdict) Terminal() bool {
	return v == VerdictLegitimate || v == VerdictPhishing || v == VerdictError
}

// ParseVerdict converts a label back into a Verdict.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legitimate":
		return VerdictLegitimate, nil
	case "phishing":
		return VerdictPhishing, nil
	case "error":
		return VerdictError, nil
	case "unknown", "":
		return VerdictUnknown, nil
	default:
		return VerdictUnknown, fmt.Errorf("unknown verdict %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so verdicts serialize as labels.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(text []byte) error {
	parsed, err := ParseVerdict(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
