package model

import "time"

// URLRecord is the per-tab result the presenter reads.
// A record is only ever stored fully formed; a tab that is still being
// checked simply has no record (or keeps its previous one).
type URLRecord struct {
	// TabID is the browser's tab identifier.
	TabID int `json:"tabId"`

	// URL is the page address that was assessed.
	URL string `json:"url"`

	// Verdict is the terminal classification result.
	Verdict Verdict `json:"verdict"`

	// Epoch is the navigation epoch this record belongs to.
	// Successive page loads in the same tab have strictly increasing epochs.
	Epoch uint64 `json:"epoch"`

	// Allowlisted is true when the verdict came from the static allowlist
	// and the classifier was never consulted.
	Allowlisted bool `json:"allowlisted"`

	// CheckedAt is when the verdict was committed.
	CheckedAt time.Time `json:"checkedAt"`
}
