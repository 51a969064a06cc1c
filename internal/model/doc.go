// Package model defines the data structures shared by the assessment
// pipeline, the tab monitor and the presenters.
//
// This package contains the following main types:
//   - Verdict: The classification outcome of a URL
//   - Assessment: One URL's trip through the pipeline
//   - URLRecord: The committed per-tab result
//   - TabState: The monitor's view of a tab
//
// The models serialize to JSON for the local API and CLI reports.
package model
