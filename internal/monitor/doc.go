// Package monitor runs the per-tab check state machine.
//
// Each tab moves between unobserved, checking and resolved. A completed
// navigation to an http(s) URL starts a new check and supersedes any check
// still running for the same tab. Every check carries the navigation epoch
// it was started for; its result is written to the tab state store only if
// that epoch is still the tab's current one, so a slow answer for a page the
// user already left can never overwrite the answer for the page they are on.
//
// On a phishing verdict the monitor asks its Presenter to notify the user
// and to show the in-page banner. Presenter failures are logged and
// otherwise ignored.
package monitor
