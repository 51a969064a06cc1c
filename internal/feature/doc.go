// Package feature maps a URL string to the fixed-order numeric feature vector
// consumed by the external phishing classifier.
//
// The vector follows the 30-column layout of the UCI phishing-websites
// dataset the classifier was trained on. Every indicator is in {-1, 0, 1}
// where -1 leans legitimate and 1 leans phishing. Features that would
// require the page content (favicon, anchors, forms, iframes, page rank and
// so on) are fixed at -1: extraction looks only at the URL string and never
// performs I/O.
//
// The order of Names is the package's exported contract. It is versioned by
// SchemaVersion and must change together with the classifier it feeds.
package feature
