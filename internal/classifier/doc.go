// Package classifier talks to the external phishing prediction service.
//
// The wire contract is:
//
//	POST <endpoint>
//	{"features": [ ...30 integers in feature.Names order... ]}
//
//	200 OK
//	{"prediction": 0}   // legitimate
//	{"prediction": 1}   // phishing
//
// Every failure (transport error, timeout, non-2xx status, unreadable body,
// missing or unexpected prediction) resolves to model.VerdictError, so callers
// always receive a terminal verdict. The error returned alongside it wraps one
// of ErrNetwork, ErrTimeout or ErrProtocol and is meant for logging.
//
// The service also exposes GET /model_info, which reports how many features
// the loaded model expects. CheckCompatibility uses it to catch a feature
// order/length drift before any page is classified.
package classifier
