package classifier

import "errors"

var (
	// ErrNetwork is returned when the classifier could not be reached.
	ErrNetwork = errors.New("classifier unreachable")

	// ErrTimeout is returned when the classifier did not answer in time.
	ErrTimeout = errors.New("classifier timed out")

	// ErrProtocol is returned when the classifier answered with something
	// that is not a usable prediction.
	ErrProtocol = errors.New("classifier returned an invalid response")

	// ErrInvalidVector is returned when the caller passes a vector of the
	// wrong length. The request is never sent.
	ErrInvalidVector = errors.New("feature vector has wrong length")

	// ErrInvalidEndpoint is returned by New for an endpoint that is not an
	// absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid classifier endpoint: expected http(s) URL")

	// ErrModelUnavailable is returned by CheckCompatibility when the service
	// reports that no model is loaded.
	ErrModelUnavailable = errors.New("classifier has no model loaded")

	// ErrFeatureMismatch is returned by CheckCompatibility when the model
	// expects a different number of features than the extractor produces.
	ErrFeatureMismatch = errors.New("classifier expects a different feature count")
)
