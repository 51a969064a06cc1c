package feature

import "errors"

var (
	// ErrLength is returned by Validate when a vector has the wrong size.
	ErrLength = errors.New("feature vector has wrong length")

	// ErrOutOfDomain is returned by Validate when a value is outside the
	// documented domain of its feature.
	ErrOutOfDomain = errors.New("feature value out of domain")
)
