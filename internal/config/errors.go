package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when the check command has no URL to assess.
	ErrNoTarget = errors.New("no target specified: provide a URL or use --batch")

	// ErrInvalidClassifierURL is returned when the classifier endpoint is
	// not an absolute http(s) URL.
	ErrInvalidClassifierURL = errors.New("invalid classifier url: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrEmptyListenAddress is returned when the daemon has nowhere to listen.
	ErrEmptyListenAddress = errors.New("invalid listen address: must not be empty")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
