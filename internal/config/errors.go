package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Nikaya.Validate()
// and provide specific information about what is wrong.
//
// Design decision: package-level sentinel errors rather than new error
// instances created inside Validate(). This lets callers use errors.Is()
// for programmatic handling while still providing human-readable messages.
var (
	// ErrNoNikaya is returned when no Nikaya is selected and --all is not set.
	ErrNoNikaya = errors.New("no nikaya selected: name one or more nikayas or use --all")

	// ErrUnknownNikaya is returned when a selected Nikaya key is not in the
	// registry. Run "tipitakafetch nikayas" to see valid keys.
	ErrUnknownNikaya = errors.New("unknown nikaya: see 'tipitakafetch nikayas' for valid keys")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean batches never fill and never flush.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry count is negative.
	// Use 0 to disable retries.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingSummaryFormats is returned when both --json and
	// --markdown are specified. Only one summary format can be used.
	ErrConflictingSummaryFormats = errors.New("conflicting summary formats: --json and --markdown cannot be used together")

	// ErrInvalidNikayaRange is returned when a Nikaya range is malformed,
	// either from a bad override or a bad registry entry.
	ErrInvalidNikayaRange = errors.New("invalid nikaya range: start must be >= 1 and end >= start")
)
