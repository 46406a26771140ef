package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Outbound clients and stores
// return these (optionally wrapped) so callers can branch on the condition
// without string matching.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	// ErrUnavailable marks a transient upstream failure, such as a
	// rate-limited or erroring extraction API. Callers treat it as
	// retryable rather than a hard error.
	ErrUnavailable = errors.New("unavailable")
)
