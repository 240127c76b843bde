// Package clients provides HTTP client adapters for downstream services.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// The ACL adapters translate them to domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the
	// request was not sent.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed wraps transport errors: DNS, connect, TLS, timeout.
	ErrRequestFailed = errors.New("request failed")
)
