package repositories

import "errors"

// Sentinel errors surfaced by the repositories. Handlers map these to
// HTTP codes with errors.Is so storage-engine detail never leaks out.
var (
	// ErrOrderNotFound is returned when no order exists for the given id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrRequestNotFound is returned when a targeted return-request
	// update affects zero rows.
	ErrRequestNotFound = errors.New("return request not found")

	// ErrOrderNotCancellable is returned when a cancellation targets an
	// order already in a terminal state.
	ErrOrderNotCancellable = errors.New("order cannot be cancelled")
)
