// Package errs defines the structured error kinds surfaced by the domain
// services. Handlers inspect these with errors.As to pick an HTTP status;
// everything else propagates as an opaque internal error.
package errs

import "fmt"

// ValidationError indicates malformed caller input. The caller can recover
// by correcting the request; it is never retried automatically.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError indicates a referenced entity does not exist. Entity is a
// human-readable noun ("menu item", "order", "account") and ID the missing
// identifier, so callers can render a precise message.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// AuthorizationError indicates the caller's role or ownership does not
// permit the operation.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	if e.Reason == "" {
		return "operation not permitted"
	}
	return e.Reason
}

// ConflictError indicates an illegal state transition, or a concurrent write
// that invalidated the caller's view of the order. Current always reflects
// the persisted status at the time of the failure, so the caller can re-fetch
// and decide instead of blindly retrying.
type ConflictError struct {
	Current   string
	Requested string
}

func (e *ConflictError) Error() string {
	if e.Requested == "cancelled" {
		return fmt.Sprintf("cannot cancel an order with status '%s'", e.Current)
	}
	return fmt.Sprintf("cannot move an order with status '%s' to '%s'", e.Current, e.Requested)
}
