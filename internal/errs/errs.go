// Package errs holds the typed failures of the estimation pipeline. Every
// caller-visible failure surfaces through one of these so the handler can map
// them to a human-readable 400 response.
package errs

import "fmt"

// ValidationError the request itself is unusable: missing mode or an
// undecodable body
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ResolutionError free text could not be resolved to a carrier code or
// address; never retried at this level
type ResolutionError struct {
	Query string
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve location %q: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("could not resolve location %q", e.Query)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ExternalServiceError non-success status from the emissions service; the
// raw body is kept verbatim for diagnostics
type ExternalServiceError struct {
	Status int
	Body   string
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("emissions service returned status %d: %s", e.Status, e.Body)
}

// PersistenceError the calculation row could not be written; fatal to the
// request because the persisted row decides which calculation is primary
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not persist calculation: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
