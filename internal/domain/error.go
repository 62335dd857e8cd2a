package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError means the script collaborator returned output we could not
// use: malformed JSON or a required field missing. Resubmitting the same
// request would cost money with no guarantee of a better reply, so it is
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("script validation: field %q: %s", e.Field, e.Reason)
	}
	return "script validation: " + e.Reason
}

// RenderFailedError is raised when the render collaborator reports the job
// itself as failed. Fatal and immediate; carries the collaborator's error
// text.
type RenderFailedError struct {
	JobID  string
	Reason string
}

func (e *RenderFailedError) Error() string {
	return fmt.Sprintf("render job %s failed: %s", e.JobID, e.Reason)
}

// TimeoutError means the poll attempt budget ran out without observing a
// terminal state. The remote job may still be running; the caller decides
// whether to re-check later.
type TimeoutError struct {
	JobID    string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("render job %s: no terminal state after %d poll attempts", e.JobID, e.Attempts)
}

// IsFatal reports whether err must not be retried. Everything else
// (network errors, rate limits, 5xx replies) is treated as transient.
func IsFatal(err error) bool {
	var (
		ve *ValidationError
		rf *RenderFailedError
		te *TimeoutError
	)
	return errors.As(err, &ve) || errors.As(err, &rf) || errors.As(err, &te) ||
		errors.Is(err, ErrInvalidArgument)
}
