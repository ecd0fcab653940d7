package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors
var (
	// ErrStateNotFound is returned when no application_details.json
	// exists at the requested path. Callers treat it as "no prior state".
	ErrStateNotFound = errors.New("application state not found")

	ErrRunNotFound = errors.New("provisioning run not found")
)

// ConfigurationError signals a missing or invalid required input, e.g. an
// empty channel set or an absent permission-role ARN. Never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// MissingFieldError signals a record-shaped audience row that lacks one of
// the declared CSV fields.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("audience row is missing declared field %q", e.Field)
}

// PreconditionError signals an operation attempted before its dependency
// exists, e.g. deriving a dynamic segment with no base segment.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition not met: " + e.Reason
}

// ImportFailedError signals that the remote import job reported FAILED.
// The coordinator does not resubmit; that decision belongs to the caller.
type ImportFailedError struct {
	JobID  string
	Status JobStatus
}

func (e *ImportFailedError) Error() string {
	return fmt.Sprintf("import job %s failed with status %s", e.JobID, e.Status)
}

// ImportTimeoutError signals that the wall-clock ceiling was reached before
// the import job turned terminal.
type ImportTimeoutError struct {
	JobID   string
	Timeout time.Duration
}

func (e *ImportTimeoutError) Error() string {
	return fmt.Sprintf("import job %s did not complete within %s", e.JobID, e.Timeout)
}
