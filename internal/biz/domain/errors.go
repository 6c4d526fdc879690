package domain

import (
	"errors"
	"fmt"
)

// ErrMacroNotPreviewed is returned when commit is attempted without a successful preview
var ErrMacroNotPreviewed = errors.New("macro has not been previewed")

// ValidationError is a malformed, missing or empty tool argument
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransportError is a network, auth or HTTP failure reported by the ticketing adapter
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed: HTTP %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, msg)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that the requested id does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// AttachmentFetchError is a failure isolated to one attachment
type AttachmentFetchError struct {
	AttachmentID int64
	Err          error
}

func (e *AttachmentFetchError) Error() string {
	return fmt.Sprintf("failed to fetch attachment %d: %v", e.AttachmentID, e.Err)
}

func (e *AttachmentFetchError) Unwrap() error {
	return e.Err
}

// MacroPhase names a step of the macro application protocol
type MacroPhase string

const (
	MacroPhasePreview MacroPhase = "preview"
	MacroPhaseCommit  MacroPhase = "commit"
)

// MacroPhaseError tells which phase of a macro application failed
type MacroPhaseError struct {
	Phase    MacroPhase
	TicketID int64
	MacroID  int64
	Err      error
}

func (e *MacroPhaseError) Error() string {
	return fmt.Sprintf("macro %d on ticket %d failed in %s phase: %v", e.MacroID, e.TicketID, e.Phase, e.Err)
}

func (e *MacroPhaseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is, or wraps, a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ErrAttachmentTooLarge is returned when a download exceeds the configured size cap
var ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")

// ErrAttachmentNotImage is returned when an attachment listed as an image downloads as something else
var ErrAttachmentNotImage = errors.New("attachment is not an image")
