package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNotTerminal is returned when submit is called away from the complete
	// step. It signals a caller bug rather than a user mistake.
	ErrNotTerminal = errors.New("submit is only valid from the complete step")
	ErrSubmitting  = errors.New("submission in progress")
	ErrClosed      = errors.New("wizard closed")
	ErrInvalidStep = errors.New("invalid step")
	ErrNotFound    = errors.New("wizard not found")
)

// Failures a Sink reports. Implementations wrap these so the wizard and its
// callers can tell them apart with errors.Is.
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrRejected       = errors.New("registration rejected")
	ErrUnavailable    = errors.New("registration service unavailable")
)

// CodeDuplicateEmail is the error code a registration endpoint answers a
// taken email with. Other 409 bodies do not carry it.
const CodeDuplicateEmail = "duplicate_email"

// ValidationError carries the per-field messages of a failed step gate.
type ValidationError struct {
	Step   Step
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	slices.Sort(keys)
	return fmt.Sprintf("%s step invalid: %s", e.Step, strings.Join(keys, ", "))
}

// SubmitError wraps a failed sink call. The draft is kept so the user can retry.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return "submit registration: " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Outcome classifies a submission result for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrClosed):
		return "abandoned"
	default:
		return "error"
	}
}
