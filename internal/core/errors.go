package core

import (
	"errors"
	"fmt"

	dErrors "eventreg/pkg/domain-errors"
)

// ErrorCategory normalizes the ways a call to the core service can fail.
type ErrorCategory string

const (
	// ErrorTimeout indicates the core did not answer before the deadline.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates a response that could not be decoded.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorOutage indicates a transport failure or a 5xx answer.
	ErrorOutage ErrorCategory = "provider_outage"

	// ErrorUnsuccessful indicates a well-formed answer with success=false
	// or an unexpected 4xx.
	ErrorUnsuccessful ErrorCategory = "unsuccessful"
)

// CallError wraps a failed core call with its category.
type CallError struct {
	Category   ErrorCategory
	Call       string
	Status     int
	Message    string
	Underlying error
}

func (e *CallError) Error() string {
	msg := fmt.Sprintf("core %s [%s]: %s", e.Call, e.Category, e.Message)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *CallError) Unwrap() error {
	return e.Underlying
}

// newCallError builds the categorized error and wraps it as a dependency
// failure so transports answer 500 without leaking the cause.
func newCallError(category ErrorCategory, call string, status int, message string, underlying error) error {
	ce := &CallError{
		Category:   category,
		Call:       call,
		Status:     status,
		Message:    message,
		Underlying: underlying,
	}
	return dErrors.Wrap(ce, dErrors.CodeDependency, "core service "+call+" failed")
}

// CategoryOf extracts the failure category, or "" when err is not a core call failure.
func CategoryOf(err error) ErrorCategory {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}
