package review

import "fmt"

// APICallError wraps a failed model call.
type APICallError struct {
	Model string
	Cause error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("review request to %s failed: %v", e.Model, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError is returned when the model answer is not valid review JSON.
type ParseError struct {
	Payload string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid review payload: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
