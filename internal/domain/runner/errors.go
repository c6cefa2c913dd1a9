package runner

import "fmt"

// FaultError is a backend-reported business fault carried in a response
// envelope. It aborts the workflow that observed it.
type FaultError struct {
	Step    string
	Message string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s SOAP Fault: %s", e.Step, e.Message)
}

// NewFaultError creates a FaultError for the named step.
func NewFaultError(step, message string) *FaultError {
	if message == "" {
		message = "Unknown"
	}
	return &FaultError{Step: step, Message: message}
}

// ExtractionError reports an expected field missing from a response body.
type ExtractionError struct {
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s not found in response", e.Field)
}
