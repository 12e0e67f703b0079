package analytics

import "fmt"

// Error represents a failed exchange with the analytics service.
type Error struct {
	// Type categorizes the error
	Type string

	// Message is a human-readable error message
	Message string

	// Code is the HTTP status code (if applicable)
	Code int

	// Err is the underlying error
	Err error
}

// Error types.
const (
	ErrorTypeNetwork    = "network"
	ErrorTypeAPI        = "api"
	ErrorTypeTimeout    = "timeout"
	ErrorTypeParse      = "parse"
	ErrorTypeRemote     = "remote"
	ErrorTypeValidation = "validation"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("analytics %s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("analytics %s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed.
func (e *Error) Retryable() bool {
	return e.Type == ErrorTypeNetwork
}

// NewNetworkError creates a network error.
func NewNetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: "Failed to reach the analytics service. Check that it is running.",
		Err:     err,
	}
}

// NewAPIError creates an API error with status code.
func NewAPIError(code int, message string) *Error {
	return &Error{
		Type:    ErrorTypeAPI,
		Code:    code,
		Message: message,
	}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Type:    ErrorTypeTimeout,
		Message: "Request timed out. Model fitting may need a longer timeout.",
		Err:     err,
	}
}

// NewParseError creates a parse error.
func NewParseError(content string, err error) *Error {
	return &Error{
		Type:    ErrorTypeParse,
		Message: fmt.Sprintf("Failed to parse analytics output: %s", truncate(content, 200)),
		Err:     err,
	}
}

// NewRemoteError creates an error reported by the service itself in a
// success=false response.
func NewRemoteError(message string) *Error {
	if message == "" {
		message = "analysis failed"
	}
	return &Error{
		Type:    ErrorTypeRemote,
		Message: message,
	}
}

// NewValidationError creates an error for a request rejected before sending.
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
