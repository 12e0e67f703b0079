package core

import "fmt"

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LockError represents a file locking error.
type LockError struct {
	Operation string
	Message   string
	Err       error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("lock %s: %s", e.Operation, e.Message)
}

func (e *LockError) Unwrap() error {
	return e.Err
}

// AnalyticsError represents a failed call to the analytics service.
type AnalyticsError struct {
	Operation string
	Message   string
	Err       error
}

func (e *AnalyticsError) Error() string {
	return fmt.Sprintf("analytics %s: %s", e.Operation, e.Message)
}

func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

// StorageError represents a failure reading or writing the regulation store.
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
