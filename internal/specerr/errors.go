// Package specerr provides a lightweight structured error type (BuildError)
// for category-based classification of build failures in the CLI.
package specerr

import (
	"fmt"
)

// ErrorCategory represents the category of a build error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig ErrorCategory = "config"

	// Fragment content errors
	CategoryFragment ErrorCategory = "fragment"
	CategoryHeading  ErrorCategory = "heading"

	// External collaborator errors (templater, renderer)
	CategoryExternal ErrorCategory = "external"

	// Local I/O errors
	CategoryFileSystem ErrorCategory = "filesystem"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the build
	SeverityWarning ErrorSeverity = "warning" // Logged, build continues
)

// BuildError is a structured error with category, severity, and context
type BuildError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BuildError
type ContextFields map[string]any

// Error implements the error interface
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
	if frag, ok := e.Context["fragment"]; ok {
		msg += fmt.Sprintf(" [fragment=%v", frag)
		if line, ok := e.Context["line"]; ok {
			msg += fmt.Sprintf(" line=%v", line)
		}
		msg += "]"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BuildError
func New(category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a BuildError wrapping an underlying cause
func Wrap(cause error, category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    cause,
	}
}

// Newf creates a new BuildError with a formatted message
func Newf(category ErrorCategory, severity ErrorSeverity, format string, args ...any) *BuildError {
	return New(category, severity, fmt.Sprintf(format, args...))
}
