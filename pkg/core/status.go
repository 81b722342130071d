// Package core holds the error model shared by the selector compiler,
// the test tree flattener and the element lookup driver.
package core

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone        ErrorCategory = iota // No error
	ErrCategoryInput                            // Caller supplied unusable input (empty selector)
	ErrCategoryUnsupported                      // Construct cannot be expressed in the requested query form
	ErrCategoryInvariant                        // Malformed input structure (test outside any group)
	ErrCategoryAssertion                        // Element not found
	ErrCategoryConnection                       // Device/server connection lost
	ErrCategoryConfig                           // Invalid configuration, missing required field
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryInput:
		return "input"
	case ErrCategoryUnsupported:
		return "unsupported"
	case ErrCategoryInvariant:
		return "invariant"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// IsCallerError reports whether errors of this category are caused by the
// caller's input and must not be retried.
func (c ErrorCategory) IsCallerError() bool {
	switch c {
	case ErrCategoryInput, ErrCategoryUnsupported, ErrCategoryInvariant, ErrCategoryConfig:
		return true
	default:
		return false
	}
}
