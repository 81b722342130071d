package core

import "testing"

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryInput, "input"},
		{ErrCategoryUnsupported, "unsupported"},
		{ErrCategoryInvariant, "invariant"},
		{ErrCategoryAssertion, "assertion"},
		{ErrCategoryConnection, "connection"},
		{ErrCategoryConfig, "config"},
		{ErrorCategory(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.expected {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.expected)
		}
	}
}

func TestErrorCategory_IsCallerError(t *testing.T) {
	callerErrors := []ErrorCategory{ErrCategoryInput, ErrCategoryUnsupported, ErrCategoryInvariant, ErrCategoryConfig}
	otherErrors := []ErrorCategory{ErrCategoryNone, ErrCategoryAssertion, ErrCategoryConnection}

	for _, c := range callerErrors {
		if !c.IsCallerError() {
			t.Errorf("ErrorCategory(%s).IsCallerError() = false, want true", c)
		}
	}

	for _, c := range otherErrors {
		if c.IsCallerError() {
			t.Errorf("ErrorCategory(%s).IsCallerError() = true, want false", c)
		}
	}
}
