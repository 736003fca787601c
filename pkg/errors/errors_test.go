package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeRegistry, cause, "query versions of %s", "husky")

	if err.Code != ErrCodeRegistry {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRegistry)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "REGISTRY_ERROR: query versions of husky: underlying error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnsatisfiable, "test"),
			code:     ErrCodeUnsatisfiable,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeRegistry,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeRegistry, New(ErrCodeNotFound, "inner"), "outer"),
			code:     ErrCodeRegistry,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeResolverFailure, "test"), ErrCodeResolverFailure},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnsatisfiable, "no version of husky satisfies <5"),
			expected: "unsatisfiable constraint: no version of husky satisfies <5",
		},
		{
			name:     "wrapped cause",
			err:      Wrap(ErrCodeRegistry, errors.New("connection refused"), "query latest version of react"),
			expected: "registry error: query latest version of react: connection refused",
		},
		{
			name:     "nested Error cause",
			err:      Wrap(ErrCodeRegistry, Wrap(ErrCodeNetwork, errors.New("timeout"), "GET"), "query versions of next"),
			expected: "registry error: query versions of next: timeout",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessageNamesFailureClass(t *testing.T) {
	for _, code := range []Code{ErrCodeRegistry, ErrCodeUnsatisfiable, ErrCodeResolverFailure, ErrCodeInvalidFeature} {
		msg := UserMessage(New(code, "pkg"))
		if strings.HasPrefix(msg, "error:") {
			t.Errorf("UserMessage for %s has generic class: %q", code, msg)
		}
	}
}
