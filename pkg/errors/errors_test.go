package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidShape, "unknown shape kind: %s", "blob")

	if err.Code != ErrCodeInvalidShape {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidShape)
	}
	if err.Message != "unknown shape kind: blob" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown shape kind: blob")
	}

	expected := "INVALID_SHAPE: unknown shape kind: blob"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch cover")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
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
			err:      New(ErrCodeInvalidShape, "test"),
			code:     ErrCodeInvalidShape,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidShape, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidShape, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidShape,
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
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeTimeout)
	}
	if got := GetCode(errors.New("plain")); got != Code("") {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidColor, "bad hex")); got != "bad hex" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad hex")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain error")
	}
}

func TestIsConfig(t *testing.T) {
	if !IsConfig(New(ErrCodeInvalidStagger, "bad")) {
		t.Error("IsConfig(INVALID_STAGGER) = false, want true")
	}
	if IsConfig(New(ErrCodeNetwork, "down")) {
		t.Error("IsConfig(NETWORK_ERROR) = true, want false")
	}
	if IsConfig(errors.New("plain")) {
		t.Error("IsConfig(plain) = true, want false")
	}
}
