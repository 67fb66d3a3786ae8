package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimension validates that a named dimension is a positive, finite
// number. Non-finite dimensions are a caller contract violation and are
// rejected here rather than surfacing as NaN-poisoned geometry downstream.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateFraction validates that a named value lies in [0, 1].
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be in [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateNonNegative validates that a named value is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateTitle validates a series title used for catalog lookups.
// It rejects empty titles, control characters, and unreasonable lengths.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidInput, "title cannot be empty")
	}
	if len(title) > 256 {
		return New(ErrCodeInvalidInput, "title too long (max 256 characters)")
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
