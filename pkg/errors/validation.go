package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateLength checks that an optional per-element vector has the expected
// length. A nil vector is always accepted: absent inputs are a distinct case
// that callers handle themselves.
func ValidateLength(name string, got []float64, want int) error {
	if got == nil {
		return nil
	}
	if len(got) != want {
		return New(ErrCodeInvalidSize, "%s: length %d, want %d", name, len(got), want)
	}
	return nil
}

// ValidateFinite checks that every element of v is a finite number.
func ValidateFinite(name string, v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return New(ErrCodeInvalidValue, "%s[%d]: %v is not finite", name, i, x)
		}
	}
	return nil
}

// ValidateNotNaN checks that no element of v is NaN. Infinities pass.
func ValidateNotNaN(name string, v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) {
			return New(ErrCodeInvalidValue, "%s[%d] is NaN", name, i)
		}
	}
	return nil
}

// ValidatePositive checks that every element of v is finite and strictly positive.
func ValidatePositive(name string, v []float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	for i, x := range v {
		if x <= 0 {
			return New(ErrCodeInvalidValue, "%s[%d]: %v must be positive", name, i, x)
		}
	}
	return nil
}

// ValidateOrdered checks lo[i] <= hi[i] for every i where both vectors are
// present. Lengths must already have been validated.
func ValidateOrdered(loName, hiName string, lo, hi []float64) error {
	if lo == nil || hi == nil {
		return nil
	}
	for i := range lo {
		if lo[i] > hi[i] {
			return New(ErrCodeInvalidValue, "%s[%d]=%v exceeds %s[%d]=%v", loName, i, lo[i], hiName, i, hi[i])
		}
	}
	return nil
}

// ValidateNodeID validates a node identifier from external input.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a user-supplied output file path.
// It rejects empty paths, control characters and null bytes. Absolute paths
// are allowed since the CLI writes where the user asks.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateCacheURL validates a cache backend location.
// Accepted forms are redis://, rediss://, mongodb://, mongodb+srv:// URLs
// or a plain directory path.
func ValidateCacheURL(raw string) error {
	if raw == "" {
		return nil
	}
	if i := strings.Index(raw, "://"); i >= 0 {
		switch raw[:i] {
		case "redis", "rediss", "mongodb", "mongodb+srv":
			return nil
		}
		return New(ErrCodeInvalidInput, "unsupported cache scheme %q", raw[:i])
	}
	return ValidatePath(raw)
}
