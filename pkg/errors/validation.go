package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// MaxSchemaBytes bounds the schema text accepted from untrusted callers.
const MaxSchemaBytes = 1 << 20

// Layout directions accepted by [ValidateDirection].
const (
	DirectionLR = "LR"
	DirectionTB = "TB"
)

// ValidateDirection accepts "LR" and "TB" (case-sensitive).
func ValidateDirection(dir string) error {
	switch dir {
	case DirectionLR, DirectionTB:
		return nil
	case "":
		return New(ErrCodeInvalidDirection, "direction cannot be empty")
	}
	return New(ErrCodeInvalidDirection, "unknown direction %q (want %s or %s)", dir, DirectionLR, DirectionTB)
}

// ValidateSpacing checks that a spacing parameter is a finite, non-negative
// number. name is used in the message.
func ValidateSpacing(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidSpacing, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidSpacing, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateNodeID validates a node (table) identifier received from outside,
// such as a URL path segment or a CLI argument.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node ID cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidNodeID, "node ID too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidNodeID, "node ID contains invalid characters")
		}
	}
	return nil
}

// ValidateSchemaText bounds schema text before it is parsed. The parser
// itself accepts anything; this only guards the outer surfaces.
func ValidateSchemaText(text string) error {
	if len(text) > MaxSchemaBytes {
		return New(ErrCodeInvalidInput, "schema text too large (max %d bytes)", MaxSchemaBytes)
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "schema text contains null bytes")
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
