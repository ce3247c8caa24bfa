package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from snapshots.
const MaxNodeIDLength = 512

// ValidateNodeID validates a node identifier taken from a graph snapshot.
//
// The rules are intentionally conservative, since identifiers end up in SVG
// attributes, DOT files and cache keys:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSnapshot, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidSnapshot, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSnapshot, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateViewport validates viewport dimensions.
// Zero is allowed (a collapsed container), negative and non-finite values are not.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport dimensions must be finite (got %vx%v)", width, height)
		}
		if v < 0 {
			return New(ErrCodeInvalidViewport, "viewport dimensions must not be negative (got %vx%v)", width, height)
		}
	}
	return nil
}

// ValidatePoint validates a pointer coordinate pair supplied by a host.
func ValidatePoint(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return New(ErrCodeInvalidPointer, "pointer coordinates must be finite (got %v,%v)", x, y)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path for exports.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsFunc(path, unicode.IsControl) {
		return New(ErrCodeInvalidInput, "output path contains invalid characters")
	}

	return nil
}
