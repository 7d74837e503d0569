package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// datasetNameRegex matches dataset names safe to use as registry keys, cache
// key components, and URL path segments.
var datasetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateDatasetName validates a dataset name for safety and correctness.
// Dataset names appear in file paths, cache keys, and URLs, so the rules are
// intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences
//   - Maximum length of 128 characters
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDataset, "dataset name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidDataset, "dataset name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "dataset name contains control characters")
		}
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidDataset, "dataset name cannot contain path traversal sequences (..)")
	}
	if !datasetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidDataset, "invalid dataset name: %q", name)
	}
	return nil
}

// ValidateDamping validates a PageRank damping factor. The usable range is
// the open interval (0, 1); the conventional value is 0.85.
func ValidateDamping(d float64) error {
	if d <= 0 || d >= 1 {
		return New(ErrCodeInvalidParams, "damping must be in (0, 1), got %v", d)
	}
	return nil
}

// ValidateIterations validates a PageRank iteration count.
func ValidateIterations(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidParams, "iterations must be at least 1, got %d", n)
	}
	if n > 10000 {
		return New(ErrCodeInvalidParams, "iterations too large (max 10000), got %d", n)
	}
	return nil
}

// ValidateRadius validates a spatial query radius.
func ValidateRadius(r float64) error {
	if r < 0 {
		return New(ErrCodeInvalidParams, "radius cannot be negative, got %v", r)
	}
	return nil
}

// ValidateCapacity validates a quadtree node capacity.
func ValidateCapacity(c int) error {
	if c < 1 {
		return New(ErrCodeInvalidParams, "capacity must be at least 1, got %d", c)
	}
	return nil
}

// ValidatePath validates a local file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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

// exportFormats is the set of formats the export surfaces accept.
var exportFormats = map[string]bool{
	"json": true,
	"dot":  true,
}

// ValidateExportFormat validates an export format name.
func ValidateExportFormat(format string) error {
	if !exportFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot)", format)
	}
	return nil
}
