package errors

import (
	"strings"
	"unicode"
)

// Engine limits shared by every entry point.
const (
	MinBlocks  = 1
	MaxBlocks  = 100
	MaxPixels  = 1 << 26 // 8192x8192
	MaxWorkers = 1024
)

// ValidateScreen rejects non-positive or oversized screen dimensions.
func ValidateScreen(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidScreen, "screen size must be positive, got %dx%d", width, height)
	}
	if width > MaxPixels/height {
		return New(ErrCodeInvalidScreen, "screen %dx%d exceeds %d pixels", width, height, MaxPixels)
	}
	return nil
}

// ValidateBlocks checks the per-axis block count against [MinBlocks, MaxBlocks].
func ValidateBlocks(n int) error {
	if n < MinBlocks || n > MaxBlocks {
		return New(ErrCodeInvalidBlocks, "block count must be within [%d,%d], got %d", MinBlocks, MaxBlocks, n)
	}
	return nil
}

// ValidateWorkers accepts 0 (auto-detect) or a positive pool size.
func ValidateWorkers(n int) error {
	if n < 0 || n > MaxWorkers {
		return New(ErrCodeInvalidInput, "worker count must be within [0,%d], got %d", MaxWorkers, n)
	}
	return nil
}

// ValidatePath validates an output or input file path given on the command
// line or in an API request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) when relative is true
func ValidatePath(path string, relative bool) error {
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

	if relative {
		if strings.HasPrefix(path, "/") {
			return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
		}
		if strings.Contains(path, "..") {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
