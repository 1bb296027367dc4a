package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxColumns bounds the column count accepted from user input.
// The engine itself accepts any positive count; the limit only guards
// the CLI and API against absurd requests.
const MaxColumns = 64

// ValidateColumns checks that n is a usable column count.
func ValidateColumns(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidConfiguration, "column count must be positive, got %d", n)
	}
	if n > MaxColumns {
		return New(ErrCodeInvalidConfiguration, "column count too large (max %d), got %d", MaxColumns, n)
	}
	return nil
}

// ValidateWidth checks that w is a positive, finite container width.
func ValidateWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidConfiguration, "container width must be finite, got %v", w)
	}
	if w <= 0 {
		return New(ErrCodeInvalidConfiguration, "container width must be positive, got %v", w)
	}
	return nil
}

// ValidateItemID validates an item identifier from a manifest.
//
// IDs end up in SVG element ids and JSON output, so the rules are:
//   - No empty IDs
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidManifest, "item id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidManifest, "item id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidManifest, "item id contains invalid characters: %q", id)
		}
	}

	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a simple basename with a supported extension.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, ".toml") {
		return New(ErrCodeInvalidFormat, "manifest must be .json or .toml: %q", filename)
	}

	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
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
