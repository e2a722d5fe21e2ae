package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxVariantLength bounds variant names accepted by the artifact stores.
const maxVariantLength = 128

// variantRegex matches variant names that map onto a single file basename.
var variantRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateVariant validates a stored-diagram variant name for safety.
// It rejects anything that could escape the data directory once joined
// with it and suffixed with ".xml".
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 128 characters
//   - No control characters or null bytes
//   - No path separators (/ or \) and no ".."
//   - No leading dot (hidden files)
//   - Only letters, digits, '_' and '-'
func ValidateVariant(name string) error {
	if name == "" {
		return New(ErrCodeInvalidVariant, "variant cannot be empty")
	}

	if len(name) > maxVariantLength {
		return New(ErrCodeInvalidVariant, "variant too long (max %d characters)", maxVariantLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidVariant, "variant contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidVariant, "variant cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidVariant, "variant cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidVariant, "variant cannot be a hidden file")
	}

	if !variantRegex.MatchString(name) {
		return New(ErrCodeInvalidVariant, "invalid variant name: %q", name)
	}

	return nil
}
