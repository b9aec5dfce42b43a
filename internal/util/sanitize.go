package util

import (
	"regexp"
	"strings"
	"unicode"

	"go-membership-api/pkg/apierror"
)

const maxFileNameLength = 255

var invalidFileNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFileName cleans a client supplied display name for stored media.
// The name is only ever shown back to clients; files on disk are keyed by id.
func SanitizeFileName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.BadRequest("File name cannot be empty", "")
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimSpace(invalidFileNameChars.ReplaceAllString(b.String(), "_"))

	// Truncate by runes so multi-byte characters stay intact.
	if runes := []rune(cleaned); len(runes) > maxFileNameLength {
		cleaned = string(runes[:maxFileNameLength])
	}

	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", apierror.BadRequest("File name is invalid", trimmed)
	}

	return cleaned, nil
}
