package storage

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"go-membership-api/pkg/apierror"
)

// PathValidator maps flat resource names onto files directly under root.
type PathValidator struct {
	rootAbs string
}

func NewPathValidator(root string) (*PathValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	return &PathValidator{rootAbs: rootAbs}, nil
}

func (v *PathValidator) RootAbs() string {
	return v.rootAbs
}

// ResolveName rejects anything that is not a single path segment.
func (v *PathValidator) ResolveName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return "", apierror.New("INVALID_NAME", "resource name is invalid", name, http.StatusBadRequest)
	}

	if hasControlCharacters(trimmed) {
		return "", apierror.New("INVALID_NAME", "resource name contains invalid characters", name, http.StatusBadRequest)
	}

	if strings.ContainsAny(trimmed, `/\`) {
		return "", apierror.New("PATH_TRAVERSAL", "resource name must not contain separators", name, http.StatusForbidden)
	}

	resolved := filepath.Join(v.rootAbs, trimmed)
	if filepath.Dir(resolved) != v.rootAbs {
		return "", apierror.New("PATH_TRAVERSAL", "resolved path is outside storage root", name, http.StatusForbidden)
	}

	return resolved, nil
}

func hasControlCharacters(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}

	return false
}
