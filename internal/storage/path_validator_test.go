package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	validator, err := NewPathValidator(root)
	require.NoError(t, err)

	resolved, err := validator.ResolveName(" 3f2504e0-4f89-11d3-9a0c-0305e82c3301.png ")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(validator.RootAbs(), "3f2504e0-4f89-11d3-9a0c-0305e82c3301.png"), resolved)

	for _, name := range []string{"..", "a/b", `a\b`, "tab\tname"} {
		_, err := validator.ResolveName(name)
		require.Error(t, err, "%q", name)
	}
}
