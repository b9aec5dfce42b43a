package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	t.Run("replaces invalid characters", func(t *testing.T) {
		actual, err := SanitizeFileName(` profile<2026>?.png `)
		require.NoError(t, err)
		require.Equal(t, "profile_2026__.png", actual)
	})

	t.Run("replaces path separators", func(t *testing.T) {
		actual, err := SanitizeFileName(`../../etc/passwd`)
		require.NoError(t, err)
		require.Equal(t, ".._.._etc_passwd", actual)
	})

	t.Run("strips control and format characters", func(t *testing.T) {
		actual, err := SanitizeFileName("logo\u200b\x07.png")
		require.NoError(t, err)
		require.Equal(t, "logo.png", actual)
	})

	t.Run("rejects empty and dot names", func(t *testing.T) {
		for _, input := range []string{"", "   ", ".", "..", "\u200b"} {
			_, err := SanitizeFileName(input)
			require.Error(t, err, "%q", input)
		}
	})

	t.Run("truncates by runes", func(t *testing.T) {
		actual, err := SanitizeFileName(strings.Repeat("é", 300))
		require.NoError(t, err)
		require.Equal(t, maxFileNameLength, utf8.RuneCountInString(actual))
		require.True(t, utf8.ValidString(actual))
	})
}
