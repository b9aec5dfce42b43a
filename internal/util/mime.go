package util

import (
	"bytes"
	"image"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go-membership-api/internal/model"
)

var extensionsByMIME = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"image/tiff":      ".tiff",
	"application/pdf": ".pdf",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"audio/mpeg":      ".mp3",
	"audio/wave":      ".wav",
	"audio/ogg":       ".ogg",
}

// DetectMIME sniffs the content type from the leading bytes and drops any
// parameters, so "text/plain; charset=utf-8" becomes "text/plain".
func DetectMIME(data []byte) string {
	detected := http.DetectContentType(data)
	if idx := strings.Index(detected, ";"); idx >= 0 {
		detected = detected[:idx]
	}
	return strings.ToLower(strings.TrimSpace(detected))
}

func IsAllowedMIME(mimeType string, allowed []string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	for _, candidate := range allowed {
		if strings.EqualFold(strings.TrimSpace(candidate), cleaned) {
			return true
		}
	}
	return false
}

func IsImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "image/")
}

func IsVideoMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "video/")
}

func IsAudioMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "audio/")
}

// MediaTypeFor buckets a MIME type into the media_type column values.
func MediaTypeFor(mimeType string) string {
	switch {
	case IsImageMIME(mimeType):
		return model.MediaImage
	case IsVideoMIME(mimeType):
		return model.MediaVideo
	case IsAudioMIME(mimeType):
		return model.MediaAudio
	default:
		return model.MediaDocument
	}
}

// ExtensionFor returns the stored file extension, or ".bin" for unknown types.
func ExtensionFor(mimeType string) string {
	if ext, ok := extensionsByMIME[strings.ToLower(strings.TrimSpace(mimeType))]; ok {
		return ext
	}
	return ".bin"
}

// ImageDimensions reads only the image header. ok is false for formats
// without a registered decoder.
func ImageDimensions(data []byte) (width int, height int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
