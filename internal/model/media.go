package model

import "time"

const (
	OwnerOrganization = "organization"
	OwnerMember       = "member"
)

const (
	MediaImage    = "image"
	MediaVideo    = "video"
	MediaAudio    = "audio"
	MediaDocument = "document"
)

type Media struct {
	ID        string    `json:"id"`
	OwnerKind string    `json:"owner_kind"`
	OwnerID   string    `json:"owner_id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	MimeType  string    `json:"mime_type"`
	FileSize  int64     `json:"file_size"`
	MediaType string    `json:"media_type"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	Duration  *int      `json:"duration"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UploadMediaRequest struct {
	OwnerKind string  `json:"owner_kind"`
	OwnerID   string  `json:"owner_id"`
	FileName  *string `json:"file_name"`
	Data      string  `json:"data"`
}

// MediaContent is a media row plus its stored bytes.
type MediaContent struct {
	Media
	Content []byte
}
