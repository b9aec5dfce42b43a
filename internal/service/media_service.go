package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/repository"
	"go-membership-api/internal/util"
	"go-membership-api/internal/validate"
	"go-membership-api/pkg/apierror"
)

type MediaService struct {
	media         mediaStore
	members       memberStore
	organizations organizationStore
	files         fileStore
	allowedMIMEs  []string
	maxSize       int64
	now           func() time.Time
}

func NewMediaService(media mediaStore, members memberStore, organizations organizationStore, files fileStore, allowedMIMEs []string, maxSize int64) *MediaService {
	return &MediaService{
		media:         media,
		members:       members,
		organizations: organizations,
		files:         files,
		allowedMIMEs:  allowedMIMEs,
		maxSize:       maxSize,
		now:           utcNow,
	}
}

// Upload decodes a base64 payload, writes it under a generated name and
// records the metadata row. The file is removed again if the row cannot be
// stored.
func (s *MediaService) Upload(ctx context.Context, identity auth.Identity, req model.UploadMediaRequest) (model.Media, error) {
	return s.upload(ctx, identity, req, false)
}

// UploadOrganizationImage stores an image for the caller's own organization.
func (s *MediaService) UploadOrganizationImage(ctx context.Context, identity auth.Identity, req model.UploadOrganizationImageRequest) (model.Media, error) {
	return s.upload(ctx, identity, model.UploadMediaRequest{
		OwnerKind: model.OwnerOrganization,
		OwnerID:   req.ID,
		Data:      req.Data,
	}, true)
}

func (s *MediaService) upload(ctx context.Context, identity auth.Identity, req model.UploadMediaRequest, imagesOnly bool) (model.Media, error) {
	ownerKind, err := validate.OwnerKind(req.OwnerKind, "Owner Kind")
	if err != nil {
		return model.Media{}, err
	}
	ownerID, err := validate.UUID(req.OwnerID, "Owner ID")
	if err != nil {
		return model.Media{}, err
	}

	data, err := s.decode(req.Data)
	if err != nil {
		return model.Media{}, err
	}

	if err := s.ensureOwner(ctx, identity, ownerKind, ownerID); err != nil {
		return model.Media{}, err
	}

	mimeType := util.DetectMIME(data)
	if !util.IsAllowedMIME(mimeType, s.allowedMIMEs) {
		return model.Media{}, apierror.New("UNSUPPORTED_TYPE", "file type is not allowed", mimeType, http.StatusUnsupportedMediaType)
	}
	if imagesOnly && !util.IsImageMIME(mimeType) {
		return model.Media{}, apierror.New("UNSUPPORTED_TYPE", "file must be an image", mimeType, http.StatusUnsupportedMediaType)
	}

	id := uuid.NewString()
	storedName := id + util.ExtensionFor(mimeType)

	fileName := storedName
	if req.FileName != nil && strings.TrimSpace(*req.FileName) != "" {
		fileName, err = util.SanitizeFileName(*req.FileName)
		if err != nil {
			return model.Media{}, err
		}
	}

	now := s.now()
	media := model.Media{
		ID:        id,
		OwnerKind: ownerKind,
		OwnerID:   ownerID,
		FileName:  fileName,
		FilePath:  storedName,
		MimeType:  mimeType,
		FileSize:  int64(len(data)),
		MediaType: util.MediaTypeFor(mimeType),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if media.MediaType == model.MediaImage {
		if width, height, ok := util.ImageDimensions(data); ok {
			media.Width = &width
			media.Height = &height
		}
	}

	if err := s.files.Write(storedName, data); err != nil {
		return model.Media{}, apierror.Persistence("store media", err)
	}

	if _, err := s.media.Create(ctx, media); err != nil {
		if removeErr := s.files.Remove(storedName); removeErr != nil {
			slog.Warn("orphaned media file", "name", storedName, "error", removeErr)
		}
		return model.Media{}, persistence("add media", err)
	}

	slog.Info("media uploaded", "media_id", id, "owner_kind", ownerKind, "owner_id", ownerID, "size", media.FileSize)

	return media, nil
}

// Get returns a live media row and its bytes.
func (s *MediaService) Get(ctx context.Context, identity auth.Identity, id string) (model.MediaContent, error) {
	media, err := s.find(ctx, identity, id)
	if err != nil {
		return model.MediaContent{}, err
	}

	content, err := s.files.Read(media.FilePath)
	if err != nil {
		return model.MediaContent{}, persistence("read media", err)
	}

	return model.MediaContent{Media: media, Content: content}, nil
}

func (s *MediaService) ListByOwner(ctx context.Context, identity auth.Identity, ownerKind string, ownerID string) ([]model.Media, error) {
	ownerKind, err := validate.OwnerKind(ownerKind, "Owner Kind")
	if err != nil {
		return nil, err
	}
	ownerID, err = validate.UUID(ownerID, "Owner ID")
	if err != nil {
		return nil, err
	}

	if err := s.ensureOwner(ctx, identity, ownerKind, ownerID); err != nil {
		return nil, err
	}

	media, err := s.media.Find(ctx, repository.MediaFilter{OwnerKind: &ownerKind, OwnerID: &ownerID, IsDeleted: notDeleted})
	if err != nil {
		return nil, persistence("fetch media", err)
	}
	return media, nil
}

// Delete marks the row deleted. The stored bytes are kept.
func (s *MediaService) Delete(ctx context.Context, identity auth.Identity, id string) error {
	media, err := s.find(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := s.media.SoftDelete(ctx, media.ID); err != nil {
		return persistence("delete media", err)
	}
	return nil
}

func (s *MediaService) find(ctx context.Context, identity auth.Identity, id string) (model.Media, error) {
	id, err := validate.UUID(id, "ID")
	if err != nil {
		return model.Media{}, err
	}

	media, err := s.media.FindOne(ctx, repository.MediaFilter{ID: &id, IsDeleted: notDeleted})
	if err != nil {
		return model.Media{}, persistence("fetch media", err)
	}

	if err := s.ensureOwner(ctx, identity, media.OwnerKind, media.OwnerID); err != nil {
		if apierror.Is(err, apierror.KindForbidden) {
			return model.Media{}, apierror.NotFound("Media", id)
		}
		return model.Media{}, err
	}
	return media, nil
}

// ensureOwner checks that the owner exists, is not blocked and belongs to the
// caller's organization.
func (s *MediaService) ensureOwner(ctx context.Context, identity auth.Identity, ownerKind string, ownerID string) error {
	tenant, err := tenantOf(identity)
	if err != nil {
		return err
	}

	switch ownerKind {
	case model.OwnerOrganization:
		if ownerID != tenant {
			return apierror.Forbidden("Organization belongs to another tenant")
		}
		if _, err := s.organizations.FindOne(ctx, repository.OrganizationFilter{ID: &ownerID, IsBlocked: notBlocked}); err != nil {
			return persistence("fetch organization", err)
		}
	case model.OwnerMember:
		if _, err := s.members.FindOne(ctx, repository.MemberFilter{ID: &ownerID, OrganizationID: &tenant, IsBlocked: notBlocked}); err != nil {
			return persistence("fetch member", err)
		}
	default:
		return apierror.Validation("Owner Kind", "Owner Kind validation failed")
	}
	return nil
}

// decode accepts plain base64 or a data URL and enforces the size limit.
func (s *MediaService) decode(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, apierror.BadRequest("invalid media payload", "malformed data URL")
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, apierror.Validation("Data", "Data validation failed")
	}

	if s.maxSize > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > s.maxSize+2 {
		return nil, tooLarge(s.maxSize)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apierror.BadRequest("invalid media payload", "data is not valid base64")
	}
	if len(data) == 0 {
		return nil, apierror.Validation("Data", "Data validation failed")
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, tooLarge(s.maxSize)
	}
	return data, nil
}

func tooLarge(limit int64) *apierror.APIError {
	return apierror.New("PAYLOAD_TOO_LARGE", "file exceeds the upload limit", fmt.Sprintf("max %d bytes", limit), http.StatusRequestEntityTooLarge)
}
