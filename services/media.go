package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

// MediaService uploads files to object storage and links them to videos.
type MediaService struct {
	appContext.DefaultService

	sqlSvc   *PostgresService
	minioSvc *MinIOService
}

const MEDIA_SVC = "media_svc"

const maxUploadSize = 2 << 30 // 2 GiB

var allowedContentTypes = map[string]string{
	"video/mp4":  "video",
	"video/webm": "video",
	"image/jpeg": "thumbnail",
	"image/png":  "thumbnail",
	"image/webp": "thumbnail",
	"text/vtt":   "subtitle",
}

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// Upload stores the file in MinIO and records a media asset row.
func (svc *MediaService) Upload(fileHeader *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if fileHeader.Size > maxUploadSize {
		return nil, shared.NewBadRequestError(nil, "File is too large")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	fileType, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("Unsupported content type: %s", contentType))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Failed to read uploaded file")
	}
	defer file.Close()

	id, _ := uuid.NewV7()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectKey := fmt.Sprintf("%s/%d/%s%s", fileType, time.Now().Year(), id.String(), ext)

	if _, err := svc.minioSvc.UploadFile(objectKey, file, fileHeader.Size, contentType); err != nil {
		return nil, shared.NewInternalError(err, "Failed to store file")
	}

	publicURL, err := svc.minioSvc.PublicURL(objectKey)
	if err != nil {
		log.WithError(err).Warn("Failed to build public URL for upload")
	}

	asset, err := svc.sqlSvc.CreateMediaAsset(&model.MediaAsset{
		FileName:    fileHeader.Filename,
		FileType:    fileType,
		ContentType: contentType,
		FileSize:    fileHeader.Size,
		ObjectKey:   objectKey,
		PublicURL:   publicURL,
		IsProcessed: true,
	})
	if err != nil {
		// Orphaned object; remove it rather than leak storage.
		_ = svc.minioSvc.DeleteFile(objectKey)
		return nil, err
	}

	return &dto.MediaUploadResponse{
		AssetID:     asset.ID,
		FileName:    asset.FileName,
		ContentType: asset.ContentType,
		FileSize:    asset.FileSize,
		PublicURL:   asset.PublicURL,
	}, nil
}

// Attach links an uploaded asset to a video and updates the video's URL
// for that media role.
func (svc *MediaService) Attach(videoID string, req dto.AttachMediaRequest) (*dto.VideoResponse, error) {
	video, err := svc.sqlSvc.GetVideo(videoID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Video not found")
	}

	asset, err := svc.sqlSvc.GetMediaAsset(req.AssetID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Media asset not found")
	}

	if _, err := svc.sqlSvc.AttachVideoMedia(videoID, asset.ID, req.MediaType); err != nil {
		return nil, err
	}

	switch req.MediaType {
	case "video":
		video.VideoURL = asset.PublicURL
	case "thumbnail":
		video.ThumbnailURL = asset.PublicURL
	case "subtitle":
		video.SubtitleURL = asset.PublicURL
	}
	if err := svc.sqlSvc.UpdateVideo(video); err != nil {
		return nil, err
	}

	count, _ := svc.sqlSvc.CountInteractions(video.ID)
	return &dto.VideoResponse{
		ID:               video.ID,
		Title:            video.Title,
		Description:      video.Description,
		VideoURL:         video.VideoURL,
		ThumbnailURL:     video.ThumbnailURL,
		SubtitleURL:      video.SubtitleURL,
		DurationSeconds:  video.DurationSeconds,
		IsActive:         video.IsActive,
		InteractionCount: int(count),
		CreatedAt:        video.CreatedAt,
	}, nil
}
