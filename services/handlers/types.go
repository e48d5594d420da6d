package handlers

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/vidgate-io/vidgate_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type InteractionServiceInterface interface {
	ListVideos(page, limit int) (*dto.VideoListResponse, error)
	GetVideo(videoID string) (*dto.VideoResponse, error)
	CreateVideo(req dto.CreateVideoRequest) (*dto.VideoResponse, error)
	UpdateVideo(videoID string, req dto.UpdateVideoRequest) (*dto.VideoResponse, error)
	DeleteVideo(videoID string) error
	ListInteractionTypes() ([]dto.InteractionTypeResponse, error)
	ListForPlayback(ctx context.Context, videoID string) (*dto.InteractionListResponse, error)
	GetInteraction(id string) (*dto.InteractionResponse, error)
	CreateInteraction(videoID string, req dto.CreateInteractionRequest) (*dto.InteractionResponse, error)
	UpdateInteraction(id string, req dto.UpdateInteractionRequest) (*dto.InteractionResponse, error)
	DeleteInteraction(id string) error
}

type GradingServiceInterface interface {
	SubmitAnswer(userID, interactionID string, req dto.AnswerRequest) (*dto.AnswerResponse, error)
	Skip(userID, interactionID string) error
}

type ProgressServiceInterface interface {
	Snapshot(userID, videoID string) (*dto.ProgressSnapshotResponse, error)
	Reset(userID, videoID string) error
	CanProceed(userID, videoID string, currentTime float64) (*dto.CanProceedResponse, error)
	RecordHeartbeat(ctx context.Context, userID, videoID string, req dto.PlaybackHeartbeatRequest) error
	LastPosition(ctx context.Context, userID, videoID string) (*dto.PlaybackPositionResponse, error)
}

type MediaServiceInterface interface {
	Upload(fileHeader *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	Attach(videoID string, req dto.AttachMediaRequest) (*dto.VideoResponse, error)
}
