package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

// InteractionService owns videos, interaction types, and the timed
// interactions attached to videos. The playback-facing list is cached in
// redis and invalidated on every write.
type InteractionService struct {
	appContext.DefaultService

	sqlSvc   *PostgresService
	redisSvc *RedisService
}

const INTERACTION_SVC = "interaction_svc"

const interactionCacheTTL = 5 * time.Minute

func (svc InteractionService) Id() string {
	return INTERACTION_SVC
}

func (svc *InteractionService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// ==================== VIDEOS ====================

func (svc *InteractionService) ListVideos(page, limit int) (*dto.VideoListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	videos, total, err := svc.sqlSvc.ListVideos(true, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.VideoListResponse{Videos: make([]dto.VideoResponse, 0, len(videos)), Total: total}
	for _, v := range videos {
		count, _ := svc.sqlSvc.CountInteractions(v.ID)
		resp.Videos = append(resp.Videos, svc.toVideoResponse(&v, int(count)))
	}
	return resp, nil
}

func (svc *InteractionService) GetVideo(videoID string) (*dto.VideoResponse, error) {
	video, err := svc.sqlSvc.GetVideo(videoID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Video not found")
	}
	count, _ := svc.sqlSvc.CountInteractions(video.ID)
	resp := svc.toVideoResponse(video, int(count))
	return &resp, nil
}

func (svc *InteractionService) CreateVideo(req dto.CreateVideoRequest) (*dto.VideoResponse, error) {
	video, err := svc.sqlSvc.CreateVideo(&model.Video{
		Title:           req.Title,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		ThumbnailURL:    req.ThumbnailURL,
		SubtitleURL:     req.SubtitleURL,
		DurationSeconds: req.DurationSeconds,
		IsActive:        true,
	})
	if err != nil {
		return nil, err
	}

	resp := svc.toVideoResponse(video, 0)
	return &resp, nil
}

func (svc *InteractionService) UpdateVideo(videoID string, req dto.UpdateVideoRequest) (*dto.VideoResponse, error) {
	video, err := svc.sqlSvc.GetVideo(videoID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Video not found")
	}

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.VideoURL != nil {
		video.VideoURL = *req.VideoURL
	}
	if req.ThumbnailURL != nil {
		video.ThumbnailURL = *req.ThumbnailURL
	}
	if req.SubtitleURL != nil {
		video.SubtitleURL = *req.SubtitleURL
	}
	if req.DurationSeconds != nil {
		video.DurationSeconds = *req.DurationSeconds
	}
	if req.IsActive != nil {
		video.IsActive = *req.IsActive
	}

	if err := svc.sqlSvc.UpdateVideo(video); err != nil {
		return nil, err
	}
	svc.invalidateCache(videoID)

	count, _ := svc.sqlSvc.CountInteractions(video.ID)
	resp := svc.toVideoResponse(video, int(count))
	return &resp, nil
}

func (svc *InteractionService) DeleteVideo(videoID string) error {
	if _, err := svc.sqlSvc.GetVideo(videoID); err != nil {
		return shared.NewNotFoundError(err, "Video not found")
	}
	if err := svc.sqlSvc.DeleteVideo(videoID); err != nil {
		return err
	}
	svc.invalidateCache(videoID)
	return nil
}

func (svc *InteractionService) toVideoResponse(v *model.Video, interactionCount int) dto.VideoResponse {
	return dto.VideoResponse{
		ID:               v.ID,
		Title:            v.Title,
		Description:      v.Description,
		VideoURL:         v.VideoURL,
		ThumbnailURL:     v.ThumbnailURL,
		SubtitleURL:      v.SubtitleURL,
		DurationSeconds:  v.DurationSeconds,
		IsActive:         v.IsActive,
		InteractionCount: interactionCount,
		CreatedAt:        v.CreatedAt,
	}
}

// ==================== INTERACTION TYPES ====================

func (svc *InteractionService) ListInteractionTypes() ([]dto.InteractionTypeResponse, error) {
	types, err := svc.sqlSvc.ListInteractionTypes()
	if err != nil {
		return nil, err
	}

	resp := make([]dto.InteractionTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, dto.InteractionTypeResponse{
			ID:          t.ID,
			Code:        t.Code,
			Name:        t.Name,
			Description: t.Description,
			IsActive:    t.IsActive,
		})
	}
	return resp, nil
}

// ==================== PLAYBACK LIST ====================

// ListForPlayback returns the active interactions of a video ordered by
// activation time, with correct-answer flags stripped.
func (svc *InteractionService) ListForPlayback(ctx context.Context, videoID string) (*dto.InteractionListResponse, error) {
	cacheKey := svc.cacheKey(videoID)

	var cached dto.InteractionListResponse
	if err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached); err == nil && cached.Interactions != nil {
		return &cached, nil
	}

	if _, err := svc.sqlSvc.GetVideo(videoID); err != nil {
		return nil, shared.NewNotFoundError(err, "Video not found")
	}

	items, err := svc.sqlSvc.ListInteractions(videoID, true)
	if err != nil {
		return nil, err
	}

	resp := &dto.InteractionListResponse{Interactions: make([]dto.InteractionResponse, 0, len(items))}
	for _, it := range items {
		resp.Interactions = append(resp.Interactions, svc.toInteractionResponse(&it, false))
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, resp, interactionCacheTTL); err != nil {
		log.WithError(err).Debug("Failed to cache interaction list")
	}
	return resp, nil
}

// ==================== ADMIN CRUD ====================

func (svc *InteractionService) GetInteraction(id string) (*dto.InteractionResponse, error) {
	it, err := svc.sqlSvc.GetInteraction(id)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Interaction not found")
	}
	resp := svc.toInteractionResponse(it, true)
	return &resp, nil
}

func (svc *InteractionService) CreateInteraction(videoID string, req dto.CreateInteractionRequest) (*dto.InteractionResponse, error) {
	if !shared.IsKnownInteractionType(req.TypeCode) {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("Unknown interaction type: %s", req.TypeCode))
	}

	video, err := svc.sqlSvc.GetVideo(videoID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Video not found")
	}
	if req.ActivationTime > video.DurationSeconds && video.DurationSeconds > 0 {
		return nil, shared.NewBadRequestError(nil, "Activation time is beyond the video duration")
	}

	itype, err := svc.sqlSvc.GetInteractionTypeByCode(req.TypeCode)
	if err != nil {
		return nil, err
	}

	points := req.Points
	if points == 0 {
		points = 10
	}

	it := &model.Interaction{
		VideoID:               videoID,
		TypeID:                itype.ID,
		Title:                 req.Title,
		Prompt:                req.Prompt,
		ActivationTimeSeconds: req.ActivationTime,
		IsMandatory:           req.Mandatory,
		IsActive:              true,
		Points:                points,
	}
	options := svc.toOptionModels(req.Options)

	created, err := svc.sqlSvc.CreateInteraction(it, options)
	if err != nil {
		return nil, err
	}
	svc.invalidateCache(videoID)

	resp := svc.toInteractionResponse(created, true)
	return &resp, nil
}

func (svc *InteractionService) UpdateInteraction(id string, req dto.UpdateInteractionRequest) (*dto.InteractionResponse, error) {
	it, err := svc.sqlSvc.GetInteraction(id)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Interaction not found")
	}

	if req.Title != nil {
		it.Title = *req.Title
	}
	if req.Prompt != nil {
		it.Prompt = *req.Prompt
	}
	if req.ActivationTime != nil {
		it.ActivationTimeSeconds = *req.ActivationTime
	}
	if req.Mandatory != nil {
		it.IsMandatory = *req.Mandatory
	}
	if req.IsActive != nil {
		it.IsActive = *req.IsActive
	}
	if req.Points != nil {
		it.Points = *req.Points
	}

	replaceOptions := req.Options != nil
	updated, err := svc.sqlSvc.UpdateInteraction(it, svc.toOptionModels(req.Options), replaceOptions)
	if err != nil {
		return nil, err
	}
	svc.invalidateCache(it.VideoID)

	resp := svc.toInteractionResponse(updated, true)
	return &resp, nil
}

func (svc *InteractionService) DeleteInteraction(id string) error {
	it, err := svc.sqlSvc.GetInteraction(id)
	if err != nil {
		return shared.NewNotFoundError(err, "Interaction not found")
	}
	if err := svc.sqlSvc.DeleteInteraction(id); err != nil {
		return err
	}
	svc.invalidateCache(it.VideoID)
	return nil
}

func (svc *InteractionService) toOptionModels(options []dto.OptionRequest) []model.InteractionOption {
	out := make([]model.InteractionOption, 0, len(options))
	for _, o := range options {
		out = append(out, model.InteractionOption{
			Text:      o.Text,
			IsCorrect: o.Correct,
			Position:  o.Position,
		})
	}
	return out
}

// toInteractionResponse maps a model row; includeAnswers controls whether
// the is_correct flags are exposed. Fill-in-blank options keep their flags
// even on the student-facing list: the flagged options define the blanks,
// and the client needs them to check that every blank is filled before
// allowing a submit.
func (svc *InteractionService) toInteractionResponse(it *model.Interaction, includeAnswers bool) dto.InteractionResponse {
	options := make([]dto.OptionResponse, 0, len(it.Options))
	for _, o := range it.Options {
		opt := dto.OptionResponse{
			ID:       o.ID,
			Text:     o.Text,
			Position: o.Position,
		}
		if includeAnswers || it.Type.Code == shared.InteractionTypeFillBlank {
			correct := o.IsCorrect
			opt.Correct = &correct
		}
		options = append(options, opt)
	}

	return dto.InteractionResponse{
		ID:             it.ID,
		VideoID:        it.VideoID,
		Type:           it.Type.Code,
		Title:          it.Title,
		Prompt:         it.Prompt,
		ActivationTime: it.ActivationTimeSeconds,
		Mandatory:      it.IsMandatory,
		Active:         it.IsActive,
		Points:         it.Points,
		Options:        options,
	}
}

func (svc *InteractionService) cacheKey(videoID string) string {
	return fmt.Sprintf("video:interactions:%s", videoID)
}

func (svc *InteractionService) invalidateCache(videoID string) {
	if err := svc.redisSvc.Delete(context.Background(), svc.cacheKey(videoID)); err != nil {
		log.WithError(err).Debug("Failed to invalidate interaction cache")
	}
}
