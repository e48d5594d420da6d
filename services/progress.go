package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/shared"
)

// ProgressService reports and resets per-user completion state and runs
// the server-side gating check.
type ProgressService struct {
	appContext.DefaultService

	sqlSvc   *PostgresService
	redisSvc *RedisService
}

const PROGRESS_SVC = "progress_svc"

// gateTolerance mirrors the client activation window so the server does
// not flag an interaction the client is about to show anyway.
const gateTolerance = 0.5

const heartbeatTTL = 24 * time.Hour

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Snapshot returns completion state for every active interaction of a
// video, plus aggregate stats.
func (svc *ProgressService) Snapshot(userID, videoID string) (*dto.ProgressSnapshotResponse, error) {
	if _, err := svc.sqlSvc.GetVideo(videoID); err != nil {
		return nil, shared.NewNotFoundError(err, "Video not found")
	}

	interactions, err := svc.sqlSvc.ListInteractions(videoID, true)
	if err != nil {
		return nil, err
	}
	progress, err := svc.sqlSvc.ListProgress(userID, videoID)
	if err != nil {
		return nil, err
	}

	byInteraction := make(map[string]int, len(progress))
	for i, p := range progress {
		byInteraction[p.InteractionID] = i
	}

	resp := &dto.ProgressSnapshotResponse{
		VideoID: videoID,
		Items:   make([]dto.ProgressItemResponse, 0, len(interactions)),
	}
	resp.Stats.Total = len(interactions)

	for _, it := range interactions {
		item := dto.ProgressItemResponse{InteractionID: it.ID}
		if idx, ok := byInteraction[it.ID]; ok {
			p := progress[idx]
			completedAt := p.CompletedAt
			item.Completed = true
			item.IsCorrect = p.IsCorrect
			item.Skipped = p.Skipped
			item.PointsEarned = p.PointsEarned
			item.CompletedAt = &completedAt

			resp.Stats.Completed++
			resp.Stats.Points += p.PointsEarned
		}
		resp.Items = append(resp.Items, item)
	}

	return resp, nil
}

// Reset wipes a user's progress and attempts for one video.
func (svc *ProgressService) Reset(userID, videoID string) error {
	if _, err := svc.sqlSvc.GetVideo(videoID); err != nil {
		return shared.NewNotFoundError(err, "Video not found")
	}

	if err := svc.sqlSvc.DeleteProgress(userID, videoID); err != nil {
		return err
	}

	log.WithFields(log.Fields{"user_id": userID, "video_id": videoID}).Info("Progress reset")
	return nil
}

// CanProceed checks whether any mandatory interaction earlier than the
// current position is still unmet. The first unmet one wins, and the
// rewind time lands just before its activation window.
func (svc *ProgressService) CanProceed(userID, videoID string, currentTime float64) (*dto.CanProceedResponse, error) {
	interactions, err := svc.sqlSvc.ListInteractions(videoID, true)
	if err != nil {
		return nil, err
	}
	progress, err := svc.sqlSvc.ListProgress(userID, videoID)
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(progress))
	for _, p := range progress {
		done[p.InteractionID] = true
	}

	for _, it := range interactions {
		if !it.IsMandatory || done[it.ID] {
			continue
		}
		if it.ActivationTimeSeconds < currentTime-gateTolerance {
			rewind := it.ActivationTimeSeconds - rewindEpsilon
			if rewind < 0 {
				rewind = 0
			}
			return &dto.CanProceedResponse{
				CanProceed: false,
				RewindTime: rewind,
				BlockingID: it.ID,
			}, nil
		}
	}

	return &dto.CanProceedResponse{CanProceed: true}, nil
}

// ==================== PLAYBACK HEARTBEATS ====================

// RecordHeartbeat stores the latest playback position in redis.
func (svc *ProgressService) RecordHeartbeat(ctx context.Context, userID, videoID string, req dto.PlaybackHeartbeatRequest) error {
	pos := dto.PlaybackPositionResponse{
		VideoID:     videoID,
		CurrentTime: req.CurrentTime,
		IsPlaying:   req.IsPlaying,
		UpdatedAt:   time.Now().Unix(),
	}
	RecordPlaybackHeartbeat()
	return svc.redisSvc.Set(ctx, svc.heartbeatKey(userID, videoID), pos, heartbeatTTL)
}

// LastPosition returns the most recent heartbeat, or nil when none exists.
func (svc *ProgressService) LastPosition(ctx context.Context, userID, videoID string) (*dto.PlaybackPositionResponse, error) {
	var pos dto.PlaybackPositionResponse
	if err := svc.redisSvc.GetJSON(ctx, svc.heartbeatKey(userID, videoID), &pos); err != nil {
		return nil, err
	}
	if pos.VideoID == "" {
		return nil, nil
	}
	return &pos, nil
}

func (svc *ProgressService) heartbeatKey(userID, videoID string) string {
	return fmt.Sprintf("playback:%s:%s", userID, videoID)
}
