package dto

import "time"

type ProgressItemResponse struct {
	InteractionID string     `json:"interaction_id"`
	Completed     bool       `json:"completed"`
	IsCorrect     bool       `json:"is_correct"`
	Skipped       bool       `json:"skipped"`
	PointsEarned  int        `json:"points_earned"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type ProgressStatsResponse struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Points    int `json:"points"`
}

type ProgressSnapshotResponse struct {
	VideoID string                 `json:"video_id"`
	Items   []ProgressItemResponse `json:"items"`
	Stats   ProgressStatsResponse  `json:"stats"`
}

type CanProceedResponse struct {
	CanProceed bool    `json:"can_proceed"`
	RewindTime float64 `json:"rewind_time"`
	// BlockingID names the earliest unmet mandatory interaction, if any.
	BlockingID string `json:"blocking_interaction_id,omitempty"`
}

type PlaybackHeartbeatRequest struct {
	CurrentTime float64 `json:"current_time" validate:"gte=0"`
	IsPlaying   bool    `json:"is_playing"`
}

func (r PlaybackHeartbeatRequest) Validate() error {
	return GetValidator().Struct(r)
}

type PlaybackPositionResponse struct {
	VideoID     string  `json:"video_id"`
	CurrentTime float64 `json:"current_time"`
	IsPlaying   bool    `json:"is_playing"`
	UpdatedAt   int64   `json:"updated_at"`
}
