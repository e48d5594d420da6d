// model/progress.go
package model

import (
	"time"
)

// InteractionProgress marks an interaction as completed for a user+video
// pair. Only correctly answered (or explicitly skipped non-mandatory)
// interactions get a row.
type InteractionProgress struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"index:idx_progress_user_video;not null"`
	VideoID       string    `json:"video_id" gorm:"index:idx_progress_user_video;not null"`
	InteractionID string    `json:"interaction_id" gorm:"index;not null"`
	IsCorrect     bool      `json:"is_correct"`
	Skipped       bool      `json:"skipped"`
	PointsEarned  int       `json:"points_earned"`
	CompletedAt   time.Time `json:"completed_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InteractionAttempt records every graded submission, correct or not.
type InteractionAttempt struct {
	ID                  string    `json:"id" gorm:"primaryKey"`
	UserID              string    `json:"user_id" gorm:"index:idx_attempt_user_interaction;not null"`
	InteractionID       string    `json:"interaction_id" gorm:"index:idx_attempt_user_interaction;not null"`
	AttemptNumber       int       `json:"attempt_number" gorm:"not null"`
	Answer              string    `json:"answer" gorm:"type:text"` // raw submitted payload
	IsCorrect           bool      `json:"is_correct"`
	PointsEarned        int       `json:"points_earned"`
	ResponseTimeSeconds float64   `json:"response_time_seconds"`
	CreatedAt           time.Time `json:"created_at"`
}
