// model/content.go
package model

import (
	"time"
)

// Video is a piece of course content that interactions attach to.
type Video struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"type:text"`
	VideoURL        string    `json:"video_url"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	SubtitleURL     string    `json:"subtitle_url"`
	DurationSeconds float64   `json:"duration_seconds"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InteractionType is the enumerated kind of a timed prompt (quiz, poll, ...).
// Code values are listed in shared/const.go.
type InteractionType struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Interaction is a timed prompt attached to a video at a playback offset.
type Interaction struct {
	ID                    string    `json:"id" gorm:"primaryKey"`
	VideoID               string    `json:"video_id" gorm:"index;not null"`
	TypeID                string    `json:"type_id" gorm:"not null"`
	Title                 string    `json:"title"`
	Prompt                string    `json:"prompt" gorm:"type:text"`
	ActivationTimeSeconds float64   `json:"activation_time_seconds" gorm:"not null"`
	IsMandatory           bool      `json:"is_mandatory" gorm:"default:false"`
	IsActive              bool      `json:"is_active" gorm:"default:true"`
	Points                int       `json:"points" gorm:"default:10"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	// Relationships
	Video   Video               `json:"video" gorm:"foreignKey:VideoID"`
	Type    InteractionType     `json:"type" gorm:"foreignKey:TypeID"`
	Options []InteractionOption `json:"options" gorm:"foreignKey:InteractionID"`
}

// InteractionOption is one selectable answer. Position is only meaningful
// for fill-in-blank interactions, where it orders the blanks.
type InteractionOption struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	InteractionID string    `json:"interaction_id" gorm:"index;not null"`
	Text          string    `json:"text" gorm:"not null"`
	IsCorrect     bool      `json:"is_correct" gorm:"default:false"`
	Position      int       `json:"position" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
