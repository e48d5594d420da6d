package dto

import "time"

type CreateVideoRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	Description     string  `json:"description" validate:"max=2000"`
	VideoURL        string  `json:"video_url" validate:"omitempty,url"`
	ThumbnailURL    string  `json:"thumbnail_url" validate:"omitempty,url"`
	SubtitleURL     string  `json:"subtitle_url" validate:"omitempty,url"`
	DurationSeconds float64 `json:"duration_seconds" validate:"gte=0"`
}

func (r CreateVideoRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateVideoRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	VideoURL        *string  `json:"video_url" validate:"omitempty,url"`
	ThumbnailURL    *string  `json:"thumbnail_url" validate:"omitempty,url"`
	SubtitleURL     *string  `json:"subtitle_url" validate:"omitempty,url"`
	DurationSeconds *float64 `json:"duration_seconds" validate:"omitempty,gte=0"`
	IsActive        *bool    `json:"is_active"`
}

func (r UpdateVideoRequest) Validate() error {
	return GetValidator().Struct(r)
}

type VideoResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	VideoURL         string    `json:"video_url"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	SubtitleURL      string    `json:"subtitle_url"`
	DurationSeconds  float64   `json:"duration_seconds"`
	IsActive         bool      `json:"is_active"`
	InteractionCount int       `json:"interaction_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type VideoListResponse struct {
	Videos []VideoResponse `json:"videos"`
	Total  int64           `json:"total"`
}

type OptionRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=500"`
	Correct  bool   `json:"is_correct"`
	Position int    `json:"position" validate:"gte=0"`
}

type CreateInteractionRequest struct {
	TypeCode       string          `json:"type" validate:"required"`
	Title          string          `json:"title" validate:"max=200"`
	Prompt         string          `json:"prompt" validate:"required,min=1,max=2000"`
	ActivationTime float64         `json:"activation_time_seconds" validate:"gte=0"`
	Mandatory      bool            `json:"is_mandatory"`
	Points         int             `json:"points" validate:"gte=0"`
	Options        []OptionRequest `json:"options" validate:"dive"`
}

func (r CreateInteractionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateInteractionRequest struct {
	Title          *string         `json:"title" validate:"omitempty,max=200"`
	Prompt         *string         `json:"prompt" validate:"omitempty,min=1,max=2000"`
	ActivationTime *float64        `json:"activation_time_seconds" validate:"omitempty,gte=0"`
	Mandatory      *bool           `json:"is_mandatory"`
	IsActive       *bool           `json:"is_active"`
	Points         *int            `json:"points" validate:"omitempty,gte=0"`
	Options        []OptionRequest `json:"options" validate:"omitempty,dive"`
}

func (r UpdateInteractionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type OptionResponse struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
	// Correct is populated for admin reads, and on the playback list only
	// for fill-in-blank options, where the flags define the blanks.
	Correct *bool `json:"is_correct,omitempty"`
}

type InteractionResponse struct {
	ID             string           `json:"id"`
	VideoID        string           `json:"video_id"`
	Type           string           `json:"type"`
	Title          string           `json:"title"`
	Prompt         string           `json:"prompt"`
	ActivationTime float64          `json:"activation_time_seconds"`
	Mandatory      bool             `json:"is_mandatory"`
	Active         bool             `json:"is_active"`
	Points         int              `json:"points"`
	Options        []OptionResponse `json:"options"`
}

type InteractionListResponse struct {
	Interactions []InteractionResponse `json:"interactions"`
}

type InteractionTypeResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
