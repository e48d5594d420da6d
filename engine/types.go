// Package engine implements the interactive-video gating engine: it watches
// playback position, activates timed interactions inside a tolerance window,
// pauses the player while one is open, validates and submits answers, and
// either resumes or rewinds depending on the verdict.
//
// The engine is headless. The video player and the REST backend are injected
// through the Surface and Backend interfaces, so the same core drives a
// native player, a wrapped third-party player, or a test double.
package engine

import (
	"context"
	"encoding/json"
)

// Interaction is the engine's view of a timed prompt. It is decoupled from
// the storage model so the engine can be embedded without pulling in gorm.
type Interaction struct {
	ID             string   `json:"id"`
	VideoID        string   `json:"video_id"`
	Type           string   `json:"type"` // type code, see shared/const.go
	Prompt         string   `json:"prompt"`
	ActivationTime float64  `json:"activation_time_seconds"`
	Mandatory      bool     `json:"is_mandatory"`
	Active         bool     `json:"is_active"`
	Points         int      `json:"points"`
	Options        []Option `json:"options"`
}

// Option is one selectable answer of an interaction.
type Option struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Correct  bool   `json:"is_correct"`
	Position int    `json:"position"`
}

// Draft is the in-progress, unvalidated answer for the active interaction.
// Which fields matter depends on the interaction type.
type Draft struct {
	SelectedOptionIDs []string
	Text              string
	Rating            *int
	Opinion           string
	Raw               json.RawMessage // pass-through types (drag-drop, point-click)
}

// Submission is what gets posted to the grading endpoint.
type Submission struct {
	UserID              string
	InteractionID       string
	Payload             map[string]interface{}
	ResponseTimeSeconds float64
}

// Verdict is the normalized grading result. Both server envelope shapes
// collapse into this; nothing past the submitter boundary sees raw JSON.
type Verdict struct {
	IsCorrect    bool
	Feedback     string
	Points       int
	MustRewind   bool
	RewindTarget *float64
	Attempt      int
}

// ProgressItem reports the server-side completion state of one interaction.
type ProgressItem struct {
	InteractionID string `json:"interaction_id"`
	Completed     bool   `json:"completed"`
	IsCorrect     bool   `json:"is_correct"`
}

// ProgressStats aggregates completion for a user+video pair.
type ProgressStats struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Points    int `json:"points"`
}

// ProgressSnapshot is the server's view of a user's progress on a video.
type ProgressSnapshot struct {
	Items []ProgressItem `json:"items"`
	Stats ProgressStats  `json:"stats"`
}

// CanProceedResult is the gating check answer: whether playback may continue
// past the current position, and where to rewind to if not.
type CanProceedResult struct {
	CanProceed bool    `json:"can_proceed"`
	RewindTime float64 `json:"rewind_time"`
}

// Backend is the set of REST collaborators the engine depends on.
type Backend interface {
	Interactions(ctx context.Context, videoID string) ([]Interaction, error)
	Progress(ctx context.Context, userID, videoID string) (ProgressSnapshot, error)
	ResetProgress(ctx context.Context, userID, videoID string) error
	CanProceed(ctx context.Context, userID, videoID string, currentTime float64) (CanProceedResult, error)
	SubmitAnswer(ctx context.Context, sub Submission) (Verdict, error)
}

// Surface is the injected video player capability. The engine never assumes
// a concrete player implementation, only these operations.
type Surface interface {
	CurrentTime() float64
	Duration() float64
	Play()
	Pause()
	Seek(seconds float64)
}
