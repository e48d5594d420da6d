// Package client provides the HTTP implementation of engine.Backend against
// the vidgate API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/vidgate-io/vidgate_api/engine"
)

// Backend talks to the vidgate REST API. It implements engine.Backend.
type Backend struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Backend)

// WithHTTPClient overrides the underlying http.Client (timeouts, transport).
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) { b.http = c }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(b *Backend) { b.token = token }
}

func New(baseURL string, opts ...Option) *Backend {
	b := &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// apiEnvelope matches the server's shared.Response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (b *Backend) Interactions(ctx context.Context, videoID string) ([]engine.Interaction, error) {
	body, err := b.get(ctx, fmt.Sprintf("/api/v1/videos/%s/interactions", url.PathEscape(videoID)))
	if err != nil {
		return nil, err
	}

	var out struct {
		Interactions []engine.Interaction `json:"interactions"`
	}
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode interactions: %w", err)
	}
	return out.Interactions, nil
}

func (b *Backend) Progress(ctx context.Context, userID, videoID string) (engine.ProgressSnapshot, error) {
	body, err := b.get(ctx, fmt.Sprintf("/api/v1/videos/%s/progress", url.PathEscape(videoID)))
	if err != nil {
		return engine.ProgressSnapshot{}, err
	}

	var snap engine.ProgressSnapshot
	if err := sonic.Unmarshal(body, &snap); err != nil {
		return engine.ProgressSnapshot{}, fmt.Errorf("decode progress: %w", err)
	}
	return snap, nil
}

func (b *Backend) ResetProgress(ctx context.Context, userID, videoID string) error {
	_, err := b.post(ctx, fmt.Sprintf("/api/v1/videos/%s/progress/reset", url.PathEscape(videoID)), nil)
	return err
}

func (b *Backend) CanProceed(ctx context.Context, userID, videoID string, currentTime float64) (engine.CanProceedResult, error) {
	path := fmt.Sprintf("/api/v1/videos/%s/can-proceed?current_time=%.3f", url.PathEscape(videoID), currentTime)
	body, err := b.get(ctx, path)
	if err != nil {
		return engine.CanProceedResult{}, err
	}

	var res engine.CanProceedResult
	if err := sonic.Unmarshal(body, &res); err != nil {
		return engine.CanProceedResult{}, fmt.Errorf("decode gating result: %w", err)
	}
	return res, nil
}

func (b *Backend) SubmitAnswer(ctx context.Context, sub engine.Submission) (engine.Verdict, error) {
	payload := map[string]interface{}{
		"respuesta":                 sub.Payload,
		"tiempo_respuesta_segundos": sub.ResponseTimeSeconds,
	}
	raw, err := b.postRaw(ctx, fmt.Sprintf("/api/v1/interactions/%s/answer", url.PathEscape(sub.InteractionID)), payload)
	if err != nil {
		return engine.Verdict{}, err
	}
	// The raw body goes to the normalizer; both the wrapped and the flat
	// verdict shape are handled there.
	return engine.NormalizeVerdict(raw)
}

// ReportPlayback posts a playback heartbeat. Failures are the caller's to
// ignore; heartbeats are best effort.
func (b *Backend) ReportPlayback(ctx context.Context, videoID string, currentTime float64, isPlaying bool) error {
	_, err := b.post(ctx, fmt.Sprintf("/api/v1/videos/%s/playback", url.PathEscape(videoID)), map[string]interface{}{
		"current_time": currentTime,
		"is_playing":   isPlaying,
	})
	return err
}

func (b *Backend) get(ctx context.Context, path string) ([]byte, error) {
	raw, err := b.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return unwrap(raw)
}

func (b *Backend) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	raw, err := b.postRaw(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	return unwrap(raw)
}

func (b *Backend) postRaw(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := sonic.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	return b.do(ctx, http.MethodPost, path, body)
}

func (b *Backend) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(raw)}
	}
	return raw, nil
}

// unwrap extracts data from the server's response envelope; bodies without
// the wrapper pass through untouched.
func unwrap(raw []byte) ([]byte, error) {
	var env apiEnvelope
	if err := sonic.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data, nil
	}
	return raw, nil
}

func apiMessage(raw []byte) string {
	var env apiEnvelope
	if err := sonic.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return string(raw)
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}
