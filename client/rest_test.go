package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidgate-io/vidgate_api/engine"
)

func TestInteractionsUnwrapsEnvelope(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/v1/videos/v1/interactions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"code": 200,
			"message": "Success",
			"data": {"interactions": [
				{"id": "i1", "type": "cuestionario", "activation_time_seconds": 10, "is_mandatory": true, "is_active": true}
			]}
		}`))
	}))
	defer srv.Close()

	b := New(srv.URL, WithToken("tok123"))
	got, err := b.Interactions(context.Background(), "v1")
	if err != nil {
		t.Fatalf("interactions failed: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if len(got) != 1 || got[0].ID != "i1" || got[0].ActivationTime != 10 || !got[0].Mandatory {
		t.Fatalf("unexpected interactions: %+v", got)
	}
}

func TestSubmitAnswerNormalizesBothShapes(t *testing.T) {
	bodies := map[string]string{
		"wrapped": `{"success": true, "data": {"evaluacion": {"es_correcta": true, "puntos_obtenidos": 10}}}`,
		"flat":    `{"evaluacion": {"es_correcta": true, "puntos_obtenidos": 10}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body))
			}))
			defer srv.Close()

			b := New(srv.URL)
			v, err := b.SubmitAnswer(context.Background(), engine.Submission{
				InteractionID: "i1",
				Payload:       map[string]interface{}{"opciones_seleccionadas": []string{"o1"}},
			})
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			if !v.IsCorrect || v.Points != 10 {
				t.Fatalf("unexpected verdict: %+v", v)
			}
		})
	}
}

func TestSubmitAnswerMissingVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"status": "ok"}}`))
	}))
	defer srv.Close()

	b := New(srv.URL)
	_, err := b.SubmitAnswer(context.Background(), engine.Submission{InteractionID: "i1"})
	if !errors.Is(err, engine.ErrMissingVerdict) {
		t.Fatalf("expected ErrMissingVerdict, got %v", err)
	}
}

func TestErrorResponsesBecomeAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "code": 404, "message": "Video not found"}`))
	}))
	defer srv.Close()

	b := New(srv.URL)
	_, err := b.Interactions(context.Background(), "nope")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Message != "Video not found" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestCanProceedQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("current_time"); got != "42.000" {
			t.Errorf("unexpected current_time: %q", got)
		}
		w.Write([]byte(`{"success": true, "data": {"can_proceed": false, "rewind_time": 4.8}}`))
	}))
	defer srv.Close()

	b := New(srv.URL)
	res, err := b.CanProceed(context.Background(), "u1", "v1", 42)
	if err != nil {
		t.Fatalf("can-proceed failed: %v", err)
	}
	if res.CanProceed || res.RewindTime != 4.8 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
