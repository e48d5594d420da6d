package engine

import (
	"errors"
	"testing"
)

func TestNormalizeWrappedVerdict(t *testing.T) {
	body := []byte(`{
		"success": true,
		"data": {
			"evaluacion": {
				"es_correcta": true,
				"retroalimentacion": "¡Muy bien!",
				"puntos_obtenidos": 10,
				"numero_intento": 2
			},
			"debe_retroceder": false
		}
	}`)

	v, err := NormalizeVerdict(body)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if !v.IsCorrect || v.Points != 10 || v.Attempt != 2 {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Feedback != "¡Muy bien!" {
		t.Fatalf("unexpected feedback: %q", v.Feedback)
	}
	if v.MustRewind || v.RewindTarget != nil {
		t.Fatalf("correct verdict must not rewind: %+v", v)
	}
}

func TestNormalizeFlatVerdict(t *testing.T) {
	body := []byte(`{
		"evaluacion": {
			"es_correcta": false,
			"retroalimentacion": "Incorrecto",
			"puntos_obtenidos": 0,
			"tiempo_retroceso": 29.8
		},
		"debe_retroceder": true,
		"numero_intento": 1
	}`)

	v, err := NormalizeVerdict(body)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if v.IsCorrect {
		t.Fatal("expected incorrect verdict")
	}
	if !v.MustRewind {
		t.Fatal("expected rewind directive")
	}
	if v.RewindTarget == nil || *v.RewindTarget != 29.8 {
		t.Fatalf("expected rewind target 29.8, got %+v", v.RewindTarget)
	}
	if v.Attempt != 1 {
		t.Fatalf("attempt must fall back to the outer field, got %d", v.Attempt)
	}
}

func TestNormalizePrefersInnerRewindTime(t *testing.T) {
	body := []byte(`{
		"evaluacion": {"es_correcta": false, "tiempo_retroceso": 12.5},
		"tiempo_retroceso": 99
	}`)

	v, err := NormalizeVerdict(body)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if v.RewindTarget == nil || *v.RewindTarget != 12.5 {
		t.Fatalf("inner tiempo_retroceso must win, got %+v", v.RewindTarget)
	}
}

func TestNormalizeOuterRewindTimeFallback(t *testing.T) {
	body := []byte(`{
		"evaluacion": {"es_correcta": false},
		"tiempo_retroceso": 7
	}`)

	v, err := NormalizeVerdict(body)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if v.RewindTarget == nil || *v.RewindTarget != 7 {
		t.Fatalf("outer tiempo_retroceso must apply, got %+v", v.RewindTarget)
	}
	// An incorrect verdict with a target implies a rewind even without the
	// explicit flag.
	if !v.MustRewind {
		t.Fatal("expected implied rewind")
	}
}

func TestNormalizeMissingEvaluacion(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"success": true, "data": {"debe_retroceder": true}}`,
		`{"debe_retroceder": false}`,
	} {
		_, err := NormalizeVerdict([]byte(body))
		if !errors.Is(err, ErrMissingVerdict) {
			t.Errorf("%s: expected ErrMissingVerdict, got %v", body, err)
		}
	}
}

func TestNormalizeMalformedBody(t *testing.T) {
	_, err := NormalizeVerdict([]byte(`not json`))
	if err == nil {
		t.Fatal("expected a decode error")
	}
}
