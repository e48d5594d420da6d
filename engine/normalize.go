package engine

import (
	"encoding/json"
	"fmt"
)

type rawEvaluacion struct {
	EsCorrecta        bool     `json:"es_correcta"`
	Retroalimentacion string   `json:"retroalimentacion"`
	PuntosObtenidos   int      `json:"puntos_obtenidos"`
	NumeroIntento     int      `json:"numero_intento"`
	TiempoRetroceso   *float64 `json:"tiempo_retroceso"`
}

type rawVerdict struct {
	Evaluacion      *rawEvaluacion `json:"evaluacion"`
	DebeRetroceder  bool           `json:"debe_retroceder"`
	TiempoRetroceso *float64       `json:"tiempo_retroceso"`
	NumeroIntento   int            `json:"numero_intento"`
}

type verdictEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// NormalizeVerdict parses a grading response body into a Verdict. The
// backend answers either with a {success, data:{...}} wrapper or with the
// flat object; both collapse here and neither shape leaks past this point.
// A response with no evaluacion in either shape is a hard error.
func NormalizeVerdict(body []byte) (Verdict, error) {
	payload := body

	var env verdictEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil && len(env.Data) > 0 {
		payload = env.Data
	}

	var raw rawVerdict
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Verdict{}, fmt.Errorf("decode grading response: %w", err)
	}
	if raw.Evaluacion == nil {
		return Verdict{}, ErrMissingVerdict
	}

	v := Verdict{
		IsCorrect: raw.Evaluacion.EsCorrecta,
		Feedback:  raw.Evaluacion.Retroalimentacion,
		Points:    raw.Evaluacion.PuntosObtenidos,
		Attempt:   raw.Evaluacion.NumeroIntento,
	}
	if v.Attempt == 0 {
		v.Attempt = raw.NumeroIntento
	}

	// tiempo_retroceso shows up inside or beside evaluacion depending on
	// the backend version; prefer the inner one.
	switch {
	case raw.Evaluacion.TiempoRetroceso != nil:
		v.RewindTarget = raw.Evaluacion.TiempoRetroceso
	case raw.TiempoRetroceso != nil:
		v.RewindTarget = raw.TiempoRetroceso
	}
	v.MustRewind = raw.DebeRetroceder || (!v.IsCorrect && v.RewindTarget != nil)

	return v, nil
}
