package dto

// AnswerRequest carries the per-type answer payload. The respuesta field
// names are a wire contract with the playback clients.
type AnswerRequest struct {
	Respuesta               map[string]interface{} `json:"respuesta" validate:"required"`
	TiempoRespuestaSegundos float64                `json:"tiempo_respuesta_segundos" validate:"gte=0"`
}

func (r AnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

// Evaluacion is the grading verdict body.
type Evaluacion struct {
	EsCorrecta        bool     `json:"es_correcta"`
	Retroalimentacion string   `json:"retroalimentacion"`
	PuntosObtenidos   int      `json:"puntos_obtenidos"`
	NumeroIntento     int      `json:"numero_intento"`
	TiempoRetroceso   *float64 `json:"tiempo_retroceso,omitempty"`
}

// AnswerResponse wraps the verdict with the rewind directive.
type AnswerResponse struct {
	Evaluacion      Evaluacion `json:"evaluacion"`
	DebeRetroceder  bool       `json:"debe_retroceder"`
	TiempoRetroceso *float64   `json:"tiempo_retroceso,omitempty"`
}
