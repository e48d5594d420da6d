package engine

import (
	"encoding/json"
	"strings"

	"github.com/vidgate-io/vidgate_api/shared"
)

// BuildPayload shapes the draft into the grading endpoint's per-type answer
// payload. Field names are part of the wire contract.
func BuildPayload(typeCode string, d Draft) map[string]interface{} {
	switch typeCode {
	case shared.InteractionTypeQuiz,
		shared.InteractionTypePoll,
		shared.InteractionTypeVote,
		shared.InteractionTypeRating,
		shared.InteractionTypeFillBlank:
		ids := d.SelectedOptionIDs
		if ids == nil {
			ids = []string{}
		}
		return map[string]interface{}{"opciones_seleccionadas": ids}

	case shared.InteractionTypeFreeText:
		return map[string]interface{}{"texto": strings.TrimSpace(d.Text)}

	case shared.InteractionTypeSurvey:
		payload := map[string]interface{}{}
		if d.Rating != nil {
			payload["rating"] = *d.Rating
		}
		if opinion := strings.TrimSpace(d.Opinion); opinion != "" {
			payload["opinion"] = opinion
		}
		return payload

	default:
		if len(d.Raw) > 0 {
			var v interface{}
			if err := json.Unmarshal(d.Raw, &v); err == nil {
				return map[string]interface{}{"respuesta": v}
			}
		}
		return map[string]interface{}{}
	}
}
