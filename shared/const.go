package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleUser  = "user"
	RoleAdmin = "admin"

	// Interaction type codes. These are part of the wire contract of the
	// grading endpoint, so they stay in Spanish like the verdict payload.
	InteractionTypeQuiz       = "cuestionario"
	InteractionTypePoll       = "sondeo"
	InteractionTypeVote       = "votacion"
	InteractionTypeSurvey     = "encuesta"
	InteractionTypeRating     = "valoracion"
	InteractionTypeFreeText   = "respuesta_abierta"
	InteractionTypeFillBlank  = "completar_espacios"
	InteractionTypeDragDrop   = "arrastrar_soltar"
	InteractionTypePointClick = "punto_click"
)

// InteractionTypeCodes lists every known type code in display order.
var InteractionTypeCodes = []string{
	InteractionTypeQuiz,
	InteractionTypePoll,
	InteractionTypeVote,
	InteractionTypeSurvey,
	InteractionTypeRating,
	InteractionTypeFreeText,
	InteractionTypeFillBlank,
	InteractionTypeDragDrop,
	InteractionTypePointClick,
}

func IsKnownInteractionType(code string) bool {
	for _, c := range InteractionTypeCodes {
		if c == code {
			return true
		}
	}
	return false
}
