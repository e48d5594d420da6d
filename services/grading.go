package services

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

// GradingService evaluates answer submissions and records attempts and
// completions. The response field names are a wire contract shared with
// the playback clients.
type GradingService struct {
	appContext.DefaultService

	sqlSvc *PostgresService
}

const GRADING_SVC = "grading_svc"

// rewindEpsilon is subtracted from the previous interaction's activation
// time so the rewound player lands inside its activation window.
const rewindEpsilon = 0.2

func (svc GradingService) Id() string {
	return GRADING_SVC
}

func (svc *GradingService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

func (svc *GradingService) SubmitAnswer(userID, interactionID string, req dto.AnswerRequest) (*dto.AnswerResponse, error) {
	it, err := svc.sqlSvc.GetInteraction(interactionID)
	if err != nil {
		return nil, err
	}
	if !it.IsActive {
		return nil, shared.NewBadRequestError(nil, "Interaction is not active")
	}

	attempts, err := svc.sqlSvc.CountAttempts(userID, interactionID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	attemptNumber := int(attempts) + 1

	correct, feedback := svc.grade(it, req.Respuesta)

	points := 0
	if correct {
		points = it.Points
	}

	rawAnswer, _ := json.Marshal(req.Respuesta)
	if err := svc.sqlSvc.CreateAttempt(&model.InteractionAttempt{
		UserID:              userID,
		InteractionID:       interactionID,
		AttemptNumber:       attemptNumber,
		Answer:              string(rawAnswer),
		IsCorrect:           correct,
		PointsEarned:        points,
		ResponseTimeSeconds: req.TiempoRespuestaSegundos,
	}); err != nil {
		return nil, err
	}

	if correct {
		if err := svc.sqlSvc.UpsertProgress(&model.InteractionProgress{
			UserID:        userID,
			VideoID:       it.VideoID,
			InteractionID: interactionID,
			IsCorrect:     true,
			PointsEarned:  points,
			CompletedAt:   time.Now(),
		}); err != nil {
			return nil, err
		}
	}

	RecordGradedAnswer(it.Type.Code, correct)

	resp := &dto.AnswerResponse{
		Evaluacion: dto.Evaluacion{
			EsCorrecta:        correct,
			Retroalimentacion: feedback,
			PuntosObtenidos:   points,
			NumeroIntento:     attemptNumber,
		},
	}

	if !correct && it.IsMandatory {
		target := svc.rewindTarget(it)
		resp.DebeRetroceder = true
		resp.TiempoRetroceso = &target
		resp.Evaluacion.TiempoRetroceso = &target
		RecordRewind()
	}

	log.WithFields(log.Fields{
		"user_id":        userID,
		"interaction_id": interactionID,
		"type":           it.Type.Code,
		"correct":        correct,
		"attempt":        attemptNumber,
	}).Info("Answer graded")

	return resp, nil
}

// Skip records a non-mandatory interaction as completed without grading.
func (svc *GradingService) Skip(userID, interactionID string) error {
	it, err := svc.sqlSvc.GetInteraction(interactionID)
	if err != nil {
		return err
	}
	if it.IsMandatory {
		return shared.NewBadRequestError(nil, "Mandatory interactions cannot be skipped")
	}

	return svc.sqlSvc.UpsertProgress(&model.InteractionProgress{
		UserID:        userID,
		VideoID:       it.VideoID,
		InteractionID: interactionID,
		Skipped:       true,
		CompletedAt:   time.Now(),
	})
}

// grade applies the per-type correctness rule and picks feedback text.
func (svc *GradingService) grade(it *model.Interaction, answer map[string]interface{}) (bool, string) {
	switch it.Type.Code {
	case shared.InteractionTypeQuiz, shared.InteractionTypeFillBlank:
		if svc.gradeSelections(it, answer) {
			return true, "¡Correcto! Muy bien."
		}
		return false, "Respuesta incorrecta. Inténtalo de nuevo."

	case shared.InteractionTypeFreeText:
		text, _ := answer["texto"].(string)
		return svc.gradeFreeText(it, text)

	case shared.InteractionTypePoll, shared.InteractionTypeVote, shared.InteractionTypeRating:
		// Opinion types have no wrong answer; any selection counts.
		if len(extractSelections(answer)) > 0 {
			return true, "Gracias por tu respuesta."
		}
		return false, "Selecciona una opción para continuar."

	case shared.InteractionTypeSurvey:
		_, hasRating := answer["rating"]
		opinion, _ := answer["opinion"].(string)
		if hasRating || strings.TrimSpace(opinion) != "" {
			return true, "Gracias por tu opinión."
		}
		return false, "Completa la encuesta para continuar."

	default:
		// Pass-through types (drag-drop, point-click) are recorded as
		// participation; client-side checking applies.
		return true, "Respuesta registrada."
	}
}

// gradeSelections compares the selected option set against the correct set;
// both must match exactly.
func (svc *GradingService) gradeSelections(it *model.Interaction, answer map[string]interface{}) bool {
	selected := extractSelections(answer)
	if len(selected) == 0 {
		return false
	}

	var correct []string
	for _, o := range it.Options {
		if o.IsCorrect {
			correct = append(correct, o.ID)
		}
	}
	if len(correct) == 0 {
		return false
	}

	selected = dedupe(selected)
	if len(selected) != len(correct) {
		return false
	}

	sort.Strings(selected)
	sort.Strings(correct)
	for i := range correct {
		if selected[i] != correct[i] {
			return false
		}
	}
	return true
}

func (svc *GradingService) gradeFreeText(it *model.Interaction, text string) (bool, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, "Escribe una respuesta para continuar."
	}

	// Free-text is graded against correct option texts when present,
	// otherwise any non-empty answer is accepted.
	hasKey := false
	for _, o := range it.Options {
		if !o.IsCorrect {
			continue
		}
		hasKey = true
		if strings.EqualFold(strings.TrimSpace(o.Text), text) {
			return true, "¡Correcto! Muy bien."
		}
	}
	if hasKey {
		return false, "Respuesta incorrecta. Inténtalo de nuevo."
	}
	return true, "Respuesta registrada."
}

// rewindTarget points just before the nearest earlier active interaction,
// or the start of the video when there is none.
func (svc *GradingService) rewindTarget(it *model.Interaction) float64 {
	siblings, err := svc.sqlSvc.ListInteractions(it.VideoID, true)
	if err != nil {
		return 0
	}

	prev := -1.0
	for _, s := range siblings {
		if s.ID == it.ID {
			continue
		}
		if s.ActivationTimeSeconds < it.ActivationTimeSeconds && s.ActivationTimeSeconds > prev {
			prev = s.ActivationTimeSeconds
		}
	}
	if prev < 0 {
		return 0
	}
	target := prev - rewindEpsilon
	if target < 0 {
		return 0
	}
	return target
}

func extractSelections(answer map[string]interface{}) []string {
	raw, ok := answer["opciones_seleccionadas"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
