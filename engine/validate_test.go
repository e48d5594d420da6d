package engine

import (
	"testing"

	"github.com/vidgate-io/vidgate_api/shared"
)

func TestValidateChoiceTypes(t *testing.T) {
	for _, code := range []string{shared.InteractionTypeQuiz, shared.InteractionTypePoll, shared.InteractionTypeVote, shared.InteractionTypeRating} {
		it := Interaction{Type: code}

		if ValidateDraft(it, Draft{}) {
			t.Errorf("%s: empty selection must be invalid", code)
		}
		if !ValidateDraft(it, Draft{SelectedOptionIDs: []string{"o1"}}) {
			t.Errorf("%s: a selection must be valid", code)
		}
	}
}

func TestValidateFreeText(t *testing.T) {
	it := Interaction{Type: shared.InteractionTypeFreeText}

	if ValidateDraft(it, Draft{Text: ""}) {
		t.Error("empty text must be invalid")
	}
	if ValidateDraft(it, Draft{Text: "   \t"}) {
		t.Error("whitespace-only text must be invalid")
	}
	if !ValidateDraft(it, Draft{Text: " hola "}) {
		t.Error("non-empty text must be valid")
	}
}

func TestValidateSurvey(t *testing.T) {
	it := Interaction{Type: shared.InteractionTypeSurvey}
	rating := 4

	if ValidateDraft(it, Draft{}) {
		t.Error("survey with neither rating nor opinion must be invalid")
	}
	if !ValidateDraft(it, Draft{Rating: &rating}) {
		t.Error("rating alone must be valid")
	}
	if !ValidateDraft(it, Draft{Opinion: "me gusta"}) {
		t.Error("opinion alone must be valid")
	}
}

func TestValidateFillBlank(t *testing.T) {
	it := Interaction{
		Type: shared.InteractionTypeFillBlank,
		Options: []Option{
			{ID: "b1", Correct: true},
			{ID: "b2", Correct: true},
			{ID: "d1"},
		},
	}

	if ValidateDraft(it, Draft{}) {
		t.Error("no blanks filled must be invalid")
	}
	if ValidateDraft(it, Draft{SelectedOptionIDs: []string{"b1"}}) {
		t.Error("partially filled blanks must be invalid")
	}
	if ValidateDraft(it, Draft{SelectedOptionIDs: []string{"b1", "b1"}}) {
		t.Error("duplicate selections must be invalid")
	}
	if ValidateDraft(it, Draft{SelectedOptionIDs: []string{"b1", "d1"}}) {
		t.Error("selecting a distractor must be invalid")
	}
	if !ValidateDraft(it, Draft{SelectedOptionIDs: []string{"b2", "b1"}}) {
		t.Error("all blanks filled must be valid regardless of order")
	}
}

func TestValidatePassThroughTypes(t *testing.T) {
	for _, code := range []string{shared.InteractionTypeDragDrop, shared.InteractionTypePointClick, "unknown_future_type"} {
		if !ValidateDraft(Interaction{Type: code}, Draft{}) {
			t.Errorf("%s: pass-through types must always validate", code)
		}
	}
}

func TestBuildPayloadShapes(t *testing.T) {
	p := BuildPayload(shared.InteractionTypeQuiz, Draft{SelectedOptionIDs: []string{"o1", "o2"}})
	ids, ok := p["opciones_seleccionadas"].([]string)
	if !ok || len(ids) != 2 {
		t.Fatalf("expected opciones_seleccionadas with 2 ids, got %+v", p)
	}

	p = BuildPayload(shared.InteractionTypeQuiz, Draft{})
	if ids, ok := p["opciones_seleccionadas"].([]string); !ok || ids == nil {
		t.Fatalf("empty selection must serialize as an empty array, got %+v", p)
	}

	p = BuildPayload(shared.InteractionTypeFreeText, Draft{Text: "  respuesta  "})
	if p["texto"] != "respuesta" {
		t.Fatalf("expected trimmed texto, got %+v", p)
	}

	rating := 5
	p = BuildPayload(shared.InteractionTypeSurvey, Draft{Rating: &rating, Opinion: "bien"})
	if p["rating"] != 5 || p["opinion"] != "bien" {
		t.Fatalf("expected rating and opinion, got %+v", p)
	}

	p = BuildPayload(shared.InteractionTypeSurvey, Draft{Opinion: "   "})
	if _, ok := p["opinion"]; ok {
		t.Fatalf("blank opinion must be omitted, got %+v", p)
	}

	p = BuildPayload(shared.InteractionTypeDragDrop, Draft{Raw: []byte(`{"x":1}`)})
	inner, ok := p["respuesta"].(map[string]interface{})
	if !ok || inner["x"] != float64(1) {
		t.Fatalf("expected raw payload under respuesta, got %+v", p)
	}
}
