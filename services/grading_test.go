package services

import (
	"testing"

	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

func quizInteraction(typeCode string, options ...model.InteractionOption) *model.Interaction {
	return &model.Interaction{
		ID:      "i1",
		VideoID: "v1",
		Type:    model.InteractionType{Code: typeCode},
		Options: options,
	}
}

func TestGradeQuizExactMatch(t *testing.T) {
	svc := &GradingService{}
	it := quizInteraction(shared.InteractionTypeQuiz,
		model.InteractionOption{ID: "o1", IsCorrect: true},
		model.InteractionOption{ID: "o2", IsCorrect: true},
		model.InteractionOption{ID: "o3"},
	)

	cases := []struct {
		name     string
		selected []interface{}
		want     bool
	}{
		{"all correct", []interface{}{"o1", "o2"}, true},
		{"order irrelevant", []interface{}{"o2", "o1"}, true},
		{"duplicates collapse", []interface{}{"o1", "o1", "o2"}, true},
		{"partial", []interface{}{"o1"}, false},
		{"extra wrong", []interface{}{"o1", "o2", "o3"}, false},
		{"only wrong", []interface{}{"o3"}, false},
		{"empty", []interface{}{}, false},
	}

	for _, tc := range cases {
		correct, _ := svc.grade(it, map[string]interface{}{"opciones_seleccionadas": tc.selected})
		if correct != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, correct, tc.want)
		}
	}
}

func TestGradeQuizWithoutAnswerKey(t *testing.T) {
	svc := &GradingService{}
	it := quizInteraction(shared.InteractionTypeQuiz, model.InteractionOption{ID: "o1"})

	correct, _ := svc.grade(it, map[string]interface{}{"opciones_seleccionadas": []interface{}{"o1"}})
	if correct {
		t.Error("a quiz without any correct option must never grade correct")
	}
}

func TestGradeOpinionTypes(t *testing.T) {
	svc := &GradingService{}

	for _, code := range []string{shared.InteractionTypePoll, shared.InteractionTypeVote, shared.InteractionTypeRating} {
		it := quizInteraction(code, model.InteractionOption{ID: "o1"})

		correct, _ := svc.grade(it, map[string]interface{}{"opciones_seleccionadas": []interface{}{"o1"}})
		if !correct {
			t.Errorf("%s: any selection must count", code)
		}
		correct, _ = svc.grade(it, map[string]interface{}{})
		if correct {
			t.Errorf("%s: empty selection must not count", code)
		}
	}
}

func TestGradeSurvey(t *testing.T) {
	svc := &GradingService{}
	it := quizInteraction(shared.InteractionTypeSurvey)

	if correct, _ := svc.grade(it, map[string]interface{}{"rating": float64(4)}); !correct {
		t.Error("rating alone must count")
	}
	if correct, _ := svc.grade(it, map[string]interface{}{"opinion": "me gustó"}); !correct {
		t.Error("opinion alone must count")
	}
	if correct, _ := svc.grade(it, map[string]interface{}{"opinion": "   "}); correct {
		t.Error("blank opinion must not count")
	}
	if correct, _ := svc.grade(it, map[string]interface{}{}); correct {
		t.Error("empty survey must not count")
	}
}

func TestGradeFreeText(t *testing.T) {
	svc := &GradingService{}

	keyed := quizInteraction(shared.InteractionTypeFreeText,
		model.InteractionOption{ID: "o1", Text: "Madrid", IsCorrect: true},
	)
	if correct, _ := svc.grade(keyed, map[string]interface{}{"texto": "  madrid  "}); !correct {
		t.Error("keyed free-text must match case-insensitively with trimming")
	}
	if correct, _ := svc.grade(keyed, map[string]interface{}{"texto": "Barcelona"}); correct {
		t.Error("keyed free-text must reject non-matching answers")
	}
	if correct, _ := svc.grade(keyed, map[string]interface{}{"texto": ""}); correct {
		t.Error("empty text must be rejected")
	}

	open := quizInteraction(shared.InteractionTypeFreeText)
	if correct, _ := svc.grade(open, map[string]interface{}{"texto": "cualquier cosa"}); !correct {
		t.Error("unkeyed free-text must accept any non-empty answer")
	}
}

func TestGradePassThroughTypes(t *testing.T) {
	svc := &GradingService{}

	for _, code := range []string{shared.InteractionTypeDragDrop, shared.InteractionTypePointClick} {
		it := quizInteraction(code)
		if correct, _ := svc.grade(it, map[string]interface{}{}); !correct {
			t.Errorf("%s: pass-through types record participation as correct", code)
		}
	}
}

func TestExtractSelections(t *testing.T) {
	got := extractSelections(map[string]interface{}{
		"opciones_seleccionadas": []interface{}{"a", "b", 3},
	})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("non-string entries must be dropped, got %v", got)
	}

	if got := extractSelections(map[string]interface{}{}); got != nil {
		t.Fatalf("missing key must yield nil, got %v", got)
	}
	if got := extractSelections(map[string]interface{}{"opciones_seleccionadas": "o1"}); got != nil {
		t.Fatalf("non-array value must yield nil, got %v", got)
	}
}
