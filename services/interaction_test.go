package services

import (
	"testing"

	"github.com/bytedance/sonic"

	"github.com/vidgate-io/vidgate_api/engine"
	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

func TestPlaybackResponseStripsAnswerFlags(t *testing.T) {
	svc := &InteractionService{}
	it := &model.Interaction{
		ID:   "i1",
		Type: model.InteractionType{Code: shared.InteractionTypeQuiz},
		Options: []model.InteractionOption{
			{ID: "o1", Text: "a", IsCorrect: true},
			{ID: "o2", Text: "b"},
		},
	}

	resp := svc.toInteractionResponse(it, false)
	for _, opt := range resp.Options {
		if opt.Correct != nil {
			t.Fatalf("quiz option %s leaks is_correct on the playback list", opt.ID)
		}
	}

	admin := svc.toInteractionResponse(it, true)
	if admin.Options[0].Correct == nil || !*admin.Options[0].Correct {
		t.Fatal("admin read must expose is_correct")
	}
}

func TestPlaybackResponseKeepsFillBlankFlags(t *testing.T) {
	svc := &InteractionService{}
	it := &model.Interaction{
		ID:   "i1",
		Type: model.InteractionType{Code: shared.InteractionTypeFillBlank},
		Options: []model.InteractionOption{
			{ID: "o1", Text: "uno", IsCorrect: true, Position: 1},
			{ID: "o2", Text: "dos", IsCorrect: true, Position: 2},
			{ID: "o3", Text: "tres", Position: 0},
		},
	}

	resp := svc.toInteractionResponse(it, false)
	flagged := 0
	for _, opt := range resp.Options {
		if opt.Correct == nil {
			t.Fatalf("fill-blank option %s lost its flag on the playback list", opt.ID)
		}
		if *opt.Correct {
			flagged++
		}
	}
	if flagged != 2 {
		t.Fatalf("expected 2 blank-defining options, got %d", flagged)
	}
}

// The playback list is what the shipped client validates against, so a
// fill-blank draft with every blank selected has to pass the draft check
// after a JSON round trip of the playback response.
func TestFillBlankPlaybackListIsSubmittable(t *testing.T) {
	svc := &InteractionService{}
	it := &model.Interaction{
		ID:          "i1",
		IsMandatory: true,
		Type:        model.InteractionType{Code: shared.InteractionTypeFillBlank},
		Options: []model.InteractionOption{
			{ID: "o1", Text: "uno", IsCorrect: true, Position: 1},
			{ID: "o2", Text: "dos", IsCorrect: true, Position: 2},
			{ID: "o3", Text: "tres"},
		},
	}

	raw, err := sonic.Marshal(svc.toInteractionResponse(it, false))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var wire engine.Interaction
	if err := sonic.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	draft := engine.Draft{SelectedOptionIDs: []string{"o1", "o2"}}
	if !engine.ValidateDraft(wire, draft) {
		t.Fatal("a fully filled fill-blank draft must be submittable from the playback list")
	}
	if engine.ValidateDraft(wire, engine.Draft{SelectedOptionIDs: []string{"o1"}}) {
		t.Fatal("a half-filled fill-blank draft must stay blocked")
	}
}
