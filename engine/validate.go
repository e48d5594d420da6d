package engine

import (
	"strings"

	"github.com/vidgate-io/vidgate_api/shared"
)

// ValidateDraft reports whether a draft is structurally complete enough to
// submit. Correctness is the server's job; this only gates the submit action.
func ValidateDraft(it Interaction, d Draft) bool {
	switch it.Type {
	case shared.InteractionTypeQuiz, shared.InteractionTypePoll, shared.InteractionTypeVote:
		return len(d.SelectedOptionIDs) > 0

	case shared.InteractionTypeFreeText:
		return strings.TrimSpace(d.Text) != ""

	case shared.InteractionTypeSurvey:
		return d.Rating != nil || strings.TrimSpace(d.Opinion) != ""

	case shared.InteractionTypeRating:
		return len(d.SelectedOptionIDs) > 0

	case shared.InteractionTypeFillBlank:
		// Every blank must be filled: the selected set has to equal the
		// correct-option set exactly, both in size and membership.
		if len(d.SelectedOptionIDs) == 0 {
			return false
		}
		correct := make(map[string]bool)
		for _, opt := range it.Options {
			if opt.Correct {
				correct[opt.ID] = true
			}
		}
		if len(d.SelectedOptionIDs) != len(correct) {
			return false
		}
		seen := make(map[string]bool, len(d.SelectedOptionIDs))
		for _, id := range d.SelectedOptionIDs {
			if !correct[id] || seen[id] {
				return false
			}
			seen[id] = true
		}
		return true

	default:
		// Unknown or free-form types (drag-drop, point-click) pass through.
		return true
	}
}
