package engine

import (
	"testing"

	"github.com/vidgate-io/vidgate_api/shared"
)

func interactionAt(id string, at float64) Interaction {
	return Interaction{ID: id, Type: shared.InteractionTypeQuiz, ActivationTime: at, Active: true}
}

func TestMatchWindow(t *testing.T) {
	list := []Interaction{interactionAt("i1", 10)}

	cases := []struct {
		name string
		time float64
		want bool
	}{
		{"well before", 9.0, false},
		{"just outside left", 9.5, false},
		{"inside left", 9.6, true},
		{"exact", 10.0, true},
		{"inside right", 10.4, true},
		{"just outside right", 10.5, false},
		{"well after", 11.0, false},
	}

	for _, tc := range cases {
		got := Match(list, tc.time, true, false, nil, "", 0.5)
		if (got != nil) != tc.want {
			t.Errorf("%s: t=%v matched=%v, want %v", tc.name, tc.time, got != nil, tc.want)
		}
	}
}

func TestMatchRequiresPlayback(t *testing.T) {
	list := []Interaction{interactionAt("i1", 10)}

	if Match(list, 10, false, false, nil, "", 0.5) != nil {
		t.Error("paused playback must not match")
	}
	if Match(list, 10, true, true, nil, "", 0.5) != nil {
		t.Error("an already-active interaction must block matching")
	}
}

func TestMatchSkipsInactiveAndCompleted(t *testing.T) {
	inactive := interactionAt("i1", 10)
	inactive.Active = false
	list := []Interaction{inactive, interactionAt("i2", 10)}

	got := Match(list, 10, true, false, nil, "", 0.5)
	if got == nil || got.ID != "i2" {
		t.Fatalf("expected i2 (i1 inactive), got %+v", got)
	}

	completed := func(id string) bool { return id == "i2" }
	if Match(list, 10, true, false, completed, "", 0.5) != nil {
		t.Error("completed interaction must not match")
	}
}

func TestMatchLastShownGuard(t *testing.T) {
	list := []Interaction{interactionAt("i1", 10)}

	if Match(list, 10, true, false, nil, "i1", 0.5) != nil {
		t.Error("last-shown interaction must not immediately re-match")
	}
	got := Match(list, 10, true, false, nil, "other", 0.5)
	if got == nil || got.ID != "i1" {
		t.Errorf("unrelated last-shown id must not block, got %+v", got)
	}
}

func TestMatchListOrderBreaksOverlap(t *testing.T) {
	list := []Interaction{interactionAt("i1", 10), interactionAt("i2", 10.2)}

	got := Match(list, 10.1, true, false, nil, "", 0.5)
	if got == nil || got.ID != "i1" {
		t.Fatalf("expected the first listed interaction, got %+v", got)
	}

	// With the first completed, the overlap falls through to the second.
	completed := func(id string) bool { return id == "i1" }
	got = Match(list, 10.1, true, false, completed, "", 0.5)
	if got == nil || got.ID != "i2" {
		t.Fatalf("expected i2 once i1 is completed, got %+v", got)
	}
}
