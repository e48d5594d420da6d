package engine

import "math"

// Match selects the interaction to activate for a playback sample, or nil.
//
// An interaction is a candidate when playback is running, nothing is active,
// the interaction itself is active, the sample falls inside its tolerance
// window, it has not been completed, and it was not the most recently shown
// one (the last-shown guard stops an immediate re-trigger when a rewind
// lands back on the same timestamp). Candidates are taken in list order, so
// if two windows overlap only the earliest unshown one fires per tick.
func Match(interactions []Interaction, currentTime float64, isPlaying bool, hasActive bool, completed func(id string) bool, lastShownID string, tolerance float64) *Interaction {
	if !isPlaying || hasActive {
		return nil
	}

	for i := range interactions {
		it := &interactions[i]
		if !it.Active {
			continue
		}
		if math.Abs(currentTime-it.ActivationTime) >= tolerance {
			continue
		}
		if completed != nil && completed(it.ID) {
			continue
		}
		if it.ID == lastShownID {
			continue
		}
		return it
	}
	return nil
}
