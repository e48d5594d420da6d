package engine

import "time"

// Config holds the timing knobs of the gating engine. Zero values fall back
// to the defaults, so Config{} behaves like DefaultConfig().
type Config struct {
	// Tolerance is the half-width of the activation window in seconds:
	// an interaction at T activates when |currentTime - T| < Tolerance.
	Tolerance float64

	// MatchDebounce delays matcher evaluation after a time tick; a newer
	// tick cancels the pending evaluation so only the latest sample counts.
	MatchDebounce time.Duration

	// PauseSettle is the delay between matching and freezing the player,
	// giving the interaction UI time to render.
	PauseSettle time.Duration

	// FeedbackDuration is how long correct/incorrect feedback stays up
	// before the engine resumes or rewinds.
	FeedbackDuration time.Duration

	// ErrorFeedbackDuration is the longer display window used when the
	// submission itself failed (fail-open path).
	ErrorFeedbackDuration time.Duration

	// SeekSettle is the delay between seeking and resuming playback.
	SeekSettle time.Duration

	// MessageDuration is how long transient messages stay visible.
	MessageDuration time.Duration

	// RewindEpsilon is subtracted from the previous interaction's
	// activation time when computing a local rewind target.
	RewindEpsilon float64
}

func DefaultConfig() Config {
	return Config{
		Tolerance:             0.5,
		MatchDebounce:         100 * time.Millisecond,
		PauseSettle:           200 * time.Millisecond,
		FeedbackDuration:      3 * time.Second,
		ErrorFeedbackDuration: 4 * time.Second,
		SeekSettle:            500 * time.Millisecond,
		MessageDuration:       5 * time.Second,
		RewindEpsilon:         0.2,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Tolerance <= 0 {
		c.Tolerance = def.Tolerance
	}
	if c.MatchDebounce <= 0 {
		c.MatchDebounce = def.MatchDebounce
	}
	if c.PauseSettle <= 0 {
		c.PauseSettle = def.PauseSettle
	}
	if c.FeedbackDuration <= 0 {
		c.FeedbackDuration = def.FeedbackDuration
	}
	if c.ErrorFeedbackDuration <= 0 {
		c.ErrorFeedbackDuration = def.ErrorFeedbackDuration
	}
	if c.SeekSettle <= 0 {
		c.SeekSettle = def.SeekSettle
	}
	if c.MessageDuration <= 0 {
		c.MessageDuration = def.MessageDuration
	}
	if c.RewindEpsilon <= 0 {
		c.RewindEpsilon = def.RewindEpsilon
	}
	return c
}
