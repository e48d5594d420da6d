package engine

// State is the gate controller's position in the interaction lifecycle.
type State int

const (
	StatePlaying State = iota
	StateInteractionPending
	StateInteractionActive
	StateSubmitting
	StateFeedbackCorrect
	StateFeedbackIncorrect
	StateRewinding
	StateResumed
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "PLAYING"
	case StateInteractionPending:
		return "INTERACTION_PENDING"
	case StateInteractionActive:
		return "INTERACTION_ACTIVE"
	case StateSubmitting:
		return "SUBMITTING"
	case StateFeedbackCorrect:
		return "FEEDBACK_CORRECT"
	case StateFeedbackIncorrect:
		return "FEEDBACK_INCORRECT"
	case StateRewinding:
		return "REWINDING"
	case StateResumed:
		return "RESUMED"
	default:
		return "UNKNOWN"
	}
}

// MessageKind classifies a transient user-facing message.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageWarning
	MessageError
)

// Message is a transient notice surfaced by the engine; messages are
// auto-dismissed after Config.MessageDuration.
type Message struct {
	Kind MessageKind
	Text string
}
