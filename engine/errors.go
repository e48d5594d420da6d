package engine

import "errors"

var (
	// ErrMissingVerdict means the grading endpoint answered without an
	// evaluacion block in either envelope shape.
	ErrMissingVerdict = errors.New("grading response contains no verdict")

	// ErrIncompleteAnswer means the draft failed structural validation
	// for the active interaction's type.
	ErrIncompleteAnswer = errors.New("answer is incomplete")

	// ErrNoActiveInteraction means Submit/Skip was called while nothing
	// was awaiting an answer.
	ErrNoActiveInteraction = errors.New("no active interaction")

	// ErrEngineClosed means the engine was shut down.
	ErrEngineClosed = errors.New("engine closed")
)
