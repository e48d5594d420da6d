package engine

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Engine is the gate controller. It consumes playback samples, activates
// interactions, blocks forward progress while one is open, and resolves it
// through submission, skip, or rewind.
//
// All state lives behind one mutex; ticks, timer callbacks and submissions
// serialize on it, which gives the happens-before guarantee between a
// completion write and the next matcher evaluation. The OnStateChange and
// OnMessage callbacks run with the lock held and must not call back into
// the engine.
type Engine struct {
	cfg     Config
	backend Backend
	surface Surface
	sched   Scheduler
	now     func() time.Time

	mu          sync.Mutex
	closed      bool
	userID      string
	videoID     string
	state       State
	interaction []Interaction
	tracker     *Tracker
	active      *Interaction
	lastShownID string
	draft       Draft
	message     *Message
	activatedAt time.Time
	submitSeq   uint64

	debounceTimer Timer
	pauseTimer    Timer
	feedbackTimer Timer
	seekTimer     Timer
	messageTimer  Timer

	onState   func(State)
	onMessage func(Message)
}

func New(cfg Config, backend Backend, surface Surface) *Engine {
	return &Engine{
		cfg:     cfg.withDefaults(),
		backend: backend,
		surface: surface,
		sched:   realScheduler{},
		now:     time.Now,
		state:   StatePlaying,
		tracker: NewTracker(),
	}
}

// OnStateChange registers a state transition callback.
func (e *Engine) OnStateChange(fn func(State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onState = fn
}

// OnMessage registers a transient message callback.
func (e *Engine) OnMessage(fn func(Message)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onMessage = fn
}

// Start loads the interaction list and the user's progress for a viewing
// session. It must be called before time updates are fed in.
func (e *Engine) Start(ctx context.Context, userID, videoID string) error {
	interactions, err := e.backend.Interactions(ctx, videoID)
	if err != nil {
		return err
	}
	snapshot, err := e.backend.Progress(ctx, userID, videoID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	e.userID = userID
	e.videoID = videoID
	e.interaction = interactions
	e.tracker.Load(snapshot)
	e.setStateLocked(StatePlaying)
	return nil
}

// OnTimeUpdate feeds a playback sample into the engine. The media element
// drives the cadence; the engine only debounces and reacts.
func (e *Engine) OnTimeUpdate(currentTime float64, isPlaying bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	if isPlaying && e.state == StateResumed {
		e.setStateLocked(StatePlaying)
	}

	// A newer tick replaces any pending evaluation, so matches are always
	// judged against the freshest sample.
	stopTimer(&e.debounceTimer)
	if !isPlaying || e.active != nil || e.state != StatePlaying {
		return
	}

	t := currentTime
	e.debounceTimer = e.sched.AfterFunc(e.cfg.MatchDebounce, func() {
		e.evaluate(t)
	})
}

func (e *Engine) evaluate(currentTime float64) {
	e.mu.Lock()
	if e.closed || e.active != nil || e.state != StatePlaying {
		e.mu.Unlock()
		return
	}

	candidate := Match(e.interaction, currentTime, true, false, e.tracker.Has, e.lastShownID, e.cfg.Tolerance)
	if candidate == nil {
		e.mu.Unlock()
		return
	}
	userID, videoID := e.userID, e.videoID
	e.mu.Unlock()

	// Secondary gating check: the server may know about earlier mandatory
	// interactions this client skipped past (e.g. after a manual seek).
	result, err := e.backend.CanProceed(context.Background(), userID, videoID, currentTime)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.active != nil || e.state != StatePlaying {
		return
	}

	if err != nil {
		// The check is advisory; on error the match is honored.
		log.WithError(err).Warn("gating check failed, honoring match")
	} else if !result.CanProceed {
		e.postMessageLocked(MessageWarning, "Complete the earlier required interactions before continuing")
		e.rewindLocked(result.RewindTime)
		return
	}

	match := *candidate
	e.active = &match
	e.lastShownID = match.ID
	e.draft = Draft{}
	e.setStateLocked(StateInteractionPending)
	e.pauseTimer = e.sched.AfterFunc(e.cfg.PauseSettle, e.freeze)
}

// freeze completes the pending->active transition by pausing the player.
func (e *Engine) freeze() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.active == nil || e.state != StateInteractionPending {
		return
	}
	e.surface.Pause()
	e.activatedAt = e.now()
	e.setStateLocked(StateInteractionActive)
}

// SetDraft replaces the in-progress answer for the active interaction.
func (e *Engine) SetDraft(d Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.active == nil {
		return
	}
	e.draft = d
}

// Submit validates the draft and posts it for grading. A structurally
// invalid answer never reaches the network: it returns ErrIncompleteAnswer
// and the interaction stays active. Grading failures do not propagate; they
// become transient feedback and playback resumes (fail-open).
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if e.state != StateInteractionActive || e.active == nil {
		e.mu.Unlock()
		return ErrNoActiveInteraction
	}

	act := *e.active
	if !ValidateDraft(act, e.draft) {
		if act.Mandatory {
			e.postMessageLocked(MessageError, "Complete your answer before submitting")
		}
		e.mu.Unlock()
		return ErrIncompleteAnswer
	}

	sub := Submission{
		UserID:              e.userID,
		InteractionID:       act.ID,
		Payload:             BuildPayload(act.Type, e.draft),
		ResponseTimeSeconds: e.now().Sub(e.activatedAt).Seconds(),
	}
	e.submitSeq++
	seq := e.submitSeq
	e.setStateLocked(StateSubmitting)
	e.mu.Unlock()

	verdict, err := e.backend.SubmitAnswer(ctx, sub)

	e.mu.Lock()
	defer e.mu.Unlock()
	// A stale resolution (engine closed, session torn down, or superseded)
	// must not write into current state.
	if e.closed || e.submitSeq != seq || e.state != StateSubmitting || e.active == nil {
		return nil
	}

	go e.refreshProgress()

	if err != nil {
		log.WithError(err).Warn("answer submission failed")
		e.failOpenLocked(err.Error())
		return nil
	}

	if verdict.IsCorrect {
		// Synchronous write: the completion must be visible to the next
		// matcher evaluation, not queued behind it.
		e.tracker.MarkCompleted(act.ID, verdict.Points)
		e.setStateLocked(StateFeedbackCorrect)
		if verdict.Feedback != "" {
			e.postMessageLocked(MessageInfo, verdict.Feedback)
		}
		e.feedbackTimer = e.sched.AfterFunc(e.cfg.FeedbackDuration, e.resolveCorrect)
		return nil
	}

	e.setStateLocked(StateFeedbackIncorrect)
	if verdict.Feedback != "" {
		e.postMessageLocked(MessageError, verdict.Feedback)
	}
	mustRewind := act.Mandatory || verdict.MustRewind
	target := verdict.RewindTarget
	e.feedbackTimer = e.sched.AfterFunc(e.cfg.FeedbackDuration, func() {
		e.resolveIncorrect(act, mustRewind, target)
	})
	return nil
}

// failOpenLocked handles a failed or malformed submission: synthetic
// incorrect feedback with the error text, then resume without rewinding.
// Deliberately asymmetric from the graded-incorrect path; availability wins.
func (e *Engine) failOpenLocked(text string) {
	e.postMessageLocked(MessageError, text)
	e.setStateLocked(StateFeedbackIncorrect)
	e.feedbackTimer = e.sched.AfterFunc(e.cfg.ErrorFeedbackDuration, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || e.active == nil {
			return
		}
		// lastShownID stays set so the same position cannot instantly
		// re-trigger the interaction that just failed to grade.
		e.active = nil
		e.resumeLocked()
	})
}

func (e *Engine) resolveCorrect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.active == nil {
		return
	}
	e.active = nil
	e.lastShownID = ""
	e.resumeLocked()
}

func (e *Engine) resolveIncorrect(act Interaction, mustRewind bool, serverTarget *float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.active == nil {
		return
	}
	e.active = nil

	if !mustRewind {
		// Wrong but optional: no gate, keep going.
		e.resumeLocked()
		return
	}
	e.rewindLocked(e.rewindTarget(act, serverTarget))
}

// rewindTarget picks where an incorrect mandatory answer sends the user:
// the server-provided time when present, otherwise just before the nearest
// earlier active interaction, otherwise the start of the video.
func (e *Engine) rewindTarget(act Interaction, serverTarget *float64) float64 {
	if serverTarget != nil {
		return *serverTarget
	}

	prev := -1.0
	for i := range e.interaction {
		it := &e.interaction[i]
		if !it.Active || it.ID == act.ID {
			continue
		}
		if it.ActivationTime < act.ActivationTime && it.ActivationTime > prev {
			prev = it.ActivationTime
		}
	}
	if prev < 0 {
		return 0
	}
	target := prev - e.cfg.RewindEpsilon
	if target < 0 {
		return 0
	}
	return target
}

// rewindLocked seeks to target and resumes after the settle delay. The
// last-shown guard is cleared on every rewind path.
func (e *Engine) rewindLocked(target float64) {
	e.lastShownID = ""
	e.setStateLocked(StateRewinding)
	e.surface.Seek(target)
	e.seekTimer = e.sched.AfterFunc(e.cfg.SeekSettle, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return
		}
		e.resumeLocked()
	})
}

func (e *Engine) resumeLocked() {
	e.surface.Play()
	e.setStateLocked(StateResumed)
}

// Skip resolves the active interaction without an answer. Mandatory
// interactions cannot be skipped; the call is a silent no-op for them.
// Skips complete immediately and never touch the network.
func (e *Engine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.active == nil || e.active.Mandatory {
		return
	}

	stopTimer(&e.pauseTimer)
	stopTimer(&e.feedbackTimer)
	e.tracker.MarkSkipped(e.active.ID)
	e.active = nil
	e.lastShownID = ""
	e.resumeLocked()
}

// Reset clears completion state on the server and locally. When the server
// call fails the local set is still cleared, with a softer message.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	userID, videoID := e.userID, e.videoID
	e.mu.Unlock()

	err := e.backend.ResetProgress(ctx, userID, videoID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	e.tracker.Clear()
	e.lastShownID = ""
	if err != nil {
		log.WithError(err).Warn("server progress reset failed, cleared locally")
		e.postMessageLocked(MessageWarning, "Progress was reset on this device only")
		return nil
	}
	e.postMessageLocked(MessageInfo, "Progress reset")
	return nil
}

// refreshProgress reconciles the local completed set with the server after
// a submission.
func (e *Engine) refreshProgress() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	userID, videoID := e.userID, e.videoID
	e.mu.Unlock()

	snapshot, err := e.backend.Progress(context.Background(), userID, videoID)
	if err != nil {
		log.WithError(err).Debug("progress refresh failed")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.tracker.Load(snapshot)
	}
}

// Close cancels every pending timer and detaches the engine from further
// effects; in-flight submissions resolve into the void.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	stopTimer(&e.debounceTimer)
	stopTimer(&e.pauseTimer)
	stopTimer(&e.feedbackTimer)
	stopTimer(&e.seekTimer)
	stopTimer(&e.messageTimer)
}

// State returns the current gate state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ActiveInteraction returns a copy of the interaction awaiting an answer,
// or nil.
func (e *Engine) ActiveInteraction() *Interaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return nil
	}
	cp := *e.active
	return &cp
}

// Message returns the currently displayed transient message, or nil.
func (e *Engine) Message() *Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.message == nil {
		return nil
	}
	cp := *e.message
	return &cp
}

// Progress exposes the tracker for UI consumption.
func (e *Engine) Progress() *Tracker {
	return e.tracker
}

func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	e.state = s
	if e.onState != nil {
		e.onState(s)
	}
}

func (e *Engine) postMessageLocked(kind MessageKind, text string) {
	msg := Message{Kind: kind, Text: text}
	e.message = &msg
	if e.onMessage != nil {
		e.onMessage(msg)
	}
	stopTimer(&e.messageTimer)
	e.messageTimer = e.sched.AfterFunc(e.cfg.MessageDuration, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.message != nil && *e.message == msg {
			e.message = nil
		}
	})
}
