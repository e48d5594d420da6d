package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vidgate-io/vidgate_api/shared"
)

type fakeTimer struct {
	d       time.Duration
	fn      func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler collects timers and fires them on demand, keyed by delay.
// Every timer class in the engine uses a distinct delay, so firing by
// duration is unambiguous.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) fire(d time.Duration) int {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if t.d == d && !t.fired && !t.stopped {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

type fakeSurface struct {
	mu     sync.Mutex
	plays  int
	pauses int
	seeks  []float64
}

func (s *fakeSurface) CurrentTime() float64 { return 0 }
func (s *fakeSurface) Duration() float64    { return 120 }

func (s *fakeSurface) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
}

func (s *fakeSurface) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
}

func (s *fakeSurface) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeks = append(s.seeks, seconds)
}

func (s *fakeSurface) lastSeek() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.seeks) == 0 {
		return 0, false
	}
	return s.seeks[len(s.seeks)-1], true
}

type fakeBackend struct {
	mu            sync.Mutex
	interactions  []Interaction
	snapshot      ProgressSnapshot
	verdict       Verdict
	submitErr     error
	canProceed    CanProceedResult
	canProceedErr error
	submissions   []Submission
	resetErr      error
	resets        int
}

func (b *fakeBackend) Interactions(ctx context.Context, videoID string) ([]Interaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.interactions, nil
}

func (b *fakeBackend) Progress(ctx context.Context, userID, videoID string) (ProgressSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot, nil
}

func (b *fakeBackend) ResetProgress(ctx context.Context, userID, videoID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resets++
	return b.resetErr
}

func (b *fakeBackend) CanProceed(ctx context.Context, userID, videoID string, currentTime float64) (CanProceedResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canProceed, b.canProceedErr
}

func (b *fakeBackend) SubmitAnswer(ctx context.Context, sub Submission) (Verdict, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submissions = append(b.submissions, sub)
	return b.verdict, b.submitErr
}

func (b *fakeBackend) submitCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.submissions)
}

func quizAt(id string, at float64, mandatory bool) Interaction {
	return Interaction{
		ID:             id,
		VideoID:        "v1",
		Type:           shared.InteractionTypeQuiz,
		Prompt:         "pick one",
		ActivationTime: at,
		Mandatory:      mandatory,
		Active:         true,
		Points:         10,
		Options: []Option{
			{ID: id + "-a", Text: "right", Correct: true},
			{ID: id + "-b", Text: "wrong"},
		},
	}
}

func newTestEngine(t *testing.T, interactions ...Interaction) (*Engine, *fakeBackend, *fakeSurface, *fakeScheduler) {
	t.Helper()

	backend := &fakeBackend{
		interactions: interactions,
		canProceed:   CanProceedResult{CanProceed: true},
	}
	surface := &fakeSurface{}
	sched := &fakeScheduler{}

	e := New(DefaultConfig(), backend, surface)
	e.sched = sched
	e.now = func() time.Time { return time.Unix(1000, 0) }

	if err := e.Start(context.Background(), "u1", "v1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return e, backend, surface, sched
}

// activate drives the engine to INTERACTION_ACTIVE for a tick at the
// given time.
func activate(t *testing.T, e *Engine, sched *fakeScheduler, at float64) {
	t.Helper()

	e.OnTimeUpdate(at, true)
	if n := sched.fire(e.cfg.MatchDebounce); n != 1 {
		t.Fatalf("expected one pending evaluation, fired %d", n)
	}
	if got := e.State(); got != StateInteractionPending {
		t.Fatalf("expected INTERACTION_PENDING, got %s", got)
	}
	if n := sched.fire(e.cfg.PauseSettle); n != 1 {
		t.Fatalf("expected one pending freeze, fired %d", n)
	}
	if got := e.State(); got != StateInteractionActive {
		t.Fatalf("expected INTERACTION_ACTIVE, got %s", got)
	}
}

func TestActivationAndCorrectAnswer(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t, quizAt("i1", 10, true))

	activate(t, e, sched, 10.2)
	if surface.pauses != 1 {
		t.Fatalf("expected player paused once, got %d", surface.pauses)
	}

	backend.verdict = Verdict{IsCorrect: true, Points: 10, Feedback: "nice"}
	e.SetDraft(Draft{SelectedOptionIDs: []string{"i1-a"}})
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if got := e.State(); got != StateFeedbackCorrect {
		t.Fatalf("expected FEEDBACK_CORRECT, got %s", got)
	}
	if !e.Progress().Has("i1") {
		t.Fatal("expected completion recorded before resume")
	}
	if e.Progress().Points() != 10 {
		t.Fatalf("expected 10 points, got %d", e.Progress().Points())
	}

	sched.fire(e.cfg.FeedbackDuration)
	if got := e.State(); got != StateResumed {
		t.Fatalf("expected RESUMED, got %s", got)
	}
	if surface.plays != 1 {
		t.Fatalf("expected play called once, got %d", surface.plays)
	}
	if _, seeked := surface.lastSeek(); seeked {
		t.Fatal("correct answer must not rewind")
	}

	e.OnTimeUpdate(13.5, true)
	if got := e.State(); got != StatePlaying {
		t.Fatalf("expected PLAYING after next tick, got %s", got)
	}
}

func TestIncorrectMandatoryRewindsToPriorInteraction(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t,
		quizAt("i1", 30, true),
		quizAt("i2", 60, true),
	)
	e.tracker.MarkCompleted("i1", 10)

	activate(t, e, sched, 60.1)

	backend.verdict = Verdict{IsCorrect: false, Feedback: "nope"}
	e.SetDraft(Draft{SelectedOptionIDs: []string{"i2-b"}})
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got := e.State(); got != StateFeedbackIncorrect {
		t.Fatalf("expected FEEDBACK_INCORRECT, got %s", got)
	}

	sched.fire(e.cfg.FeedbackDuration)
	if got := e.State(); got != StateRewinding {
		t.Fatalf("expected REWINDING, got %s", got)
	}
	target, ok := surface.lastSeek()
	if !ok {
		t.Fatal("expected a seek")
	}
	if target != 29.8 {
		t.Fatalf("expected rewind to 29.8, got %v", target)
	}

	sched.fire(e.cfg.SeekSettle)
	if got := e.State(); got != StateResumed {
		t.Fatalf("expected RESUMED after seek settles, got %s", got)
	}
	if e.Progress().Has("i2") {
		t.Fatal("incorrect answer must not be recorded as completed")
	}
}

func TestServerRewindTargetWins(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t, quizAt("i1", 50, true))

	activate(t, e, sched, 50)

	target := 12.5
	backend.verdict = Verdict{IsCorrect: false, MustRewind: true, RewindTarget: &target}
	e.SetDraft(Draft{SelectedOptionIDs: []string{"i1-b"}})
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	sched.fire(e.cfg.FeedbackDuration)
	got, ok := surface.lastSeek()
	if !ok || got != 12.5 {
		t.Fatalf("expected seek to server target 12.5, got %v (seeked=%v)", got, ok)
	}
}

func TestRewindToStartWhenNoPriorInteraction(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t, quizAt("i1", 10, true))

	activate(t, e, sched, 10)

	backend.verdict = Verdict{IsCorrect: false}
	e.SetDraft(Draft{SelectedOptionIDs: []string{"i1-b"}})
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	sched.fire(e.cfg.FeedbackDuration)

	got, ok := surface.lastSeek()
	if !ok || got != 0 {
		t.Fatalf("expected rewind to 0, got %v (seeked=%v)", got, ok)
	}
}

func TestIncorrectNonMandatoryResumesWithoutRewind(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t, quizAt("i1", 10, false))

	activate(t, e, sched, 10)

	backend.verdict = Verdict{IsCorrect: false}
	e.SetDraft(Draft{SelectedOptionIDs: []string{"i1-b"}})
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	sched.fire(e.cfg.FeedbackDuration)

	if got := e.State(); got != StateResumed {
		t.Fatalf("expected RESUMED, got %s", got)
	}
	if _, seeked := surface.lastSeek(); seeked {
		t.Fatal("non-mandatory incorrect must not rewind")
	}

	// The same position must not instantly re-trigger the interaction.
	e.OnTimeUpdate(10.1, true)
	sched.fire(e.cfg.MatchDebounce)
	if got := e.State(); got != StatePlaying {
		t.Fatalf("expected PLAYING, got %s", got)
	}
}

func TestSkipNonMandatory(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t, quizAt("i1", 10, false))

	activate(t, e, sched, 10)

	e.Skip()
	if got := e.State(); got != StateResumed {
		t.Fatalf("expected RESUMED after skip, got %s", got)
	}
	if !e.Progress().Has("i1") {
		t.Fatal("skip must mark the interaction completed locally")
	}
	if e.Progress().Points() != 0 {
		t.Fatalf("skips must not earn points, got %d", e.Progress().Points())
	}
	if backend.submitCount() != 0 {
		t.Fatal("skip must not hit the grading endpoint")
	}
	if surface.plays != 1 {
		t.Fatalf("expected play called once, got %d", surface.plays)
	}
}

func TestSkipMandatoryIsNoop(t *testing.T) {
	e, _, _, sched := newTestEngine(t, quizAt("i1", 10, true))

	activate(t, e, sched, 10)

	e.Skip()
	if got := e.State(); got != StateInteractionActive {
		t.Fatalf("mandatory skip must be a no-op, got %s", got)
	}
	if e.Progress().Has("i1") {
		t.Fatal("mandatory skip must not record completion")
	}
}

func TestSubmitIncompleteAnswerStaysActive(t *testing.T) {
	e, backend, _, sched := newTestEngine(t, quizAt("i1", 10, true))

	activate(t, e, sched, 10)

	err := e.Submit(context.Background())
	if !errors.Is(err, ErrIncompleteAnswer) {
		t.Fatalf("expected ErrIncompleteAnswer, got %v", err)
	}
	if got := e.State(); got != StateInteractionActive {
		t.Fatalf("expected INTERACTION_ACTIVE, got %s", got)
	}
	if backend.submitCount() != 0 {
		t.Fatal("invalid draft must never reach the network")
	}
	if msg := e.Message(); msg == nil || msg.Kind != MessageError {
		t.Fatalf("expected an error message, got %+v", msg)
	}
}

func TestSubmissionFailureFailsOpen(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t, quizAt("i1", 10, true))

	activate(t, e, sched, 10)

	backend.submitErr = errors.New("boom")
	e.SetDraft(Draft{SelectedOptionIDs: []string{"i1-a"}})
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit must swallow grading errors, got %v", err)
	}

	if got := e.State(); got != StateFeedbackIncorrect {
		t.Fatalf("expected FEEDBACK_INCORRECT, got %s", got)
	}
	if e.Progress().Has("i1") {
		t.Fatal("failed submission must not record completion")
	}

	// Error feedback uses the longer window and resumes without a rewind.
	if n := sched.fire(e.cfg.FeedbackDuration); n != 0 {
		t.Fatalf("regular feedback timer must not be armed, fired %d", n)
	}
	sched.fire(e.cfg.ErrorFeedbackDuration)
	if got := e.State(); got != StateResumed {
		t.Fatalf("expected RESUMED, got %s", got)
	}
	if _, seeked := surface.lastSeek(); seeked {
		t.Fatal("fail-open must not rewind")
	}
}

func TestToleranceWindowBoundary(t *testing.T) {
	e, _, _, sched := newTestEngine(t, quizAt("i1", 10, true))

	e.OnTimeUpdate(10.6, true)
	sched.fire(e.cfg.MatchDebounce)
	if got := e.State(); got != StatePlaying {
		t.Fatalf("tick outside the window must not activate, got %s", got)
	}

	e.OnTimeUpdate(10.4, true)
	sched.fire(e.cfg.MatchDebounce)
	if got := e.State(); got != StateInteractionPending {
		t.Fatalf("tick inside the window must activate, got %s", got)
	}
}

func TestDebounceLatestTickWins(t *testing.T) {
	e, _, _, sched := newTestEngine(t, quizAt("i1", 10, true))

	e.OnTimeUpdate(10.1, true)
	e.OnTimeUpdate(20, true)
	if n := sched.fire(e.cfg.MatchDebounce); n != 1 {
		t.Fatalf("earlier tick must be cancelled, fired %d evaluations", n)
	}
	if got := e.State(); got != StatePlaying {
		t.Fatalf("stale tick must not activate, got %s", got)
	}
}

func TestPausedPlaybackNeverMatches(t *testing.T) {
	e, _, _, sched := newTestEngine(t, quizAt("i1", 10, true))

	e.OnTimeUpdate(10, false)
	if n := sched.fire(e.cfg.MatchDebounce); n != 0 {
		t.Fatalf("paused ticks must not schedule evaluations, fired %d", n)
	}
}

func TestCompletedInteractionNotReactivated(t *testing.T) {
	e, _, _, sched := newTestEngine(t, quizAt("i1", 10, true))
	e.tracker.MarkCompleted("i1", 10)

	e.OnTimeUpdate(10, true)
	sched.fire(e.cfg.MatchDebounce)
	if got := e.State(); got != StatePlaying {
		t.Fatalf("completed interaction must not reactivate, got %s", got)
	}
}

func TestOnlyOneInteractionActivatesPerTick(t *testing.T) {
	e, _, _, sched := newTestEngine(t,
		quizAt("i1", 10, true),
		quizAt("i2", 10.2, true),
	)

	activate(t, e, sched, 10.1)

	active := e.ActiveInteraction()
	if active == nil || active.ID != "i1" {
		t.Fatalf("expected earliest listed interaction to win, got %+v", active)
	}
}

func TestGateBlockForcesRewind(t *testing.T) {
	e, backend, surface, sched := newTestEngine(t,
		quizAt("i1", 5, true),
		quizAt("i2", 40, true),
	)
	backend.canProceed = CanProceedResult{CanProceed: false, RewindTime: 4.8}

	e.OnTimeUpdate(40, true)
	sched.fire(e.cfg.MatchDebounce)

	if got := e.State(); got != StateRewinding {
		t.Fatalf("expected REWINDING when the gate blocks, got %s", got)
	}
	got, ok := surface.lastSeek()
	if !ok || got != 4.8 {
		t.Fatalf("expected seek to 4.8, got %v (seeked=%v)", got, ok)
	}
	if msg := e.Message(); msg == nil || msg.Kind != MessageWarning {
		t.Fatalf("expected a warning message, got %+v", msg)
	}
	if e.ActiveInteraction() != nil {
		t.Fatal("blocked tick must not activate an interaction")
	}

	sched.fire(e.cfg.SeekSettle)
	if got := e.State(); got != StateResumed {
		t.Fatalf("expected RESUMED, got %s", got)
	}
}

func TestGateCheckErrorHonorsMatch(t *testing.T) {
	e, backend, _, sched := newTestEngine(t, quizAt("i1", 10, true))
	backend.canProceedErr = errors.New("gateway timeout")

	e.OnTimeUpdate(10, true)
	sched.fire(e.cfg.MatchDebounce)

	if got := e.State(); got != StateInteractionPending {
		t.Fatalf("gating errors are advisory; expected INTERACTION_PENDING, got %s", got)
	}
}

func TestResetClearsProgress(t *testing.T) {
	e, backend, _, sched := newTestEngine(t, quizAt("i1", 10, true))
	e.tracker.MarkCompleted("i1", 10)

	if err := e.Reset(context.Background()); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if backend.resets != 1 {
		t.Fatalf("expected one server reset, got %d", backend.resets)
	}
	if e.Progress().Has("i1") {
		t.Fatal("reset must clear local completions")
	}

	// The interaction becomes eligible again.
	e.OnTimeUpdate(10, true)
	sched.fire(e.cfg.MatchDebounce)
	if got := e.State(); got != StateInteractionPending {
		t.Fatalf("expected reactivation after reset, got %s", got)
	}
}

func TestResetServerFailureStillClearsLocally(t *testing.T) {
	e, backend, _, _ := newTestEngine(t, quizAt("i1", 10, true))
	backend.resetErr = errors.New("unavailable")
	e.tracker.MarkCompleted("i1", 10)

	if err := e.Reset(context.Background()); err != nil {
		t.Fatalf("reset must not propagate server errors, got %v", err)
	}
	if e.Progress().Has("i1") {
		t.Fatal("local progress must clear even when the server call fails")
	}
	if msg := e.Message(); msg == nil || msg.Kind != MessageWarning {
		t.Fatalf("expected a local-only warning, got %+v", msg)
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	e, _, _, sched := newTestEngine(t, quizAt("i1", 10, true))

	e.OnTimeUpdate(10, true)
	e.Close()

	if n := sched.fire(e.cfg.MatchDebounce); n != 0 {
		t.Fatalf("close must cancel the pending evaluation, fired %d", n)
	}
	if err := e.Submit(context.Background()); !errors.Is(err, ErrEngineClosed) {
		t.Fatalf("expected ErrEngineClosed, got %v", err)
	}
}

func TestStateCallbackOrder(t *testing.T) {
	e, backend, _, sched := newTestEngine(t, quizAt("i1", 10, true))

	var states []State
	e.OnStateChange(func(s State) { states = append(states, s) })

	activate(t, e, sched, 10)
	backend.verdict = Verdict{IsCorrect: true, Points: 10}
	e.SetDraft(Draft{SelectedOptionIDs: []string{"i1-a"}})
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	sched.fire(e.cfg.FeedbackDuration)

	want := []State{StateInteractionPending, StateInteractionActive, StateSubmitting, StateFeedbackCorrect, StateResumed}
	if len(states) != len(want) {
		t.Fatalf("expected %d transitions, got %v", len(want), states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("transition %d: expected %s, got %s", i, want[i], states[i])
		}
	}
}
