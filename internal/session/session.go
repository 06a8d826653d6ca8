// Package session owns the live state of one training round.
package session

import (
	"fmt"

	"github.com/grandinquisitor/swipeback/internal/model"
	"github.com/grandinquisitor/swipeback/internal/scorer"
)

// State is the phase of the trial presentation machine.
type State int

// Machine states. A session moves Idle -> ShowingStimulus -> Gap ->
// ShowingStimulus ... -> Ended; Abort returns it to Idle from anywhere.
const (
	Idle State = iota
	ShowingStimulus
	Gap
	Ended
)

// String implements fmt.Stringer for State.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ShowingStimulus:
		return "showing"
	case Gap:
		return "gap"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session holds the trial plan, the player's responses, and the
// presentation state for one round. It owns both slices exclusively;
// they are discarded with the session once summarized into a result.
//
// Response compositing is additive and independent per channel: the
// position gesture marks position, the audio gesture marks audio, the
// both gesture marks both, and the clear gesture resets the trial's
// slot to unset. Repeating a gesture on the same channel is a no-op.
type Session struct {
	n         int
	seq       model.Sequence
	responses []model.Response

	state      State
	trial      int
	generation uint64
}

// New builds an idle session over a generated sequence.
func New(seq model.Sequence, n int) (*Session, error) {
	if n < model.MinLevel {
		return nil, fmt.Errorf("level must be >= %d, got %d", model.MinLevel, n)
	}
	if len(seq) <= n {
		return nil, fmt.Errorf("sequence of %d trials is too short for level %d", len(seq), n)
	}
	return &Session{
		n:         n,
		seq:       seq,
		responses: make([]model.Response, len(seq)),
		state:     Idle,
	}, nil
}

// Level returns the session's lag.
func (s *Session) Level() int { return s.n }

// Trials returns the planned trial count.
func (s *Session) Trials() int { return len(s.seq) }

// State returns the current machine state.
func (s *Session) State() State { return s.state }

// Trial returns the index of the trial being presented.
func (s *Session) Trial() int { return s.trial }

// Generation identifies the current scheduled transition. A scheduler
// embeds it in each pending callback and drops callbacks whose
// generation no longer matches, so an abort leaves nothing dangling.
func (s *Session) Generation() uint64 { return s.generation }

// Current returns the stimulus under presentation, if any.
func (s *Session) Current() (model.Stimulus, bool) {
	if s.state != ShowingStimulus && s.state != Gap {
		return model.Stimulus{}, false
	}
	return s.seq[s.trial], true
}

// Start presents the first trial. Only valid from Idle.
func (s *Session) Start() error {
	if s.state != Idle {
		return fmt.Errorf("cannot start session in state %s", s.state)
	}
	s.trial = 0
	s.responses = make([]model.Response, len(s.seq))
	s.state = ShowingStimulus
	s.generation++
	return nil
}

// Advance performs the single scheduled transition for the current
// state: stimulus -> gap, gap -> next stimulus or Ended.
func (s *Session) Advance() State {
	switch s.state {
	case ShowingStimulus:
		s.state = Gap
	case Gap:
		if s.trial+1 >= len(s.seq) {
			s.state = Ended
		} else {
			s.trial++
			s.state = ShowingStimulus
		}
	}
	s.generation++
	return s.state
}

// Abort cancels the round. Any transition scheduled before the abort
// is invalidated by the generation bump.
func (s *Session) Abort() {
	s.state = Idle
	s.trial = 0
	s.generation++
}

// MarkPosition records a position-match judgement for the current trial.
func (s *Session) MarkPosition() { s.mark(func(r *model.Response) { r.Position = model.MarkYes }) }

// MarkAudio records an audio-match judgement for the current trial.
func (s *Session) MarkAudio() { s.mark(func(r *model.Response) { r.Audio = model.MarkYes }) }

// MarkBoth records both judgements for the current trial.
func (s *Session) MarkBoth() {
	s.mark(func(r *model.Response) {
		r.Position = model.MarkYes
		r.Audio = model.MarkYes
	})
}

// ClearMarks resets the current trial's slot to unset.
func (s *Session) ClearMarks() { s.mark(func(r *model.Response) { *r = model.Response{} }) }

func (s *Session) mark(apply func(*model.Response)) {
	if s.state != ShowingStimulus && s.state != Gap {
		return
	}
	apply(&s.responses[s.trial])
}

// Response returns the recorded judgement for a trial index.
func (s *Session) Response(i int) model.Response {
	if i < 0 || i >= len(s.responses) {
		return model.Response{}
	}
	return s.responses[i]
}

// Result scores the completed round. Only valid once Ended.
func (s *Session) Result() (model.SessionResult, error) {
	if s.state != Ended {
		return model.SessionResult{}, fmt.Errorf("cannot score session in state %s", s.state)
	}
	return scorer.Score(s.seq, s.responses, s.n)
}
