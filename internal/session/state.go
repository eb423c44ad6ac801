package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/recall/internal/answermatch"
	"github.com/abhisek/recall/internal/bank"
)

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseActive   SessionPhase = iota // Waiting for an answer
	PhaseFeedback                     // Showing the graded answer
	PhaseFinished                     // All done, summary pending
)

// Response is the recorded answer to one plan item.
type Response struct {
	Answer  bank.Answer
	Result  bank.Result
	At      time.Time
	Elapsed time.Duration
}

// SessionState tracks the runtime state of an active session.
type SessionState struct {
	// SessionID is the UUID for this session.
	SessionID string

	Plan *Plan

	// Current is the index of the displayed plan item.
	Current int

	// Responses holds one entry per plan item; nil until answered.
	Responses []*Response

	Score      int
	Streak     int
	BestStreak int

	Phase SessionPhase

	StartTime time.Time
	EndTime   time.Time

	// QuestionStartTime tracks when the current question was first displayed.
	QuestionStartTime time.Time

	matchers map[string]*answermatch.Matcher
}

// NewSessionState starts a session over plan.
func NewSessionState(plan *Plan, now time.Time) *SessionState {
	return &SessionState{
		SessionID:         uuid.New().String(),
		Plan:              plan,
		Responses:         make([]*Response, len(plan.Items)),
		Phase:             PhaseActive,
		StartTime:         now,
		QuestionStartTime: now,
		matchers:          make(map[string]*answermatch.Matcher),
	}
}

// matcherFor returns the matcher for a preset, falling back to the generic
// one for unknown names.
func (s *SessionState) matcherFor(preset string) *answermatch.Matcher {
	if m, ok := s.matchers[preset]; ok {
		return m
	}
	m, err := answermatch.ForPreset(preset)
	if err != nil {
		m = answermatch.Default()
	}
	s.matchers[preset] = m
	return m
}

// Total is the number of questions in the session.
func (s *SessionState) Total() int {
	return len(s.Plan.Items)
}

// Answered counts the questions that have a response.
func (s *SessionState) Answered() int {
	n := 0
	for _, r := range s.Responses {
		if r != nil {
			n++
		}
	}
	return n
}

// Elapsed is the time spent so far, or the full duration once finished.
func (s *SessionState) Elapsed(now time.Time) time.Duration {
	if !s.EndTime.IsZero() {
		return s.EndTime.Sub(s.StartTime)
	}
	return now.Sub(s.StartTime)
}
