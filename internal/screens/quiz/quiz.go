// Package quiz is the screen that serves a session's questions, grades
// answers and hands the result to the summary screen.
package quiz

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/screens/summary"
	sess "github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/store"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/layout"
)

// Deps are the collaborators of a quiz. Events, Progress and Restart may
// be nil.
type Deps struct {
	Events   store.EventRepo
	Progress *store.ProgressRepo
	Logger   *slog.Logger
	Rng      *rand.Rand
	Now      func() time.Time

	// Restart builds the plan for "play again" on the summary screen.
	Restart func() (*sess.Plan, error)
}

// pairCursor is the selection state of a match-pairs question.
type pairCursor struct {
	column int // 0 = terms, 1 = definitions
	term   int
	def    int
	picked string
}

// QuizScreen implements screen.Screen for a running session.
type QuizScreen struct {
	state *sess.SessionState
	deps  Deps

	input   components.TextInput
	choices components.MultiChoice
	rounds  map[int]*sess.PairRound
	cursor  pairCursor

	confirmQuit bool
	notice      string
	noticeBad   bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New starts a session over plan.
func New(plan *sess.Plan, deps Deps) *QuizScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	s := &QuizScreen{
		state:  sess.NewSessionState(plan, deps.Now()),
		deps:   deps,
		rounds: make(map[int]*sess.PairRound),
	}
	s.setupQuestion()
	s.deps.Logger.Info("session started",
		"session", s.state.SessionID, "bank", plan.BankID, "questions", len(plan.Items))
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.activeKind() == bank.KindTypeIn {
		return s.input.Init()
	}
	return nil
}

func (s *QuizScreen) Title() string {
	return s.state.Plan.Title
}

func (s *QuizScreen) Status() (score, answered, streak int) {
	return s.state.Score, s.state.Answered(), s.state.Streak
}

func (s *QuizScreen) CapturesEscape() bool {
	return true
}

// State exposes the session for tests and the summary handoff.
func (s *QuizScreen) State() *sess.SessionState {
	return s.state
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.state.Phase == sess.PhaseFeedback {
		next := "Next"
		if sess.IsLast(s.state) {
			next = "Finish"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: next},
			{Key: "P", Description: "Previous"},
			{Key: "Esc", Description: "Quit"},
		}
	}

	switch s.activeKind() {
	case bank.KindTypeIn:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+N/P", Description: "Skip/Back"},
			{Key: "Esc", Description: "Quit"},
		}
	case bank.KindFindIncorrect:
		return []layout.KeyHint{
			{Key: "1-9/Space", Description: "Toggle"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case bank.KindMatchPairs:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Tab", Description: "Switch column"},
			{Key: "Enter", Description: "Pick"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-9", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		return s.handleKey(kmsg)
	}

	// Forward cursor blinks and the like to the input.
	if s.state.Phase == sess.PhaseActive && s.activeKind() == bank.KindTypeIn {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.state.Answered() == 0 {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.confirmQuit = true
		return s, nil
	}

	if s.state.Phase == sess.PhaseFeedback {
		switch key {
		case "enter", "n", "right", "l", "space", " ":
			return s, s.advance()
		case "p", "left", "h":
			return s, s.previous()
		}
		return s, nil
	}

	switch key {
	case "ctrl+n":
		return s, s.skip()
	case "ctrl+p":
		return s, s.previous()
	}

	switch s.activeKind() {
	case bank.KindTypeIn:
		return s.handleTypeIn(msg)
	case bank.KindMultipleChoice:
		return s.handleChoice(msg)
	case bank.KindFindIncorrect:
		return s.handleFindIncorrect(msg)
	case bank.KindMatchPairs:
		return s.handlePairs(key)
	}
	return s, nil
}

func (s *QuizScreen) handleTypeIn(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		if s.input.Value() == "" {
			return s, nil
		}
		s.submit(bank.Text(s.input.Value()))
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *QuizScreen) handleChoice(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "enter":
		s.submit(bank.Choice(s.choices.Selected))
		return s, nil
	case "n":
		return s, s.skip()
	case "p":
		return s, s.previous()
	}
	if i, ok := components.OptionIndex(key, len(s.choices.Options)); ok {
		s.choices.Selected = i
		s.submit(bank.Choice(i))
		return s, nil
	}
	s.choices, _ = s.choices.Update(msg)
	return s, nil
}

func (s *QuizScreen) handleFindIncorrect(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		chosen := s.choices.Chosen()
		if len(chosen) == 0 {
			s.setNotice("Mark at least one statement first.", true)
			return s, nil
		}
		s.submit(bank.Selection(chosen...))
		return s, nil
	case "n":
		return s, s.skip()
	case "p":
		return s, s.previous()
	}
	s.choices, _ = s.choices.Update(msg)
	return s, nil
}

func (s *QuizScreen) handlePairs(key string) (screen.Screen, tea.Cmd) {
	round := s.rounds[s.state.Current]
	if round == nil {
		return s, nil
	}
	c := &s.cursor

	switch key {
	case "up", "k":
		if c.column == 0 {
			c.term = max(c.term-1, 0)
		} else {
			c.def = max(c.def-1, 0)
		}
	case "down", "j":
		if c.column == 0 {
			c.term = min(c.term+1, len(round.Terms)-1)
		} else {
			c.def = min(c.def+1, len(round.Definitions)-1)
		}
	case "tab", "left", "right", "h", "l":
		c.column = 1 - c.column
	case "n":
		return s, s.skip()
	case "p":
		return s, s.previous()
	case "enter", "space", " ":
		if c.column == 0 {
			term := round.Terms[c.term]
			if round.TermMatched(term) {
				return s, nil
			}
			c.picked = term
			c.column = 1
			s.notice = ""
			return s, nil
		}
		if c.picked == "" {
			s.setNotice("Pick a term first.", true)
			return s, nil
		}
		def := round.Definitions[c.def]
		if round.DefinitionMatched(def) {
			return s, nil
		}
		if round.Try(c.picked, def) {
			s.setNotice("Matched!", false)
		} else {
			s.setNotice("Not a match, try again.", true)
		}
		c.picked = ""
		c.column = 0
		if round.Complete() {
			s.submit(round.Answer())
		}
	}
	return s, nil
}

func (s *QuizScreen) setNotice(text string, bad bool) {
	s.notice = text
	s.noticeBad = bad
}

// submit grades a and records it.
func (s *QuizScreen) submit(a bank.Answer) {
	item := sess.CurrentItem(s.state)
	if item == nil {
		return
	}
	res, err := sess.HandleAnswer(s.state, a, s.deps.Now())
	if err != nil {
		s.deps.Logger.Debug("answer ignored", "question", item.Question.ID, "err", err)
		return
	}
	resp := sess.CurrentResponse(s.state)

	s.deps.Logger.Debug("answer graded",
		"bank", item.BankID, "question", item.Question.ID,
		"correct", res.Correct, "tier", string(res.Tier))

	s.revealWidgets(&item.Question, resp)
	s.notice = ""

	if s.deps.Events == nil {
		return
	}
	err = s.deps.Events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:  s.state.SessionID,
		BankID:     item.BankID,
		QuestionID: item.Question.ID,
		Kind:       string(item.Question.Kind),
		Given:      bank.Describe(&item.Question, a),
		Expected:   res.Expected,
		Correct:    res.Correct,
		Tier:       string(res.Tier),
		TimeMs:     int(resp.Elapsed.Milliseconds()),
		At:         resp.At,
	})
	if err != nil {
		s.deps.Logger.Error("persist answer", "err", err)
	}
}

// advance moves on from a graded question, finishing after the last one.
func (s *QuizScreen) advance() tea.Cmd {
	if sess.IsLast(s.state) {
		return s.finish()
	}
	sess.Next(s.state, s.deps.Now())
	return s.setupQuestion()
}

// skip leaves the current question unanswered.
func (s *QuizScreen) skip() tea.Cmd {
	if !sess.Next(s.state, s.deps.Now()) {
		return nil
	}
	return s.setupQuestion()
}

func (s *QuizScreen) previous() tea.Cmd {
	if !sess.Previous(s.state, s.deps.Now()) {
		return nil
	}
	return s.setupQuestion()
}

// finish ends the session, saves the attempt and shows the summary.
func (s *QuizScreen) finish() tea.Cmd {
	now := s.deps.Now()
	sess.Finish(s.state, now)
	sum := sess.BuildSummary(s.state, now)
	s.persistAttempt(sum, now)

	s.deps.Logger.Info("session finished",
		"session", sum.SessionID, "bank", sum.BankID,
		"score", sum.Correct, "total", sum.Total, "duration", sum.Duration)

	next := summary.New(sum, s.restarter())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *QuizScreen) persistAttempt(sum *sess.SessionSummary, now time.Time) {
	ctx := context.Background()
	if s.deps.Progress != nil {
		_, err := s.deps.Progress.Record(ctx, sum.BankID, store.Attempt{
			Score:     sum.Correct,
			Completed: sum.Answered,
			Total:     sum.Total,
			At:        now,
		})
		if err != nil {
			s.deps.Logger.Error("save progress", "bank", sum.BankID, "err", err)
		}
	}
	if s.deps.Events != nil {
		err := s.deps.Events.AppendAttemptEvent(ctx, store.AttemptEventData{
			SessionID:    sum.SessionID,
			BankID:       sum.BankID,
			Title:        sum.Title,
			Score:        sum.Correct,
			Total:        sum.Total,
			Answered:     sum.Answered,
			DurationSecs: int(sum.Duration.Seconds()),
			BestStreak:   sum.BestStreak,
			At:           now,
		})
		if err != nil {
			s.deps.Logger.Error("persist attempt", "err", err)
		}
	}
}

// restarter returns the summary's "play again" hook, or nil.
func (s *QuizScreen) restarter() func() screen.Screen {
	if s.deps.Restart == nil {
		return nil
	}
	deps := s.deps
	return func() screen.Screen {
		plan, err := deps.Restart()
		if err != nil {
			deps.Logger.Error("restart session", "err", err)
			return nil
		}
		return New(plan, deps)
	}
}

func (s *QuizScreen) activeKind() bank.Kind {
	item := sess.CurrentItem(s.state)
	if item == nil {
		return ""
	}
	return item.Question.Kind
}

// setupQuestion prepares the widgets for the current question, restoring
// the graded state when it was already answered.
func (s *QuizScreen) setupQuestion() tea.Cmd {
	item := sess.CurrentItem(s.state)
	if item == nil {
		return nil
	}
	q := &item.Question
	s.notice = ""
	s.cursor = pairCursor{}

	switch q.Kind {
	case bank.KindTypeIn:
		s.input = components.NewTextInput("Type your answer...", 120)
	case bank.KindMultipleChoice:
		s.choices = components.NewMultiChoice(q.Options, false)
	case bank.KindFindIncorrect:
		s.choices = components.NewMultiChoice(q.Options, true)
	case bank.KindMatchPairs:
		if s.rounds[s.state.Current] == nil {
			s.rounds[s.state.Current] = sess.NewPairRound(q, s.deps.Rng)
		}
	}

	if resp := sess.CurrentResponse(s.state); resp != nil {
		s.revealWidgets(q, resp)
		return nil
	}
	if q.Kind == bank.KindTypeIn {
		return s.input.Init()
	}
	return nil
}

func (s *QuizScreen) revealWidgets(q *bank.Question, resp *sess.Response) {
	switch q.Kind {
	case bank.KindTypeIn:
		s.input.SetValue(resp.Answer.Text)
		s.input.Submit(resp.Result.Correct)
	case bank.KindMultipleChoice:
		if resp.Answer.Choice >= 0 && resp.Answer.Choice < len(q.Options) {
			s.choices.Selected = resp.Answer.Choice
		}
		s.choices.Reveal([]int{resp.Answer.Choice}, []int{q.AnswerIndex})
	case bank.KindFindIncorrect:
		s.choices.Reveal(resp.Answer.Selected, q.Incorrect)
	}
}
