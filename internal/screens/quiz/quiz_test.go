package quiz

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/screens/summary"
	sess "github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/store"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	answerEvents  []store.AnswerEventData
	attemptEvents []store.AttemptEventData
}

func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	m.answerEvents = append(m.answerEvents, data)
	return nil
}
func (m *mockEventRepo) AppendAttemptEvent(_ context.Context, data store.AttemptEventData) error {
	m.attemptEvents = append(m.attemptEvents, data)
	return nil
}
func (m *mockEventRepo) QueryAttempts(context.Context, store.QueryOpts) ([]store.AttemptRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QuestionStats(context.Context, string) ([]store.QuestionStat, error) {
	return nil, nil
}
func (m *mockEventRepo) DeleteBank(context.Context, string) error { return nil }
func (m *mockEventRepo) DeleteAll(context.Context) error          { return nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testBank() *bank.Bank {
	return &bank.Bank{
		ID:    "mixed",
		Title: "Mixed",
		Questions: []bank.Question{
			{ID: "t1", Kind: bank.KindTypeIn, Prompt: "Decision time grows with the number of choices.",
				Answer: "Hick's Law", Explanation: "See 'Hick's Law'."},
			{ID: "m1", Kind: bank.KindMultipleChoice, Prompt: "Pick b",
				Options: []string{"a", "b", "c"}, AnswerIndex: 1},
			{ID: "f1", Kind: bank.KindFindIncorrect, Prompt: "Find the wrong ones",
				Options: []string{"ok", "wrong", "ok", "wrong"}, Incorrect: []int{1, 3}},
			{ID: "p1", Kind: bank.KindMatchPairs, Prompt: "Match",
				Pairs: []bank.Pair{{Term: "Hick", Definition: "choices"}, {Term: "Fitts", Definition: "targets"}}},
		},
	}
}

type fixture struct {
	screen   *QuizScreen
	events   *mockEventRepo
	progress *store.ProgressRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	plan, err := sess.NewPlan(testBank(), sess.Options{}, nil)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	events := &mockEventRepo{}
	progress := store.NewProgressRepo(store.NewMemoryKV(), 0)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(plan, Deps{
		Events:   events,
		Progress: progress,
		Now: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
		Restart: func() (*sess.Plan, error) { return sess.NewPlan(testBank(), sess.Options{}, nil) },
	})
	return fixture{screen: s, events: events, progress: progress}
}

func update(s *QuizScreen, msg tea.Msg) tea.Cmd {
	_, cmd := s.Update(msg)
	return cmd
}

func typeText(s *QuizScreen, text string) {
	for _, r := range text {
		update(s, keyPress(r))
	}
}

func TestQuizScreen_TitleAndStatus(t *testing.T) {
	f := newFixture(t)
	if f.screen.Title() != "Mixed" {
		t.Errorf("Title = %q, want %q", f.screen.Title(), "Mixed")
	}
	score, answered, streak := f.screen.Status()
	if score != 0 || answered != 0 || streak != 0 {
		t.Errorf("Status = %d/%d/%d, want zeros", score, answered, streak)
	}
	if !f.screen.CapturesEscape() {
		t.Error("expected quiz to capture escape")
	}
}

func TestQuizScreen_TypeInFuzzyAnswer(t *testing.T) {
	f := newFixture(t)
	s := f.screen

	typeText(s, "hicks law")
	update(s, specialKey(tea.KeyEnter))

	if s.state.Phase != sess.PhaseFeedback {
		t.Fatalf("Phase = %v, want feedback", s.state.Phase)
	}
	if s.state.Score != 1 {
		t.Errorf("Score = %d, want 1", s.state.Score)
	}
	if len(f.events.answerEvents) != 1 {
		t.Fatalf("answer events = %d, want 1", len(f.events.answerEvents))
	}
	ev := f.events.answerEvents[0]
	if ev.QuestionID != "t1" || !ev.Correct || ev.BankID != "mixed" {
		t.Errorf("unexpected answer event %+v", ev)
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "Correct!") {
		t.Error("expected feedback in view")
	}
}

func TestQuizScreen_EmptyTypeInIgnored(t *testing.T) {
	f := newFixture(t)
	update(f.screen, specialKey(tea.KeyEnter))
	if f.screen.state.Phase != sess.PhaseActive {
		t.Error("expected blank answer to be ignored")
	}
}

func TestQuizScreen_MultipleChoiceByNumber(t *testing.T) {
	f := newFixture(t)
	s := f.screen
	update(s, tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	if s.state.Current != 1 {
		t.Fatalf("Current = %d, want 1 after skipping", s.state.Current)
	}

	update(s, keyPress('2'))
	if !s.state.Responses[1].Result.Correct {
		t.Error("expected option 2 to be correct")
	}
}

func TestQuizScreen_FindIncorrect(t *testing.T) {
	f := newFixture(t)
	s := f.screen
	s.state.Current = 2
	s.setupQuestion()

	update(s, specialKey(tea.KeyEnter))
	if s.state.Phase != sess.PhaseActive {
		t.Fatal("expected submit with nothing marked to be refused")
	}

	update(s, keyPress('2'))
	update(s, keyPress('4'))
	update(s, specialKey(tea.KeyEnter))
	if resp := s.state.Responses[2]; resp == nil || !resp.Result.Correct {
		t.Errorf("expected find-incorrect answer to be correct, got %+v", resp)
	}
}

func TestQuizScreen_MatchPairs(t *testing.T) {
	f := newFixture(t)
	s := f.screen
	s.state.Current = 3
	s.setupQuestion()

	round := s.rounds[3]
	pick := func(term, def string) {
		for i, v := range round.Terms {
			if v == term {
				s.cursor.term = i
			}
		}
		update(s, specialKey(tea.KeyEnter))
		for i, v := range round.Definitions {
			if v == def {
				s.cursor.def = i
			}
		}
		update(s, specialKey(tea.KeyEnter))
	}

	pick("Hick", "targets")
	if round.Mistakes != 1 {
		t.Errorf("Mistakes = %d, want 1", round.Mistakes)
	}
	pick("Hick", "choices")
	pick("Fitts", "targets")

	resp := s.state.Responses[3]
	if resp == nil {
		t.Fatal("expected the round to submit once complete")
	}
	if resp.Result.Correct {
		t.Error("a round with a mistake should not grade as correct")
	}
}

func TestQuizScreen_FinishPersistsAndShowsSummary(t *testing.T) {
	f := newFixture(t)
	s := f.screen

	typeText(s, "Hick's Law")
	update(s, specialKey(tea.KeyEnter))
	update(s, specialKey(tea.KeyEnter)) // next
	update(s, keyPress('1'))            // wrong

	update(s, specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	cmd := update(s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after confirming")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	if len(f.events.attemptEvents) != 1 {
		t.Fatalf("attempt events = %d, want 1", len(f.events.attemptEvents))
	}
	at := f.events.attemptEvents[0]
	if at.Score != 1 || at.Total != 4 || at.Answered != 2 {
		t.Errorf("attempt = %+v", at)
	}

	p, err := f.progress.Get(context.Background(), "mixed")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Score != 1 || p.Attempts != 1 || p.Completed != 2 {
		t.Errorf("progress = %+v", p)
	}
}

func TestQuizScreen_EscWithoutAnswersPops(t *testing.T) {
	f := newFixture(t)
	cmd := update(f.screen, specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg when nothing was answered")
	}
	if len(f.events.attemptEvents) != 0 {
		t.Error("expected no attempt to be recorded")
	}
}

func TestQuizScreen_PreviousRestoresFeedback(t *testing.T) {
	f := newFixture(t)
	s := f.screen

	typeText(s, "wrong")
	update(s, specialKey(tea.KeyEnter))
	update(s, keyPress('n'))
	if s.state.Current != 1 {
		t.Fatalf("Current = %d, want 1", s.state.Current)
	}
	update(s, keyPress('p'))
	if s.state.Current != 0 || s.state.Phase != sess.PhaseFeedback {
		t.Errorf("expected to be back on graded question, got %d/%v", s.state.Current, s.state.Phase)
	}
	if s.input.Value() != "wrong" || !s.input.Submitted() {
		t.Error("expected the given answer to be restored")
	}
}

func TestQuizScreen_RestartBuildsNewQuiz(t *testing.T) {
	f := newFixture(t)
	restart := f.screen.restarter()
	if restart == nil {
		t.Fatal("expected restart hook")
	}
	next := restart()
	if _, ok := next.(*QuizScreen); !ok {
		t.Fatalf("restart returned %T", next)
	}
	if next.(*QuizScreen).state.SessionID == f.screen.state.SessionID {
		t.Error("expected a new session")
	}
}

func TestQuizScreen_KeyHintsAndViews(t *testing.T) {
	f := newFixture(t)
	s := f.screen
	for i := range s.state.Plan.Items {
		s.state.Current = i
		s.setupQuestion()
		if len(s.KeyHints()) == 0 {
			t.Errorf("question %d: expected key hints", i)
		}
		if s.View(100, 30) == "" {
			t.Errorf("question %d: empty view", i)
		}
	}
	var _ screen.Screen = s
}
