package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/config"
	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screens/history"
	"github.com/abhisek/recall/internal/screens/quiz"
	"github.com/abhisek/recall/internal/store"
)

func testOptions() Options {
	return Options{
		Library: bank.NewLibrary(&bank.Bank{ID: "laws", Title: "UX Laws", Questions: []bank.Question{
			{ID: "l1", Kind: bank.KindTypeIn, Prompt: "More choices, slower decisions", Answer: "Hick's Law"},
		}}),
		Progress: store.NewProgressRepo(store.NewMemoryKV(), 0),
		Config:   config.DefaultConfig(),
	}
}

func TestNewAppModel_Home(t *testing.T) {
	m, err := newAppModel(testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if m.router.Depth() != 1 || m.router.Active().Title() != "Home" {
		t.Errorf("expected home screen only, depth %d", m.router.Depth())
	}
	if m.Init() == nil {
		t.Error("expected home to load progress on init")
	}
}

func TestNewAppModel_StartBank(t *testing.T) {
	opts := testOptions()
	opts.StartBank = "laws"
	m, err := newAppModel(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.router.Active().(*quiz.QuizScreen); !ok {
		t.Fatalf("expected quiz on top, got %T", m.router.Active())
	}

	opts.StartBank = "random"
	if _, err := newAppModel(opts); err != nil {
		t.Errorf("random start: %v", err)
	}

	opts.StartBank = "nope"
	if _, err := newAppModel(opts); err == nil {
		t.Error("expected error for unknown bank")
	}
}

func TestAppModel_EscapeGoesToQuiz(t *testing.T) {
	opts := testOptions()
	opts.StartBank = "laws"
	m, _ := newAppModel(opts)

	// Answer so the quiz asks for confirmation instead of leaving.
	for _, r := range "x" {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Fatal("app popped a quiz that handles escape itself")
		}
	}
	if !strings.Contains(m.router.View(100, 30), "End quiz") {
		t.Error("expected the quiz quit confirmation")
	}
}

func TestAppModel_EscapePopsPlainScreens(t *testing.T) {
	m, _ := newAppModel(testOptions())
	m.router.Push(history.New(nil, 0))

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestAppModel_ViewShowsScore(t *testing.T) {
	opts := testOptions()
	opts.StartBank = "laws"
	model, _ := newAppModel(opts)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m := updated.(AppModel)

	content := m.render()
	if !strings.Contains(content, "Recall") {
		t.Error("expected app name in header")
	}
	if !strings.Contains(content, "0/0") {
		t.Error("expected score badge in header")
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	model, _ := newAppModel(testOptions())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(updated.(AppModel).render(), "Terminal too small") {
		t.Error("expected min-size message")
	}
}
