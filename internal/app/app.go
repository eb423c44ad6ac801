// Package app is the root Bubble Tea model: a screen router framed by the
// shared header and footer.
package app

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/config"
	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/screens/home"
	"github.com/abhisek/recall/internal/screens/quiz"
	sess "github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/store"
	"github.com/abhisek/recall/internal/ui/layout"
)

// Options wires the TUI to its data.
type Options struct {
	Library  *bank.Library
	Events   store.EventRepo
	Progress *store.ProgressRepo
	Config   config.Config
	Logger   *slog.Logger
	Rng      *rand.Rand

	// StartBank opens a quiz on this bank right away. "random" starts a
	// random quiz.
	StartBank string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates the model with the home screen at the bottom of the
// stack and, when asked, a quiz on top of it.
func newAppModel(opts Options) (AppModel, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Library == nil {
		opts.Library = bank.NewLibrary()
	}
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	homeScreen := home.New(home.Deps{
		Library:  opts.Library,
		Events:   opts.Events,
		Progress: opts.Progress,
		Config:   opts.Config,
		Logger:   opts.Logger,
		Rng:      opts.Rng,
	})
	m := AppModel{router: router.New(homeScreen)}

	if opts.StartBank == "" {
		return m, nil
	}

	var planner func() (*sess.Plan, error)
	if opts.StartBank == sess.RandomBankID {
		planner = home.RandomPlanner(opts.Library, opts.Config.RandomSize, opts.Config.Preset, opts.Rng)
	} else {
		b, err := opts.Library.Get(opts.StartBank)
		if err != nil {
			return m, err
		}
		planner = home.BankPlanner(b, opts.Config.Preset, opts.Rng)
	}
	plan, err := planner()
	if err != nil {
		return m, fmt.Errorf("start %s: %w", opts.StartBank, err)
	}
	m.router.Push(quiz.New(plan, quiz.Deps{
		Events:   opts.Events,
		Progress: opts.Progress,
		Logger:   opts.Logger,
		Rng:      opts.Rng,
		Restart:  planner,
	}))
	return m, nil
}

func (m AppModel) Init() tea.Cmd {
	// With a quiz on top, home loads its progress once the quiz is popped.
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the whole frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, right := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			right = layout.ScoreBadge(sp.Status())
		}
	}

	header := layout.RenderHeader(title, right, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	model, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
