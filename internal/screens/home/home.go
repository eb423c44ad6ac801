// Package home is the main menu: one entry per bank plus the random quiz,
// statistics and history.
package home

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/config"
	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/screens/history"
	"github.com/abhisek/recall/internal/screens/quiz"
	statsscreen "github.com/abhisek/recall/internal/screens/stats"
	sess "github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/store"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/layout"
)

// Deps are the collaborators the menu hands to the screens it opens.
type Deps struct {
	Library  *bank.Library
	Events   store.EventRepo
	Progress *store.ProgressRepo
	Config   config.Config
	Logger   *slog.Logger
	Rng      *rand.Rand
	Now      func() time.Time
}

type progressLoadedMsg struct {
	Progress map[string]*store.Progress
	Err      error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	progress map[string]*store.Progress
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Rng == nil {
		deps.Rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if deps.Library == nil {
		deps.Library = bank.NewLibrary()
	}
	h := &HomeScreen{deps: deps}
	h.rebuildMenu()
	return h
}

// Init reloads saved progress. It runs again whenever a screen on top is
// popped, so scores stay current after a quiz.
func (h *HomeScreen) Init() tea.Cmd {
	repo := h.deps.Progress
	return func() tea.Msg {
		if repo == nil {
			return progressLoadedMsg{}
		}
		all, err := repo.All(context.Background())
		return progressLoadedMsg{Progress: all, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(progressLoadedMsg); ok {
		h.errMsg = ""
		if msg.Err != nil {
			h.deps.Logger.Error("load progress", "err", msg.Err)
			h.errMsg = "Could not load progress: " + msg.Err.Error()
		} else {
			h.progress = msg.Progress
		}
		h.rebuildMenu()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	questions := 0
	for _, b := range h.deps.Library.All() {
		questions += len(b.Questions)
	}
	attempts := 0
	for _, p := range h.progress {
		attempts += p.Attempts
	}
	sections = append(sections, renderStatsBar(h.deps.Library.Len(), questions, attempts, cw, compact))

	if h.errMsg != "" {
		sections = append(sections, renderError(h.errMsg, cw))
	}
	sections = append(sections, renderMenuBox(h.menu.View(), cw))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

// rebuildMenu lays out the menu from the library and loaded progress,
// keeping the cursor where it was.
func (h *HomeScreen) rebuildMenu() {
	var items []components.MenuItem
	for _, b := range h.deps.Library.All() {
		items = append(items, components.MenuItem{
			Label:  b.Title,
			Detail: h.bankDetail(b.ID, len(b.Questions)),
			Action: func() tea.Cmd { return h.startBank(b) },
		})
	}

	randomSize := h.deps.Config.RandomSize
	if randomSize <= 0 {
		randomSize = sess.DefaultRandomSize
	}
	items = append(items,
		components.MenuItem{
			Label:    fmt.Sprintf("Random Quiz (%d)", randomSize),
			Detail:   h.bankDetail(sess.RandomBankID, randomSize),
			Action:   h.startRandom,
			Disabled: h.deps.Library.Len() == 0,
		},
		components.MenuItem{Label: "Statistics", Action: h.openStats},
		components.MenuItem{Label: "History", Action: h.openHistory},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) bankDetail(id string, total int) string {
	p, ok := h.progress[id]
	if !ok || p.Attempts == 0 {
		return fmt.Sprintf("%d questions", total)
	}
	best := p.BestScore
	if p.Total > 0 {
		total = p.Total
	}
	pct := 0
	if total > 0 {
		pct = best * 100 / total
	}
	return fmt.Sprintf("best %d%% · %d plays", pct, p.Attempts)
}

func (h *HomeScreen) quizDeps(restart func() (*sess.Plan, error)) quiz.Deps {
	return quiz.Deps{
		Events:   h.deps.Events,
		Progress: h.deps.Progress,
		Logger:   h.deps.Logger,
		Rng:      h.deps.Rng,
		Now:      h.deps.Now,
		Restart:  restart,
	}
}

// BankPlanner returns a function that draws a fresh shuffled plan for b.
func BankPlanner(b *bank.Bank, preset string, rng *rand.Rand) func() (*sess.Plan, error) {
	return func() (*sess.Plan, error) {
		return sess.NewPlan(b, sess.Options{
			Shuffle:        true,
			ShuffleOptions: true,
			DefaultPreset:  preset,
		}, rng)
	}
}

// RandomPlanner returns a function that samples a fresh random plan.
func RandomPlanner(lib *bank.Library, n int, preset string, rng *rand.Rand) func() (*sess.Plan, error) {
	return func() (*sess.Plan, error) {
		return sess.RandomPlan(lib, n, preset, rng)
	}
}

func (h *HomeScreen) startBank(b *bank.Bank) tea.Cmd {
	return h.start(BankPlanner(b, h.deps.Config.Preset, h.deps.Rng))
}

func (h *HomeScreen) startRandom() tea.Cmd {
	return h.start(RandomPlanner(h.deps.Library, h.deps.Config.RandomSize, h.deps.Config.Preset, h.deps.Rng))
}

func (h *HomeScreen) start(planner func() (*sess.Plan, error)) tea.Cmd {
	plan, err := planner()
	if err != nil {
		h.deps.Logger.Error("build plan", "err", err)
		h.errMsg = err.Error()
		return nil
	}
	q := quiz.New(plan, h.quizDeps(planner))
	return func() tea.Msg { return router.PushScreenMsg{Screen: q} }
}

func (h *HomeScreen) openStats() tea.Cmd {
	s := statsscreen.New(statsscreen.Deps{
		Library:    h.deps.Library,
		Progress:   h.deps.Progress,
		Events:     h.deps.Events,
		RandomSize: h.deps.Config.RandomSize,
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	s := history.New(h.deps.Events, 0)
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}
