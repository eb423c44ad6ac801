// Package stats is the statistics screen: per-bank progress and the
// questions that need more practice.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	st "github.com/abhisek/recall/internal/stats"
	"github.com/abhisek/recall/internal/store"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/layout"
	"github.com/abhisek/recall/internal/ui/theme"
)

// WeakCount is the number of weak questions listed.
const WeakCount = 5

// Deps are the data sources of the screen. Events may be nil.
type Deps struct {
	Library    *bank.Library
	Progress   *store.ProgressRepo
	Events     store.EventRepo
	RandomSize int
}

type statsLoadedMsg struct {
	Report st.Report
	Weak   []st.WeakQuestion
	Err    error
}

// StatsScreen shows the overview report.
type StatsScreen struct {
	deps   Deps
	report st.Report
	weak   []st.WeakQuestion
	loaded bool
	errMsg string
	scroll int
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a new StatsScreen.
func New(deps Deps) *StatsScreen {
	return &StatsScreen{deps: deps}
}

func (s *StatsScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()

		progress := map[string]*store.Progress{}
		if deps.Progress != nil {
			all, err := deps.Progress.All(ctx)
			if err != nil {
				return statsLoadedMsg{Err: err}
			}
			progress = all
		}
		msg := statsLoadedMsg{Report: st.Overview(deps.Library, progress, deps.RandomSize)}

		if deps.Events != nil {
			qs, err := deps.Events.QuestionStats(ctx, "")
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Weak = st.Weakest(qs, WeakCount)
		}
		return msg
	}
}

func (s *StatsScreen) Title() string {
	return "Statistics"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.loaded = true
		s.report = msg.Report
		s.weak = msg.Weak
		s.errMsg = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.scroll = max(s.scroll-1, 0)
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Crunching numbers...")
	}

	cw := min(width-4, 90)
	var lines []string

	if s.errMsg != "" {
		lines = append(lines, theme.Incorrect.Render("Error: "+s.errMsg), "")
	}

	rep := s.report
	lines = append(lines,
		theme.Title.Render("Overview"),
		theme.Muted.Render(fmt.Sprintf("%d attempts · %.0f%% of questions answered · %.0f%% accuracy",
			rep.Attempts, rep.CompletionRate()*100, rep.Accuracy()*100)),
		"")

	labelWidth := 0
	for _, row := range rep.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Title))
	}
	labelWidth = min(labelWidth, cw/3)

	for _, row := range rep.Rows {
		pct := 0.0
		if row.Total > 0 {
			pct = float64(row.Best) / float64(row.Total)
		}
		bar := components.ProgressBar{
			Label:       truncate(row.Title, labelWidth),
			LabelWidth:  labelWidth,
			Percent:     pct,
			ShowPercent: true,
			Width:       cw,
		}
		lines = append(lines, bar.View())

		detail := "not started"
		if row.Started() {
			detail = fmt.Sprintf("last %d/%d · best %d · %d attempts · %s",
				row.Correct, row.Total, row.Best, row.Attempts,
				row.LastAttempt.Local().Format("Jan 02 15:04"))
		}
		lines = append(lines, theme.Hint.Render(strings.Repeat(" ", labelWidth+2)+detail))
	}

	lines = append(lines, "", theme.Title.Render("Needs practice"))
	if len(s.weak) == 0 {
		lines = append(lines, theme.Muted.Render("Answer a few questions to see your weak spots."))
	}
	for _, w := range s.weak {
		prompt := w.QuestionID
		if q := s.lookup(w.BankID, w.QuestionID); q != nil {
			prompt = q.Prompt
		}
		lines = append(lines, fmt.Sprintf("%s  %s",
			masteryStyle(w.Mastery).Render(fmt.Sprintf("%3.0f%%", w.Mastery*100)),
			theme.Body.Render(truncate(prompt, cw-8))))
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("      %s · %d/%d correct",
			w.BankID, w.Correct, w.Answered)))
	}

	if s.scroll > len(lines)-1 {
		s.scroll = max(len(lines)-1, 0)
	}
	visible := lines[s.scroll:]
	if height > 0 && len(visible) > height {
		visible = visible[:height]
	}

	block := lipgloss.NewStyle().Width(cw).Render(strings.Join(visible, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func (s *StatsScreen) lookup(bankID, questionID string) *bank.Question {
	if s.deps.Library == nil {
		return nil
	}
	b, err := s.deps.Library.Get(bankID)
	if err != nil {
		return nil
	}
	return b.Question(questionID)
}

func masteryStyle(m float64) lipgloss.Style {
	switch {
	case m >= 0.8:
		return theme.Correct
	case m >= 0.5:
		return theme.Highlight
	default:
		return theme.Incorrect
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
