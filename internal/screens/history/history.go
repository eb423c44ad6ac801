// Package history lists past quiz attempts, newest first.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/store"
	"github.com/abhisek/recall/internal/ui/layout"
	"github.com/abhisek/recall/internal/ui/theme"
)

// DefaultLimit is the number of attempts the screen loads.
const DefaultLimit = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

// HistoryScreen displays past attempts.
type HistoryScreen struct {
	eventRepo store.EventRepo
	limit     int
	attempts  []store.AttemptRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. A limit of zero loads DefaultLimit
// attempts.
func New(eventRepo store.EventRepo, limit int) *HistoryScreen {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &HistoryScreen{
		eventRepo: eventRepo,
		limit:     limit,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, limit := s.eventRepo, s.limit
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		attempts, err := repo.QueryAttempts(context.Background(), store.QueryOpts{Limit: limit})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
			s.errMsg = ""
		}
		s.loaded = true
		if s.selected >= len(s.attempts) {
			s.selected = max(len(s.attempts)-1, 0)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter", "space", " ":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Pick a quiz to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, at := range s.attempts {
		dateStr := at.Timestamp.Local().Format("Jan 02, 2006 15:04")
		durationStr := fmt.Sprintf("%d:%02d", at.DurationSecs/60, at.DurationSecs%60)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		title := at.Title
		if title == "" {
			title = at.BankID
		}
		line := fmt.Sprintf("%s%s  %-28s  %d/%d  %3d%%  %s",
			prefix, dateStr, truncate(title, 28), at.Score, at.Total, at.Percent(), durationStr)

		style := lipgloss.NewStyle().Foreground(percentColor(at.Percent()))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    bank %s · answered %d of %d · skipped %d · best streak %d",
				at.BankID, at.Answered, at.Total, at.Total-at.Answered, at.BestStreak)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func percentColor(pct int) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= 50:
		return theme.Accent
	default:
		return theme.Error
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
