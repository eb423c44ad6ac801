package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/answermatch"
	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/ui/layout"
	"github.com/abhisek/recall/internal/ui/theme"
)

// SummaryScreen displays the result of a finished quiz.
type SummaryScreen struct {
	summary      *session.SessionSummary
	restart      func() screen.Screen
	mistakesOnly bool
	offset       int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. restart builds a fresh quiz for the
// "play again" key and may be nil.
func New(summary *session.SessionSummary, restart func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, restart: restart}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "M", Description: "Mistakes only"},
		{Key: "↑↓", Description: "Scroll"},
	}
	if s.restart != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Play again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "r":
		if s.restart == nil {
			return s, nil
		}
		next := s.restart()
		if next == nil {
			return s, nil
		}
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case "m":
		s.mistakesOnly = !s.mistakesOnly
		s.offset = 0
	case "up", "k":
		s.offset = max(s.offset-1, 0)
	case "down", "j":
		s.offset = min(s.offset+1, max(len(s.items())-1, 0))
	}
	return s, nil
}

func (s *SummaryScreen) items() []session.ReviewItem {
	if s.mistakesOnly {
		return s.summary.Mistakes()
	}
	return s.summary.Review
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(headline(sum.Accuracy)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	statsLine := fmt.Sprintf("Score: %d/%d (%.0f%%)      Answered: %d      Best streak: %d      Time: %d:%02d",
		sum.Correct, sum.Total, sum.Accuracy*100, sum.Answered, sum.BestStreak, mins, secs)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	label := "Review"
	if s.mistakesOnly {
		label = "Mistakes"
	}
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 70)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Muted.Render(label)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	items := s.items()
	if len(items) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Nothing to review. Every answer was right!")))
		return b.String()
	}

	// Each entry takes up to three lines.
	room := max((height-8)/3, 1)
	end := min(s.offset+room, len(items))
	lineWidth := min(width-8, 70)
	for _, it := range items[s.offset:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderItem(it, lineWidth)))
		b.WriteString("\n")
	}
	if end < len(items) {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(fmt.Sprintf("%d more below", len(items)-end))))
	}
	return b.String()
}

func renderItem(it session.ReviewItem, width int) string {
	mark, style := "✔", theme.Correct
	switch {
	case !it.Answered:
		mark, style = "·", theme.Muted
	case !it.Correct:
		mark, style = "✘", theme.Incorrect
	}

	line := style.Render(mark) + " " + theme.Body.Render(truncate(it.Prompt, width-2))
	switch {
	case !it.Answered:
		line += "\n  " + theme.Muted.Render("skipped; answer: "+truncate(it.Expected, width-20))
	case !it.Correct:
		line += "\n  " + theme.Incorrect.Render("you: "+truncate(it.Given, width-8))
		line += "\n  " + theme.Correct.Render("answer: "+truncate(it.Expected, width-11))
	case it.Tier != answermatch.TierExact && it.Tier != answermatch.TierNone:
		line += "\n  " + theme.Muted.Render(fmt.Sprintf("%s (%s match)", truncate(it.Given, width-24), it.Tier))
	}
	return lipgloss.NewStyle().Width(width).Render(line)
}

func headline(accuracy float64) string {
	switch {
	case accuracy >= 1:
		return "Perfect score!"
	case accuracy >= 0.8:
		return "Great job!"
	case accuracy >= 0.5:
		return "Quiz complete"
	default:
		return "Keep practicing"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
