package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/answermatch"
	"github.com/abhisek/recall/internal/bank"
	sess "github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/layout"
	"github.com/abhisek/recall/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, s.state.Answered(), s.state.Total())
	}
	item := sess.CurrentItem(s.state)
	if item == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n\n")

	q := &item.Question
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n\n")

	var body string
	switch q.Kind {
	case bank.KindTypeIn:
		body = "Answer: " + s.input.View()
	case bank.KindMultipleChoice, bank.KindFindIncorrect:
		body = s.choices.View()
	case bank.KindMatchPairs:
		body = s.renderPairs(width)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	b.WriteString("\n")

	if s.notice != "" {
		style := theme.Correct
		if s.noticeBad {
			style = theme.Incorrect
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(s.notice)))
		b.WriteString("\n")
	}

	if resp := sess.CurrentResponse(s.state); resp != nil {
		b.WriteString("\n")
		b.WriteString(renderFeedback(q, resp.Result, width))
	}

	return b.String()
}

// renderInfoLine shows the bank of the question and the progress bar.
func (s *QuizScreen) renderInfoLine(width int) string {
	item := sess.CurrentItem(s.state)
	total := s.state.Total()
	pos := s.state.Current + 1

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", pos, total))
	if item != nil && item.BankID != s.state.Plan.BankID {
		left += theme.Muted.Render("  · " + item.BankID)
	}

	barWidth := min(30, max(width/3, 10))
	bar := components.NewProgressBar("", float64(s.state.Answered())/float64(max(total, 1)), true, barWidth).View()

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(bar) - 2; pad > 0 {
		line += strings.Repeat(" ", pad) + bar
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

func (s *QuizScreen) renderPairs(width int) string {
	round := s.rounds[s.state.Current]
	if round == nil {
		return ""
	}
	answered := sess.CurrentResponse(s.state) != nil
	colWidth := min(max((width-8)/2, 16), 40)

	column := func(items []string, col, cursor int, matched func(string) bool) string {
		var b strings.Builder
		for i, text := range items {
			prefix := "  "
			if !answered && s.cursor.column == col && i == cursor {
				prefix = "▸ "
			}
			style := theme.Unselected
			switch {
			case matched(text):
				style = theme.Correct
			case col == 0 && text == s.cursor.picked:
				style = theme.Highlight
			case !answered && s.cursor.column == col && i == cursor:
				style = theme.Selected
			}
			b.WriteString(style.Width(colWidth).Render(prefix + text))
			b.WriteString("\n")
		}
		return b.String()
	}

	left := column(round.Terms, 0, s.cursor.term, round.TermMatched)
	right := column(round.Definitions, 1, s.cursor.def, round.DefinitionMatched)
	grid := lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)

	status := theme.Muted.Render(fmt.Sprintf("Attempts %d   Mistakes %d", round.Attempts, round.Mistakes))
	return grid + "\n" + status
}

// renderFeedback shows the verdict and the explanation for a graded question.
func renderFeedback(q *bank.Question, res bank.Result, width int) string {
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}

	var b strings.Builder
	if res.Correct {
		b.WriteString(center(theme.Correct.Render("Correct!")))
		if note := tierNote(res.Tier); note != "" {
			b.WriteString("\n")
			b.WriteString(center(theme.Muted.Render(note)))
			b.WriteString("\n")
			b.WriteString(center(theme.Muted.Render("Expected: " + res.Expected)))
		}
	} else {
		b.WriteString(center(theme.Incorrect.Render("Not quite")))
		b.WriteString("\n")
		b.WriteString(center(theme.Muted.Render("Correct answer: " + res.Expected)))
	}
	b.WriteString("\n\n")

	text := q.Explanation
	if text == "" {
		text = q.ShortExplanation
	}
	if text != "" {
		exp := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Render(layout.RenderHighlighted(bank.Highlight(text), theme.Body))
		b.WriteString(center(exp))
		b.WriteString("\n")
	}
	return b.String()
}

// tierNote explains a lenient acceptance.
func tierNote(t answermatch.Tier) string {
	switch t {
	case answermatch.TierAlternate:
		return "Accepted the short form."
	case answermatch.TierCore:
		return "Accepted the core name."
	case answermatch.TierContainment:
		return "Accepted a partial answer."
	case answermatch.TierFuzzy:
		return "Accepted with a small typo."
	}
	return ""
}

func renderQuitConfirm(width, answered, total int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End quiz early?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d of %d answered. Your score will be saved.", answered, total)))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, end quiz"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}
