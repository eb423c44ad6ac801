package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/ui/theme"
)

const bannerFull = `██████╗ ███████╗ ██████╗ █████╗ ██╗     ██╗
██╔══██╗██╔════╝██╔════╝██╔══██╗██║     ██║
██████╔╝█████╗  ██║     ███████║██║     ██║
██╔══██╗██╔══╝  ██║     ██╔══██║██║     ██║
██║  ██║███████╗╚██████╗██║  ██║███████╗███████╗
╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝`

const bannerCompact = "R · E · C · A · L · L"

// contentWidth returns the inner width shared by every section.
func contentWidth(frameWidth int) int {
	// Leave room for the frame border (2) and padding (4).
	return min(max(frameWidth-6, 20), 64)
}

func renderTitle(cw int, compact bool) string {
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render(art))
}

// renderStatsBar summarizes the library and the player's record.
func renderStatsBar(banks, questions, attempts int, cw int, compact bool) string {
	bankStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	questionStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	attemptStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	var text string
	if compact {
		text = fmt.Sprintf("%s %s %s",
			bankStyle.Render(fmt.Sprintf("▦%d", banks)),
			questionStyle.Render(fmt.Sprintf("?%d", questions)),
			attemptStyle.Render(fmt.Sprintf("✔%d", attempts)))
	} else {
		text = fmt.Sprintf("%s  %s  %s",
			bankStyle.Render(fmt.Sprintf("▦ %d BANKS", banks)),
			questionStyle.Render(fmt.Sprintf("? %d QUESTIONS", questions)),
			attemptStyle.Render(fmt.Sprintf("✔ %d ATTEMPTS", attempts)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

func renderMenuBox(menu string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Render(menu)
}

func renderError(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + msg)
}

// renderFrame wraps content in a border centered in the full area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
