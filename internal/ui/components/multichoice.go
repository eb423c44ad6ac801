package components

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/ui/theme"
)

// MultiChoice is an option list. In single mode one option is picked; in
// multi mode options are toggled with space or their number.
type MultiChoice struct {
	Options   []string
	Selected  int // cursor
	Multi     bool
	Marked    map[int]bool
	Submitted bool

	correct map[int]bool
	chosen  map[int]bool
}

// NewMultiChoice creates a new option list.
func NewMultiChoice(options []string, multi bool) MultiChoice {
	return MultiChoice{
		Options: options,
		Multi:   multi,
		Marked:  make(map[int]bool),
	}
}

// Update handles keyboard navigation and toggling.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "space", " ":
		if m.Multi {
			m.toggle(m.Selected)
		}
	default:
		if i, ok := OptionIndex(key, len(m.Options)); ok {
			m.Selected = i
			if m.Multi {
				m.toggle(i)
			}
		}
	}

	return m, nil
}

func (m *MultiChoice) toggle(i int) {
	if m.Marked[i] {
		delete(m.Marked, i)
	} else {
		m.Marked[i] = true
	}
}

// OptionIndex maps the keys "1".."9" to option indexes below n.
func OptionIndex(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	i := int(key[0] - '1')
	if i >= n {
		return 0, false
	}
	return i, true
}

// Chosen returns the marked options in multi mode and the cursor option
// otherwise.
func (m MultiChoice) Chosen() []int {
	if !m.Multi {
		return []int{m.Selected}
	}
	out := make([]int, 0, len(m.Marked))
	for i := range m.Marked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Reveal locks the list and colors the options: correct ones green,
// chosen wrong ones red.
func (m *MultiChoice) Reveal(chosen, correct []int) {
	m.Submitted = true
	m.chosen = make(map[int]bool, len(chosen))
	for _, i := range chosen {
		m.chosen[i] = true
	}
	m.correct = make(map[int]bool, len(correct))
	for _, i := range correct {
		m.correct[i] = true
	}
}

// View renders the option list.
func (m MultiChoice) View() string {
	var b strings.Builder

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		box := ""
		if m.Multi {
			box = "[ ] "
			if m.Marked[i] || m.chosen[i] {
				box = "[x] "
			}
		}

		line := fmt.Sprintf("%s%d) %s%s", prefix, i+1, box, opt)

		var style lipgloss.Style
		switch {
		case m.Submitted && m.correct[i]:
			style = theme.Correct
		case m.Submitted && m.chosen[i]:
			style = theme.Incorrect
		case m.Submitted:
			style = theme.Muted
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
