package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dissect/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxRows caps the diagonal table so large polygons stay on one screen.
const maxRows = 20

// =============================================================================
// flipModel - Interactive flip session
// =============================================================================

// flipModel is the bubbletea model for an interactive flip session. It
// collects digits until enter, then applies the flip. Rejected indices keep
// the session running with a message; any other failure ends it and is
// returned from runInteractiveSession.
type flipModel struct {
	session *flipSession
	input   string
	message string
	err     error
}

func newFlipModel(s *flipSession) flipModel {
	return flipModel{session: s}
}

func (m flipModel) Init() tea.Cmd {
	return nil
}

func (m flipModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "backspace":
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
	case "enter":
		if m.input == "" {
			return m, nil
		}
		err := m.session.apply(m.input)
		m.input = ""
		switch {
		case errors.Is(err, errors.ErrCodeInvalidInput):
			m.message = errors.UserMessage(err)
		case err != nil:
			m.err = err
			return m, tea.Quit
		default:
			last := m.session.last
			m.message = fmt.Sprintf("flipped %d: %s %s %s", last.Index, last.Old, iconArrow, last.New)
		}
	default:
		if s := key.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			m.input += s
		}
	}
	return m, nil
}

func (m flipModel) View() string {
	var b strings.Builder
	e := m.session.engine

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Triangulated %d-gon", e.Sides())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("digits: index  enter: flip  q: quit"))
	b.WriteString("\n\n")

	rows := [][]string{}
	for idx := 1; idx <= min(e.Len(), maxRows); idx++ {
		rows = append(rows, []string{fmt.Sprint(idx), e.Edge(idx).String()})
	}
	last := m.session.last.Index
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "diagonal").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row+1 == last {
				return listSelectedStyle
			}
			return listNormalStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	if e.Len() > maxRows {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  ... %d more", e.Len()-maxRows)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(StyleDim.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(StyleHighlight.Render(m.session.prompt()+"> ") + m.input)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d flips]", m.session.flips)))
	return b.String()
}
