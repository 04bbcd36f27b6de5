package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// outputStyles renders command output. Plain styles leave text untouched.
type outputStyles struct {
	plain  bool
	title  lipgloss.Style
	source lipgloss.Style
	score  lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	badges map[domain.DocType]lipgloss.Style
}

var plainStyles = outputStyles{plain: true}

var colourStyles = outputStyles{
	title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B45309")),
	source: lipgloss.NewStyle().Bold(true),
	score:  lipgloss.NewStyle().Foreground(lipgloss.Color("#0E7490")),
	muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")),
	fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")),
	badges: map[domain.DocType]lipgloss.Style{
		domain.DocTypeLaw:      lipgloss.NewStyle().Foreground(lipgloss.Color("#B45309")),
		domain.DocTypeJudgment: lipgloss.NewStyle().Foreground(lipgloss.Color("#0E7490")),
		domain.DocTypeFatwa:    lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04")),
	},
}

func stylesFor(tty bool) outputStyles {
	if tty {
		return colourStyles
	}
	return plainStyles
}

func (s outputStyles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

func (s outputStyles) badge(t domain.DocType) string {
	label := "[" + t.String() + "]"
	if st, ok := s.badges[t]; ok && !s.plain {
		return st.Render(label)
	}
	return label
}

func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
