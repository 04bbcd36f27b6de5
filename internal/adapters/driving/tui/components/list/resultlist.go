// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui/styles"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// ResultList displays aggregated search results in a navigable list.
// The selected result can be expanded to show its supporting passages.
type ResultList struct {
	results  []domain.AggregatedResult
	selected int
	expanded bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "enter", " ":
			r.ToggleExpanded()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(r.results)))
	lines = append(lines, header, "")

	// Each collapsed result takes two lines.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
		if i == r.selected && r.expanded {
			lines = append(lines, r.renderChunks(&r.results[i]))
		}
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one document line with its best passage as preview.
func (r *ResultList) renderResult(index int, result *domain.AggregatedResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxTitleLen := r.width - 30
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := truncate(result.Source, maxTitleLen)

	score := fmt.Sprintf("%.3f", result.MaxScore)
	count := fmt.Sprintf("%d passages", len(result.Chunks))

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Muted.Render(score)
	}
	titleLine += " " + r.styles.Badge(result.DocType) + " " + r.styles.Muted.Render(count)

	preview := ""
	if len(result.Chunks) > 0 {
		preview = firstLine(result.Chunks[0].Content)
	}
	previewLine := r.styles.Muted.Render("    " + truncate(preview, r.previewWidth()))

	return titleLine + "\n" + previewLine
}

// renderChunks lists every passage of an expanded result in retrieval order.
func (r *ResultList) renderChunks(result *domain.AggregatedResult) string {
	lines := make([]string, 0, len(result.Chunks))
	for i := range result.Chunks {
		c := &result.Chunks[i]
		head := r.styles.Subtitle.Render(fmt.Sprintf("      %.3f %s", c.Score, c.Metadata.Strategy))
		body := r.styles.Normal.Render("      " + truncate(firstLine(c.Content), r.previewWidth()-2))
		lines = append(lines, head, body)
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) previewWidth() int {
	if r.width-6 < 20 {
		return 20
	}
	return r.width - 6
}

// truncate shortens s to at most n characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// SetResults updates the result list.
func (r *ResultList) SetResults(results []domain.AggregatedResult) {
	r.results = results
	r.selected = 0
	r.expanded = false
}

// Results returns the current results.
func (r *ResultList) Results() []domain.AggregatedResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
		r.expanded = false
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.AggregatedResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// ToggleExpanded shows or hides the passages of the selected result.
func (r *ResultList) ToggleExpanded() {
	if len(r.results) == 0 {
		return
	}
	r.expanded = !r.expanded
}

// Expanded reports whether the selected result shows its passages.
func (r *ResultList) Expanded() bool {
	return r.expanded
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
		r.expanded = false
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
		r.expanded = false
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
