// Package search provides the main search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui/components/input"
	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui/components/list"
	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui/components/status"
	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui/keymap"
	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui/messages"
	"github.com/synqanun/synqanun-cli/internal/adapters/driving/tui/styles"
	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driving"
)

// Bounds for the number of chunk hits requested per query.
const (
	MinTopK = 1
	MaxTopK = 50
)

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	topK       int
	lastQuery  string
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view. topK <= 0 uses domain.DefaultTopK.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	topK int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	v := &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		topK:          topK,
		focusInput:    true,
	}
	v.statusbar.SetTopK(topK)
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.IndexReady:
		v.handleIndexReady(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.focusInput && !v.list.IsEmpty() {
			v.focusInput = false
			v.input.Blur()
			return v, nil
		}
		return v, func() tea.Msg { return messages.Quit{} }
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query, ok := v.input.Submission()
			if !ok {
				return v, nil
			}
			v.focusInput = false
			v.input.Blur()
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Results mode
	switch {
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()

	case keymap.Matches(msg.String(), v.keymap.More):
		return v, v.adjustTopK(v.topK + 1)

	case keymap.Matches(msg.String(), v.keymap.Fewer):
		return v, v.adjustTopK(v.topK - 1)

	case keymap.Matches(msg.String(), v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// adjustTopK changes the hit count and re-runs the last query.
func (v *View) adjustTopK(k int) tea.Cmd {
	if k < MinTopK || k > MaxTopK || k == v.topK {
		return nil
	}
	v.topK = k
	v.statusbar.SetTopK(k)
	if v.lastQuery == "" {
		return nil
	}
	return v.performSearch(v.lastQuery)
}

// performSearch executes a search and returns the response as a message.
func (v *View) performSearch(query string) tea.Cmd {
	v.lastQuery = query
	v.statusbar.SetState(status.StateSearching)

	svc := v.searchService
	ctx := v.ctx
	topK := v.topK
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		resp, err := svc.Search(ctx, query, topK)
		return messages.SearchCompleted{Response: resp, Err: err}
	}
}

// handleSearchCompleted processes a search response.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	var results []domain.AggregatedResult
	if msg.Response != nil {
		results = msg.Response.Results
	}
	v.list.SetResults(results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(results))

	v.focusInput = len(results) == 0
	if v.focusInput {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
}

// handleIndexReady reports the outcome of index preparation.
func (v *View) handleIndexReady(msg messages.IndexReady) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	if msg.Ingested {
		v.statusbar.SetMessage("index built")
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	sections = append(sections, v.styles.Title.Render("synqanun"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// SetIndexing marks the view as waiting for index preparation.
func (v *View) SetIndexing() {
	v.statusbar.SetState(status.StateIndexing)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// TopK returns the number of chunk hits requested per query.
func (v *View) TopK() int {
	return v.topK
}

// Results returns the current search results.
func (v *View) Results() []domain.AggregatedResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.AggregatedResult {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.lastQuery = ""
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
