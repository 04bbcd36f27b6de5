// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// SearchRequested is a command to perform a search.
type SearchRequested struct {
	Query string
	TopK  int
}

// SearchCompleted carries the search response back to the model.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// IndexReady is sent once the index has been loaded or built.
type IndexReady struct {
	// Ingested is true when the index had to be built first.
	Ingested bool
	Err      error
}

// ResultSelected is sent when a search result is selected.
type ResultSelected struct {
	Index int
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
