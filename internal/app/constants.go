package app

import "time"

// Layout constants define the default dimensions and spacing for the UI
const (
	// DefaultListWidth is the widest the note list pane grows.
	DefaultListWidth = 56

	// ListWidthDivider determines list width as terminal_width / this value
	// when the terminal is narrow.
	ListWidthDivider = 2

	// PopupPadding is the horizontal margin around form popups.
	PopupPadding = 8

	// FormPopupWidth is the preferred width of the form popup.
	FormPopupWidth = 64

	// SelectionPopupMaxHeight caps the tag selector height.
	SelectionPopupMaxHeight = 14

	// FooterRows is the number of rows reserved for the status and help line.
	FooterRows = 2
)

// Rendering constants control preview rendering
const (
	// RenderWidthBucket is the granularity for width-based render caching.
	// Widths are rounded down to a multiple of this value.
	RenderWidthBucket = 20

	// MaxRenderCacheEntries bounds the rendered preview cache.
	MaxRenderCacheEntries = 128
)

// Reducer limits
const (
	// MaxMessageChain bounds the follow-up messages drained for one event.
	MaxMessageChain = 32

	// SearchTimeout bounds a single search run.
	SearchTimeout = 5 * time.Second
)

// CreatedAtLayout formats note timestamps in the list.
const CreatedAtLayout = "2006-01-02 15:04"
