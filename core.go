package terminteract

// MouseButton is the encoded button code handed to the terminal core's
// mouse-event sink when VT mouse mode is active. The core owns the actual
// wire encoding (X10/SGR/...); these codes only name the transition.
type MouseButton int

const (
	MouseMove MouseButton = iota
	LeftDown
	LeftUp
	MiddleDown
	MiddleUp
	RightDown
	RightUp
	WheelScroll
)

// CopyFormat selects additional clipboard formats for a copy operation.
type CopyFormat uint32

const (
	CopyHTML CopyFormat = 1 << iota
	CopyRTF
)

// TerminalCore is the capability interface the router consumes. It is the
// narrow surface of the terminal buffer/parser/renderer stack that pointer
// arbitration needs; all calls are synchronous and are only ever made from
// the thread delivering the input event.
type TerminalCore interface {
	// HasSelection reports whether a selection is currently active.
	HasSelection() bool

	// CopyOnSelect reports whether completing a selection should copy it
	// to the clipboard without an explicit copy command.
	CopyOnSelect() bool

	// IsInReadOnlyMode reports whether input forwarding to the connected
	// program is suppressed.
	IsInReadOnlyMode() bool

	// IsVtMouseModeEnabled reports whether the connected program has
	// requested raw mouse events.
	IsVtMouseModeEnabled() bool

	// HyperlinkAt returns the hyperlink URI at the given cell, or "" if
	// the cell carries no link.
	HyperlinkAt(cell Cell) string

	// SetSelectionAnchor starts a selection at the given cell.
	SetSelectionAnchor(cell Cell)

	// SetEndSelectionPoint moves the selection's end point to the given
	// cell, e.g. while dragging.
	SetEndSelectionPoint(cell Cell)

	// LeftClickOnTerminal performs the core's single/double/triple click
	// behavior. clickCount is always 1, 2 or 3. It receives the current
	// pending-copy state and returns the updated one, since creating a
	// multi-click selection marks it as needing a copy.
	LeftClickOnTerminal(cell Cell, clickCount int, alt, shift, onOriginalPosition, pendingCopy bool) bool

	// SendMouseEvent forwards one encoded mouse event to the connected
	// program. Returns whether the core consumed it.
	SendMouseEvent(cell Cell, button MouseButton, mods Modifiers, wheelDelta int, state Buttons) bool

	// UpdateHoveredCell informs the core of the cell under the pointer,
	// for hover effects such as hyperlink underlining.
	UpdateHoveredCell(cell Cell)

	// UserScrollViewport scrolls the viewport to the given offset, in
	// rows. Fractional offsets are allowed.
	UserScrollViewport(offset float64)

	// ScrollOffset returns the current viewport scroll offset in rows.
	ScrollOffset() float64

	// FontCellSize returns the size of one font cell in physical pixels.
	FontCellSize() (w, h float64)

	// RendererScale returns the active render scale factor used to
	// convert font pixels into device coordinates.
	RendererScale() float64

	// CopySelectionToClipboard copies the current selection. singleLine
	// collapses the text to one line; formats overrides the configured
	// clipboard formats when non-nil. Returns false if there was nothing
	// to copy.
	CopySelectionToClipboard(singleLine bool, formats *CopyFormat) bool

	// PasteText writes pasted text to the connected program.
	PasteText(text string)
}
