package terminteract

import "math"

// maxClickCount is the longest click gesture with distinct behavior.
// Longer streaks cycle back through single/double/triple.
const maxClickCount = 3

// Interactivity routes pointer events to exactly one behavior per event:
// hyperlink activation, raw VT mouse forwarding, selection, copy-on-select,
// touch panning, or right-click paste/copy.
//
// All methods must be called from the single thread that delivers input
// events; the router holds no locks. With a nil core every method degrades
// to a safe no-op.
type Interactivity struct {
	core   TerminalCore
	clicks *MultiClickDetector

	rowsToScroll int

	// Click-then-drag tracking: set on a fresh left press with no active
	// selection, cleared once the drag commits or the button releases.
	touchdownPos  *Point
	touchdownCell *Cell

	// Position of the last left press made with no selection active, for
	// detecting a repeat press on the same spot. Nil until such a press
	// happened.
	lastClickPosNoSelection *Point

	// Whether the current selection still needs a copy-on-select copy.
	selectionNeedsCopy bool

	// Pan anchor for touch scrolling.
	touchAnchor *Point

	openHyperlink  func(uri string)
	pasteRequested func(deliver func(text string))
	configSource   func() Config
}

// NewInteractivity creates a router for the given terminal core. The zero
// Config selects platform-typical defaults.
func NewInteractivity(core TerminalCore, cfg Config) *Interactivity {
	return &Interactivity{
		core:         core,
		clicks:       NewMultiClickDetector(cfg.doubleClickInterval()),
		rowsToScroll: cfg.rowsToScroll(),
	}
}

// SetOpenHyperlinkCallback sets a callback invoked with the link URI when a
// ctrl+click activates a hyperlink.
func (in *Interactivity) SetOpenHyperlinkCallback(fn func(uri string)) {
	in.openHyperlink = fn
}

// SetPasteRequestedCallback sets a callback invoked when a paste is
// initiated. The host fulfills it asynchronously by calling deliver with
// the clipboard text, which feeds the core's paste path.
func (in *Interactivity) SetPasteRequestedCallback(fn func(deliver func(text string))) {
	in.pasteRequested = fn
}

// SetConfigCallback sets a callback that supplies the current environment
// parameters. When set, GainFocus uses it to pick up settings changed
// while the control was unfocused.
func (in *Interactivity) SetConfigCallback(fn func() Config) {
	in.configSource = fn
}

// UpdateSettings refreshes the environment-derived parameters, e.g. after
// the host's system settings changed.
func (in *Interactivity) UpdateSettings(cfg Config) {
	in.clicks.SetDoubleClickInterval(cfg.doubleClickInterval())
	in.rowsToScroll = cfg.rowsToScroll()
}

// GainFocus re-reads the environment parameters through the config
// callback. System settings like the double-click interval can change
// while the control is unfocused, so the host should call it whenever the
// control gains input focus.
func (in *Interactivity) GainFocus() {
	if in.configSource != nil {
		in.UpdateSettings(in.configSource())
	}
}

// LostFocus clears the transient pan and drag anchors. Idempotent; the
// host should call it whenever the control loses input focus.
func (in *Interactivity) LostFocus() {
	in.touchAnchor = nil
	in.clearTouchdown()
}

// PointerPressed routes a pointer-down event. cell is the event position
// resolved (and clamped) to the text grid by the adapter.
func (in *Interactivity) PointerPressed(ev PointerEvent, mods Modifiers, focused bool, cell Cell) {
	_ = focused
	if !validDevice(ev.Device) || in.core == nil {
		return
	}

	if ev.Device == DeviceTouch {
		// Start a pan at the contact rect's origin.
		anchor := ev.ContactRect.Origin()
		in.touchAnchor = &anchor
		return
	}

	hyperlink := in.core.HyperlinkAt(cell)

	switch {
	case ev.Buttons.Left && mods.Ctrl && hyperlink != "":
		// Hyperlinks take priority over VT mouse mode. Only the first
		// click of a streak activates, so a double-click landing on the
		// same link doesn't open it twice.
		if in.clicks.NumberOfClicks(ev.Pos, ev.Timestamp) == 1 {
			in.notifyOpenHyperlink(hyperlink)
		}

	case in.canSendVTMouseInput(mods):
		in.trySendMouseEvent(ev, mods, cell)

	case ev.Buttons.Left:
		clickCount := in.clicks.NumberOfClicks(ev.Pos, ev.Timestamp)
		// Cycle single -> double -> triple -> single... instead of
		// saturating at triple.
		if clickCount > maxClickCount {
			clickCount = (clickCount+maxClickCount-1)%maxClickCount + 1
		}

		// Capture the position of the first click when no selection is
		// active, as the potential start of a click-then-drag.
		if clickCount == 1 && !in.core.HasSelection() {
			pos, tc, noSel := ev.Pos, cell, ev.Pos
			in.touchdownPos = &pos
			in.touchdownCell = &tc
			in.lastClickPosNoSelection = &noSel
		}
		onOriginalPosition := clickCount == 1 &&
			in.lastClickPosNoSelection != nil &&
			ev.Pos == *in.lastClickPosNoSelection

		in.selectionNeedsCopy = in.core.LeftClickOnTerminal(cell, clickCount,
			mods.Alt, mods.Shift, onOriginalPosition, in.selectionNeedsCopy)

	case ev.Buttons.Right:
		// With copy-on-select a right click always pastes; otherwise it
		// copies an active selection and pastes only without one.
		if in.core.CopyOnSelect() || !in.core.HasSelection() {
			in.PasteTextFromClipboard()
		} else {
			in.CopySelectionToClipboard(mods.Shift, nil)
		}
	}
}

// PointerMoved routes a pointer-move event.
func (in *Interactivity) PointerMoved(ev PointerEvent, mods Modifiers, focused bool, cell Cell) {
	if !validDevice(ev.Device) || in.core == nil {
		return
	}

	if ev.Device == DeviceTouch {
		if focused && in.touchAnchor != nil {
			in.panViewport(ev.ContactRect.Origin())
		}
		return
	}

	// Check read-only first so merely moving the mouse can't surface a
	// read-only warning from the send path.
	if focused && !in.core.IsInReadOnlyMode() && in.canSendVTMouseInput(mods) {
		in.trySendMouseEvent(ev, mods, cell)
	} else if focused && ev.Buttons.Left {
		if in.touchdownPos != nil {
			// The press becomes a real drag once the pointer has moved a
			// quarter of the font cell's smaller axis from the touchdown.
			dx := ev.Pos.X - in.touchdownPos.X
			dy := ev.Pos.Y - in.touchdownPos.Y
			distance := math.Sqrt(dx*dx + dy*dy)

			cellW, cellH := in.fontCellSizeInDevice()
			if distance >= math.Min(cellW, cellH)/4 {
				in.core.SetSelectionAnchor(cell)
				in.clearTouchdown()
			}
		}
		in.setEndSelectionPoint(cell)
	}

	in.core.UpdateHoveredCell(cell)
}

// panViewport advances a touch pan to the new contact point, scrolling the
// viewport once the drag exceeds half a cell height.
func (in *Interactivity) panViewport(contact Point) {
	_, cellH := in.fontCellSizeInDevice()
	dy := contact.Y - in.touchAnchor.Y
	if math.Abs(dy) <= cellH/2 {
		return
	}

	// Dragging the touch point down pans the viewport up, so the row
	// delta gets the inverted sign.
	rows := -dy / cellH
	in.core.UserScrollViewport(in.core.ScrollOffset() + rows)

	// Continue panning incrementally from here.
	in.touchAnchor = &contact
}

// PointerReleased routes a pointer-up event.
func (in *Interactivity) PointerReleased(ev PointerEvent, mods Modifiers, focused bool, cell Cell) {
	_ = focused
	if !validDevice(ev.Device) {
		return
	}

	if ev.Device == DeviceTouch {
		in.touchAnchor = nil
	} else if in.core != nil {
		if !in.core.IsInReadOnlyMode() && in.canSendVTMouseInput(mods) {
			in.trySendMouseEvent(ev, mods, cell)
		} else if in.core.CopyOnSelect() &&
			ev.Update == UpdateLeftButtonReleased &&
			in.selectionNeedsCopy {
			// Only a left release finishes a copy-on-select selection;
			// middle and right releases do nothing here.
			in.CopySelectionToClipboard(false, nil)
		}
	}

	in.clearTouchdown()
}

// MouseWheel routes a wheel event: forwarded raw when VT mouse mode wants
// it, otherwise scrolled locally by the configured rows per notch.
// Returns whether the event was acted on.
func (in *Interactivity) MouseWheel(ev PointerEvent, mods Modifiers, cell Cell) bool {
	if in.core == nil {
		return false
	}
	if !in.core.IsInReadOnlyMode() && in.canSendVTMouseInput(mods) {
		return in.trySendMouseEvent(ev, mods, cell)
	}
	if ev.WheelDelta == 0 || ev.HorizontalWheel {
		return false
	}

	// Wheel up (positive delta) pans toward the scrollback, same sign
	// convention as touch panning.
	rows := -float64(ev.WheelDelta) / WheelDeltaNotch * float64(in.rowsToScroll)
	in.core.UserScrollViewport(in.core.ScrollOffset() + rows)
	return true
}

// CopySelectionToClipboard copies the current selection and marks it as no
// longer pending a copy-on-select copy. singleLine collapses the text to
// one line; formats overrides the configured clipboard formats when
// non-nil. Returns false without a core or without a selection, so e.g. a
// bare ctrl+c can still reach the connected program.
func (in *Interactivity) CopySelectionToClipboard(singleLine bool, formats *CopyFormat) bool {
	if in.core == nil {
		return false
	}
	in.selectionNeedsCopy = false
	return in.core.CopySelectionToClipboard(singleLine, formats)
}

// PasteTextFromClipboard initiates a paste. The host's paste-requested
// callback receives a deliver function to call once the clipboard data is
// available; delivered text is fed to the core's paste path.
func (in *Interactivity) PasteTextFromClipboard() {
	if in.pasteRequested == nil {
		return
	}
	in.pasteRequested(func(text string) {
		if in.core != nil {
			in.core.PasteText(text)
		}
	})
}

// canSendVTMouseInput reports whether raw mouse forwarding applies. A held
// shift always forces local selection handling, even in VT mouse mode.
func (in *Interactivity) canSendVTMouseInput(mods Modifiers) bool {
	if mods.Shift {
		return false
	}
	return in.core != nil && in.core.IsVtMouseModeEnabled()
}

// trySendMouseEvent encodes one pointer event for the core's mouse sink.
// Returns whether the core consumed it.
func (in *Interactivity) trySendMouseEvent(ev PointerEvent, mods Modifiers, cell Cell) bool {
	if in.core == nil {
		return false
	}

	var button MouseButton
	switch ev.Update {
	case UpdateLeftButtonPressed:
		button = LeftDown
	case UpdateLeftButtonReleased:
		button = LeftUp
	case UpdateMiddleButtonPressed:
		button = MiddleDown
	case UpdateMiddleButtonReleased:
		button = MiddleUp
	case UpdateRightButtonPressed:
		button = RightDown
	case UpdateRightButtonReleased:
		button = RightUp
	default:
		button = MouseMove
	}

	// A vertical wheel delta reclassifies the event as a wheel event,
	// whatever the button transition said.
	if ev.WheelDelta != 0 && !ev.HorizontalWheel {
		button = WheelScroll
	}

	return in.core.SendMouseEvent(cell, button, mods, ev.WheelDelta, ev.Buttons)
}

// setEndSelectionPoint extends the selection to the given cell and marks it
// as pending a copy-on-select copy.
func (in *Interactivity) setEndSelectionPoint(cell Cell) {
	in.core.SetEndSelectionPoint(cell)
	in.selectionNeedsCopy = true
}

func (in *Interactivity) clearTouchdown() {
	in.touchdownPos = nil
	in.touchdownCell = nil
}

func (in *Interactivity) notifyOpenHyperlink(uri string) {
	if in.openHyperlink != nil {
		in.openHyperlink(uri)
	}
}

// fontCellSizeInDevice returns the font cell size converted from pixels to
// device coordinates via the render scale, rounded the way the renderer
// rounds cell metrics. Rounding applies even at scale 1, so fractional
// font metrics yield whole-pixel thresholds.
func (in *Interactivity) fontCellSizeInDevice() (w, h float64) {
	w, h = in.core.FontCellSize()
	if scale := in.core.RendererScale(); scale > 0 {
		w /= scale
		h /= scale
	}
	return math.Round(w), math.Round(h)
}
