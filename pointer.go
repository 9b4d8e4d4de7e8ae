// Package terminteract arbitrates pointer input for a terminal control.
//
// Every raw pointer event (mouse, pen or touch) is routed to exactly one
// behavior: hyperlink activation, raw VT mouse forwarding, text selection,
// copy-on-select, touch panning, or right-click paste/copy. The terminal
// buffer, VT parser, renderer and clipboard live behind the TerminalCore
// interface; toolkit adapters (gtk, qt, tcell, cli) translate native events
// into the PointerEvent value defined here and feed them to Interactivity.
package terminteract

// DeviceType identifies the kind of pointing device that produced an event.
type DeviceType int

const (
	DeviceMouse DeviceType = iota
	DevicePen
	DeviceTouch
)

// UpdateKind reports which button transition (if any) an event represents.
// Plain motion and wheel-only events carry UpdateOther.
type UpdateKind int

const (
	UpdateOther UpdateKind = iota
	UpdateLeftButtonPressed
	UpdateLeftButtonReleased
	UpdateMiddleButtonPressed
	UpdateMiddleButtonReleased
	UpdateRightButtonPressed
	UpdateRightButtonReleased
)

// Point is a physical position in device coordinates (pixels or DIPs,
// whatever unit the hosting toolkit reports). Origin (0,0) is top-left.
type Point struct {
	X float64
	Y float64
}

// Cell is a logical (column, row) position in the terminal's text grid.
type Cell struct {
	Col int
	Row int
}

// Rect is a physical rectangle, used for the contact area of touch input.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Origin returns the top-left corner of the rectangle.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Buttons is the live tri-state of the mouse buttons at the time of an
// event, independent of which button just transitioned.
type Buttons struct {
	Left   bool
	Middle bool
	Right  bool
}

// Modifiers is the keyboard modifier state accompanying a pointer event.
type Modifiers struct {
	Alt   bool
	Shift bool
	Ctrl  bool
}

// PointerEvent is the toolkit-independent payload for one pointer event.
// It is constructed once per native event by an adapter and never mutated.
type PointerEvent struct {
	Device DeviceType

	// Pos is the event position in physical device coordinates.
	Pos Point

	// Timestamp is a monotonic tick count in microseconds. Only deltas
	// between events matter; the epoch is up to the adapter.
	Timestamp uint64

	// Buttons is the full button state after this event's transition.
	Buttons Buttons

	// Update identifies the button transition this event represents.
	Update UpdateKind

	// WheelDelta is the signed wheel rotation in notch units (one notch =
	// WheelDeltaNotch), 0 for non-wheel events.
	WheelDelta int

	// HorizontalWheel marks WheelDelta as horizontal wheel motion, which
	// is never reclassified as a VT wheel event.
	HorizontalWheel bool

	// ContactRect is the touch contact area. Touch events only.
	ContactRect Rect
}

// WheelDeltaNotch is the wheel delta reported for one detent of a standard
// mouse wheel.
const WheelDeltaNotch = 120

// validDevice reports whether the router handles events from this device
// type. Anything else is dropped silently.
func validDevice(d DeviceType) bool {
	return d == DeviceMouse || d == DevicePen || d == DeviceTouch
}
