// Package terminteractqt feeds Qt mouse events into a terminteract router
// via the miqt bindings.
package terminteractqt

import (
	"github.com/mappu/miqt/qt"

	"github.com/phroun/terminteract"
)

// CellResolver converts widget coordinates into a (clamped) terminal cell.
type CellResolver func(x, y float64) terminteract.Cell

// Controller installs mouse event overrides on a widget and routes the
// translated events.
type Controller struct {
	router  *terminteract.Interactivity
	cellAt  CellResolver
	focused bool
}

// NewController creates a controller routing into the given router.
func NewController(router *terminteract.Interactivity, cellAt CellResolver) *Controller {
	return &Controller{
		router:  router,
		cellAt:  cellAt,
		focused: true,
	}
}

// Attach overrides the widget's mouse and focus events. Mouse tracking is
// enabled so hover moves arrive without a button held.
func (c *Controller) Attach(w *qt.QWidget) {
	w.SetMouseTracking(true)
	w.SetFocusPolicy(qt.StrongFocus)

	w.OnMousePressEvent(func(super func(event *qt.QMouseEvent), event *qt.QMouseEvent) {
		c.mousePressEvent(event)
	})
	w.OnMouseReleaseEvent(func(super func(event *qt.QMouseEvent), event *qt.QMouseEvent) {
		c.mouseReleaseEvent(event)
	})
	w.OnMouseMoveEvent(func(super func(event *qt.QMouseEvent), event *qt.QMouseEvent) {
		c.mouseMoveEvent(event)
	})
	w.OnWheelEvent(func(super func(event *qt.QWheelEvent), event *qt.QWheelEvent) {
		c.wheelEvent(event)
	})
	w.OnFocusInEvent(func(super func(event *qt.QFocusEvent), event *qt.QFocusEvent) {
		c.focused = true
		c.router.GainFocus()
		super(event)
	})
	w.OnFocusOutEvent(func(super func(event *qt.QFocusEvent), event *qt.QFocusEvent) {
		c.focused = false
		c.router.LostFocus()
		super(event)
	})
}

func (c *Controller) mousePressEvent(event *qt.QMouseEvent) {
	pe, mods := translateMouse(event, true)
	c.router.PointerPressed(pe, mods, c.focused, c.cellAt(pe.Pos.X, pe.Pos.Y))
}

func (c *Controller) mouseReleaseEvent(event *qt.QMouseEvent) {
	pe, mods := translateMouse(event, false)
	c.router.PointerReleased(pe, mods, c.focused, c.cellAt(pe.Pos.X, pe.Pos.Y))
}

func (c *Controller) mouseMoveEvent(event *qt.QMouseEvent) {
	pe, mods := translateMouse(event, false)
	pe.Update = terminteract.UpdateOther // move events carry no transition
	c.router.PointerMoved(pe, mods, c.focused, c.cellAt(pe.Pos.X, pe.Pos.Y))
}

func (c *Controller) wheelEvent(event *qt.QWheelEvent) {
	deltaY := event.AngleDelta().Y()
	deltaX := event.AngleDelta().X()

	delta := deltaY
	horizontal := false
	if deltaY == 0 && deltaX != 0 {
		delta = deltaX
		horizontal = true
	}
	if delta == 0 {
		return
	}

	pos := event.Pos()
	pe := terminteract.PointerEvent{
		Device:          terminteract.DeviceMouse,
		Pos:             terminteract.Point{X: float64(pos.X()), Y: float64(pos.Y())},
		Timestamp:       uint64(event.Timestamp()) * 1000,
		Buttons:         translateButtons(event.Buttons()),
		WheelDelta:      delta,
		HorizontalWheel: horizontal,
	}
	c.router.MouseWheel(pe, translateModifiers(event.Modifiers()),
		c.cellAt(pe.Pos.X, pe.Pos.Y))
}

// translateMouse repacks a QMouseEvent. Buttons() already reflects the
// state after the transition, for both press and release events.
func translateMouse(event *qt.QMouseEvent, pressed bool) (terminteract.PointerEvent, terminteract.Modifiers) {
	pos := event.Pos()

	var update terminteract.UpdateKind
	switch event.Button() {
	case qt.LeftButton:
		if pressed {
			update = terminteract.UpdateLeftButtonPressed
		} else {
			update = terminteract.UpdateLeftButtonReleased
		}
	case qt.MiddleButton:
		if pressed {
			update = terminteract.UpdateMiddleButtonPressed
		} else {
			update = terminteract.UpdateMiddleButtonReleased
		}
	case qt.RightButton:
		if pressed {
			update = terminteract.UpdateRightButtonPressed
		} else {
			update = terminteract.UpdateRightButtonReleased
		}
	}

	pe := terminteract.PointerEvent{
		Device:    terminteract.DeviceMouse,
		Pos:       terminteract.Point{X: float64(pos.X()), Y: float64(pos.Y())},
		Timestamp: uint64(event.Timestamp()) * 1000, // ms to us
		Buttons:   translateButtons(event.Buttons()),
		Update:    update,
	}
	return pe, translateModifiers(event.Modifiers())
}

func translateButtons(buttons qt.MouseButton) terminteract.Buttons {
	return terminteract.Buttons{
		Left:   buttons&qt.LeftButton != 0,
		Middle: buttons&qt.MiddleButton != 0,
		Right:  buttons&qt.RightButton != 0,
	}
}

func translateModifiers(mods qt.KeyboardModifier) terminteract.Modifiers {
	return terminteract.Modifiers{
		Alt:   mods&qt.AltModifier != 0,
		Shift: mods&qt.ShiftModifier != 0,
		Ctrl:  mods&qt.ControlModifier != 0,
	}
}
