// Package terminteractgtk feeds GDK pointer events from a gtk.DrawingArea
// into a terminteract router.
//
// The package only performs event translation: position, timestamp, button
// and modifier state are repacked into terminteract.PointerEvent values and
// handed to the router, which owns all arbitration. Cell resolution stays
// with the host widget, which knows its font metrics and scroll state.
package terminteractgtk

/*
#cgo pkg-config: gdk-3.0
#include <gdk/gdk.h>

// Helper to read motion event fields gotk3 does not expose
static void get_pointer_info(GdkEvent *ev, double *x, double *y, guint *state, guint32 *time) {
    gdk_event_get_coords(ev, x, y);
    GdkModifierType mods = 0;
    gdk_event_get_state(ev, &mods);
    *state = mods;
    *time = gdk_event_get_time(ev);
}
*/
import "C"

import (
	"unsafe"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/phroun/terminteract"
)

// CellResolver converts widget coordinates into a (clamped) terminal cell.
type CellResolver func(x, y float64) terminteract.Cell

// Controller connects pointer signals on a drawing area to a router.
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

// Attach enables and connects the pointer signals on the drawing area. The
// caller is free to connect further signals (draw, keys) on the same
// widget.
func (c *Controller) Attach(da *gtk.DrawingArea) {
	da.AddEvents(int(gdk.BUTTON_PRESS_MASK | gdk.BUTTON_RELEASE_MASK |
		gdk.POINTER_MOTION_MASK | gdk.SCROLL_MASK))
	da.SetCanFocus(true)

	da.Connect("button-press-event", c.onButtonPress)
	da.Connect("button-release-event", c.onButtonRelease)
	da.Connect("motion-notify-event", c.onMotionNotify)
	da.Connect("scroll-event", c.onScroll)
	da.Connect("focus-in-event", c.onFocusIn)
	da.Connect("focus-out-event", c.onFocusOut)
}

func (c *Controller) onButtonPress(da *gtk.DrawingArea, ev *gdk.Event) bool {
	btn := gdk.EventButtonNewFromEvent(ev)
	pe, mods := translateButton(btn, true)
	c.router.PointerPressed(pe, mods, c.focused, c.cellAt(btn.X(), btn.Y()))
	da.GrabFocus()
	return true
}

func (c *Controller) onButtonRelease(da *gtk.DrawingArea, ev *gdk.Event) bool {
	btn := gdk.EventButtonNewFromEvent(ev)
	pe, mods := translateButton(btn, false)
	c.router.PointerReleased(pe, mods, c.focused, c.cellAt(btn.X(), btn.Y()))
	return true
}

func (c *Controller) onMotionNotify(da *gtk.DrawingArea, ev *gdk.Event) bool {
	// Use the C helper to get coordinates and state from the event
	var x, y C.double
	var state C.guint
	var t C.guint32
	C.get_pointer_info((*C.GdkEvent)(unsafe.Pointer(ev.Native())), &x, &y, &state, &t)

	pe := terminteract.PointerEvent{
		Device:    terminteract.DeviceMouse,
		Pos:       terminteract.Point{X: float64(x), Y: float64(y)},
		Timestamp: uint64(t) * 1000,
		Buttons:   buttonsFromState(uint(state)),
	}
	c.router.PointerMoved(pe, modifiersFromState(uint(state)), c.focused,
		c.cellAt(float64(x), float64(y)))
	return true
}

func (c *Controller) onScroll(da *gtk.DrawingArea, ev *gdk.Event) bool {
	scroll := gdk.EventScrollNewFromEvent(ev)

	var delta int
	horizontal := false
	switch scroll.Direction() {
	case gdk.SCROLL_UP:
		delta = terminteract.WheelDeltaNotch
	case gdk.SCROLL_DOWN:
		delta = -terminteract.WheelDeltaNotch
	case gdk.SCROLL_LEFT:
		delta = terminteract.WheelDeltaNotch
		horizontal = true
	case gdk.SCROLL_RIGHT:
		delta = -terminteract.WheelDeltaNotch
		horizontal = true
	default:
		// Smooth scroll events carry no discrete direction.
		return false
	}

	var x, y C.double
	var state C.guint
	var t C.guint32
	C.get_pointer_info((*C.GdkEvent)(unsafe.Pointer(ev.Native())), &x, &y, &state, &t)

	pe := terminteract.PointerEvent{
		Device:          terminteract.DeviceMouse,
		Pos:             terminteract.Point{X: float64(x), Y: float64(y)},
		Timestamp:       uint64(t) * 1000,
		Buttons:         buttonsFromState(uint(state)),
		WheelDelta:      delta,
		HorizontalWheel: horizontal,
	}
	c.router.MouseWheel(pe, modifiersFromState(uint(state)),
		c.cellAt(float64(x), float64(y)))
	return true
}

func (c *Controller) onFocusIn(da *gtk.DrawingArea, ev *gdk.Event) bool {
	c.focused = true
	c.router.GainFocus()
	return false
}

func (c *Controller) onFocusOut(da *gtk.DrawingArea, ev *gdk.Event) bool {
	c.focused = false
	c.router.LostFocus()
	return false
}

// translateButton repacks a GDK button event. GDK reports the button state
// from before the event, so the transitioning button is folded in here.
func translateButton(btn *gdk.EventButton, pressed bool) (terminteract.PointerEvent, terminteract.Modifiers) {
	state := uint(btn.State())
	buttons := buttonsFromState(state)

	var update terminteract.UpdateKind
	switch btn.Button() {
	case 1: // Left button
		buttons.Left = pressed
		if pressed {
			update = terminteract.UpdateLeftButtonPressed
		} else {
			update = terminteract.UpdateLeftButtonReleased
		}
	case 2: // Middle button
		buttons.Middle = pressed
		if pressed {
			update = terminteract.UpdateMiddleButtonPressed
		} else {
			update = terminteract.UpdateMiddleButtonReleased
		}
	case 3: // Right button
		buttons.Right = pressed
		if pressed {
			update = terminteract.UpdateRightButtonPressed
		} else {
			update = terminteract.UpdateRightButtonReleased
		}
	}

	pe := terminteract.PointerEvent{
		Device:    terminteract.DeviceMouse,
		Pos:       terminteract.Point{X: btn.X(), Y: btn.Y()},
		Timestamp: uint64(btn.Time()) * 1000, // ms to us
		Buttons:   buttons,
		Update:    update,
	}
	return pe, modifiersFromState(state)
}

func buttonsFromState(state uint) terminteract.Buttons {
	return terminteract.Buttons{
		Left:   state&uint(gdk.BUTTON1_MASK) != 0,
		Middle: state&uint(gdk.BUTTON2_MASK) != 0,
		Right:  state&uint(gdk.BUTTON3_MASK) != 0,
	}
}

func modifiersFromState(state uint) terminteract.Modifiers {
	return terminteract.Modifiers{
		Alt:   state&uint(gdk.MOD1_MASK) != 0, // Alt key
		Shift: state&uint(gdk.SHIFT_MASK) != 0,
		Ctrl:  state&uint(gdk.CONTROL_MASK) != 0,
	}
}
