// Package terminteracttcell feeds tcell mouse events into a terminteract
// router, for terminal controls hosted inside another terminal.
//
// tcell reports positions in cells already, so cell coordinates double as
// the physical device coordinates: the hosting core should report a 1x1
// font cell size at scale 1.
package terminteracttcell

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phroun/terminteract"
)

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// Adapter translates tcell.EventMouse values into pointer events. tcell
// only reports the live button mask, so the adapter tracks the previous
// mask to recover which button transitioned.
type Adapter struct {
	router  *terminteract.Interactivity
	prev    tcell.ButtonMask
	epoch   time.Time
	focused bool
}

// New creates an adapter for the given router.
func New(router *terminteract.Interactivity) *Adapter {
	return &Adapter{
		router:  router,
		epoch:   time.Now(),
		focused: true,
	}
}

// SetFocused updates the focus hint passed to the router. Hosts that
// multiplex several controls call this as focus moves between them.
func (a *Adapter) SetFocused(focused bool) {
	a.focused = focused
	if focused {
		a.router.GainFocus()
	} else {
		a.router.LostFocus()
	}
}

// HandleMouse routes one tcell mouse event.
func (a *Adapter) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	cell := terminteract.Cell{Col: x, Row: y}
	mods := translateModifiers(ev.Modifiers())
	buttons := ev.Buttons()

	pe := terminteract.PointerEvent{
		Device:    terminteract.DeviceMouse,
		Pos:       terminteract.Point{X: float64(x), Y: float64(y)},
		Timestamp: uint64(ev.When().Sub(a.epoch).Microseconds()),
		Buttons:   buttonState(buttons),
	}

	if delta, horizontal, ok := wheelDelta(buttons); ok {
		pe.WheelDelta = delta
		pe.HorizontalWheel = horizontal
		a.router.MouseWheel(pe, mods, cell)
		return
	}

	pe.Update = transition(a.prev, buttons)
	a.prev = buttons &^ wheelMask

	switch pe.Update {
	case terminteract.UpdateLeftButtonPressed,
		terminteract.UpdateMiddleButtonPressed,
		terminteract.UpdateRightButtonPressed:
		a.router.PointerPressed(pe, mods, a.focused, cell)
	case terminteract.UpdateLeftButtonReleased,
		terminteract.UpdateMiddleButtonReleased,
		terminteract.UpdateRightButtonReleased:
		a.router.PointerReleased(pe, mods, a.focused, cell)
	default:
		a.router.PointerMoved(pe, mods, a.focused, cell)
	}
}

// transition recovers the button transition between two button masks.
// tcell's Button1 is the primary (left) button, Button2 the secondary
// (right) and Button3 the middle one.
func transition(prev, cur tcell.ButtonMask) terminteract.UpdateKind {
	switch {
	case cur&tcell.Button1 != 0 && prev&tcell.Button1 == 0:
		return terminteract.UpdateLeftButtonPressed
	case cur&tcell.Button1 == 0 && prev&tcell.Button1 != 0:
		return terminteract.UpdateLeftButtonReleased
	case cur&tcell.Button3 != 0 && prev&tcell.Button3 == 0:
		return terminteract.UpdateMiddleButtonPressed
	case cur&tcell.Button3 == 0 && prev&tcell.Button3 != 0:
		return terminteract.UpdateMiddleButtonReleased
	case cur&tcell.Button2 != 0 && prev&tcell.Button2 == 0:
		return terminteract.UpdateRightButtonPressed
	case cur&tcell.Button2 == 0 && prev&tcell.Button2 != 0:
		return terminteract.UpdateRightButtonReleased
	default:
		return terminteract.UpdateOther
	}
}

func buttonState(mask tcell.ButtonMask) terminteract.Buttons {
	return terminteract.Buttons{
		Left:   mask&tcell.Button1 != 0,
		Middle: mask&tcell.Button3 != 0,
		Right:  mask&tcell.Button2 != 0,
	}
}

func wheelDelta(mask tcell.ButtonMask) (delta int, horizontal, ok bool) {
	switch {
	case mask&tcell.WheelUp != 0:
		return terminteract.WheelDeltaNotch, false, true
	case mask&tcell.WheelDown != 0:
		return -terminteract.WheelDeltaNotch, false, true
	case mask&tcell.WheelLeft != 0:
		return terminteract.WheelDeltaNotch, true, true
	case mask&tcell.WheelRight != 0:
		return -terminteract.WheelDeltaNotch, true, true
	}
	return 0, false, false
}

func translateModifiers(mods tcell.ModMask) terminteract.Modifiers {
	return terminteract.Modifiers{
		Alt:   mods&tcell.ModAlt != 0,
		Shift: mods&tcell.ModShift != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
	}
}
