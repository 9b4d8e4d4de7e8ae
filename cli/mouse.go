package cli

import (
	"time"

	"github.com/phroun/terminteract"
)

// Wheel button codes in the mouse report button field
const (
	wheelUpCode    = 64
	wheelDownCode  = 65
	wheelLeftCode  = 66
	wheelRightCode = 67
)

// MouseDecoder turns SGR (CSI < b;x;y M/m) and X10 (CSI M bxy) mouse
// reports from the host terminal into pointer events. Positions arrive in
// cells, so cell coordinates double as device coordinates; the hosting
// core should report a 1x1 font cell at scale 1.
type MouseDecoder struct {
	router  *terminteract.Interactivity
	epoch   time.Time
	buttons terminteract.Buttons
}

// NewMouseDecoder creates a decoder routing into the given router.
func NewMouseDecoder(router *terminteract.Interactivity) *MouseDecoder {
	return &MouseDecoder{
		router: router,
		epoch:  time.Now(),
	}
}

// Decode attempts to parse one mouse report at the start of data. It
// returns the number of bytes consumed; 0 means data does not start with a
// mouse report. incomplete reports that data is a prefix of a report and
// more bytes are needed.
func (d *MouseDecoder) Decode(data []byte) (consumed int, incomplete bool) {
	if len(data) == 0 || data[0] != 0x1b {
		return 0, false
	}
	if len(data) == 1 {
		return 0, true
	}
	if data[1] != '[' {
		return 0, false
	}
	if len(data) == 2 {
		return 0, true
	}

	switch data[2] {
	case '<':
		return d.decodeSGR(data)
	case 'M':
		return d.decodeX10(data)
	}
	return 0, false
}

// decodeSGR parses ESC [ < b ; x ; y M|m.
func (d *MouseDecoder) decodeSGR(data []byte) (consumed int, incomplete bool) {
	fields := [3]int{}
	field := 0
	i := 3
	for ; i < len(data); i++ {
		b := data[i]
		switch {
		case b >= '0' && b <= '9':
			fields[field] = fields[field]*10 + int(b-'0')
		case b == ';':
			field++
			if field > 2 {
				return 0, false
			}
		case b == 'M' || b == 'm':
			if field != 2 {
				return 0, false
			}
			d.route(fields[0], fields[1]-1, fields[2]-1, b == 'm')
			return i + 1, false
		default:
			return 0, false
		}
		if i-3 > 24 { // no plausible report is this long
			return 0, false
		}
	}
	return 0, true
}

// decodeX10 parses ESC [ M b x y with the +32 offset encoding. X10
// releases don't name the button, so the tracked state stands in.
func (d *MouseDecoder) decodeX10(data []byte) (consumed int, incomplete bool) {
	if len(data) < 6 {
		return 0, true
	}
	code := int(data[3]) - 32
	col := int(data[4]) - 32 - 1
	row := int(data[5]) - 32 - 1
	d.route(code, col, row, code&3 == 3 && code&wheelUpCode == 0)
	return 6, false
}

// route dispatches one decoded report. code carries the button in its low
// two bits plus modifier, motion and wheel flags.
func (d *MouseDecoder) route(code, col, row int, release bool) {
	cell := terminteract.Cell{Col: col, Row: row}
	mods := terminteract.Modifiers{
		Shift: code&4 != 0,
		Alt:   code&8 != 0,
		Ctrl:  code&16 != 0,
	}
	motion := code&32 != 0

	pe := terminteract.PointerEvent{
		Device:    terminteract.DeviceMouse,
		Pos:       terminteract.Point{X: float64(col), Y: float64(row)},
		Timestamp: uint64(time.Since(d.epoch).Microseconds()),
	}

	if code&wheelUpCode != 0 {
		switch code &^ (4 | 8 | 16 | 32) { // strip modifier and motion bits
		case wheelUpCode:
			pe.WheelDelta = terminteract.WheelDeltaNotch
		case wheelDownCode:
			pe.WheelDelta = -terminteract.WheelDeltaNotch
		case wheelLeftCode:
			pe.WheelDelta = terminteract.WheelDeltaNotch
			pe.HorizontalWheel = true
		case wheelRightCode:
			pe.WheelDelta = -terminteract.WheelDeltaNotch
			pe.HorizontalWheel = true
		}
		pe.Buttons = d.buttons
		d.router.MouseWheel(pe, mods, cell)
		return
	}

	if motion {
		pe.Buttons = d.buttons
		d.router.PointerMoved(pe, mods, true, cell)
		return
	}

	button := code & 3
	if release && button == 3 {
		// X10 release: fall back to whichever button we saw go down.
		switch {
		case d.buttons.Left:
			button = 0
		case d.buttons.Middle:
			button = 1
		case d.buttons.Right:
			button = 2
		}
	}

	switch button {
	case 0:
		d.buttons.Left = !release
		if release {
			pe.Update = terminteract.UpdateLeftButtonReleased
		} else {
			pe.Update = terminteract.UpdateLeftButtonPressed
		}
	case 1:
		d.buttons.Middle = !release
		if release {
			pe.Update = terminteract.UpdateMiddleButtonReleased
		} else {
			pe.Update = terminteract.UpdateMiddleButtonPressed
		}
	case 2:
		d.buttons.Right = !release
		if release {
			pe.Update = terminteract.UpdateRightButtonReleased
		} else {
			pe.Update = terminteract.UpdateRightButtonPressed
		}
	default:
		// "no button" without the motion flag: treat as a plain move.
		pe.Buttons = d.buttons
		d.router.PointerMoved(pe, mods, true, cell)
		return
	}
	pe.Buttons = d.buttons

	if release {
		d.router.PointerReleased(pe, mods, true, cell)
	} else {
		d.router.PointerPressed(pe, mods, true, cell)
	}
}
