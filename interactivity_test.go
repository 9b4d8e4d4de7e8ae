package terminteract

import (
	"testing"
)

type leftClickCall struct {
	cell               Cell
	clickCount         int
	alt, shift         bool
	onOriginalPosition bool
	pendingCopy        bool
}

type sentMouseCall struct {
	cell       Cell
	button     MouseButton
	mods       Modifiers
	wheelDelta int
	state      Buttons
}

type copyCall struct {
	singleLine bool
	formats    *CopyFormat
}

// mockCore records every collaborator call the router makes.
type mockCore struct {
	hasSelection bool
	copyOnSelect bool
	readOnly     bool
	vtMouse      bool
	hyperlinks   map[Cell]string
	fontW, fontH float64
	scale        float64
	scrollOffset float64

	// leftClickPending, when set, is the pending-copy state
	// LeftClickOnTerminal returns (the core may flip it when a
	// multi-click creates a selection).
	leftClickPending func(pendingCopy bool) bool

	leftClicks []leftClickCall
	sent       []sentMouseCall
	anchors    []Cell
	ends       []Cell
	hovered    []Cell
	scrolled   []float64
	copies     []copyCall
	pasted     []string
}

func newMockCore() *mockCore {
	return &mockCore{fontW: 8, fontH: 16, scale: 1}
}

func (m *mockCore) HasSelection() bool { return m.hasSelection }

func (m *mockCore) CopyOnSelect() bool { return m.copyOnSelect }

func (m *mockCore) IsInReadOnlyMode() bool { return m.readOnly }

func (m *mockCore) IsVtMouseModeEnabled() bool { return m.vtMouse }

func (m *mockCore) HyperlinkAt(cell Cell) string { return m.hyperlinks[cell] }

func (m *mockCore) SetSelectionAnchor(cell Cell) {
	m.anchors = append(m.anchors, cell)
	m.hasSelection = true
}

func (m *mockCore) SetEndSelectionPoint(cell Cell) {
	m.ends = append(m.ends, cell)
}

func (m *mockCore) LeftClickOnTerminal(cell Cell, clickCount int, alt, shift, onOriginalPosition, pendingCopy bool) bool {
	m.leftClicks = append(m.leftClicks, leftClickCall{cell, clickCount, alt, shift, onOriginalPosition, pendingCopy})
	if m.leftClickPending != nil {
		return m.leftClickPending(pendingCopy)
	}
	return pendingCopy
}

func (m *mockCore) SendMouseEvent(cell Cell, button MouseButton, mods Modifiers, wheelDelta int, state Buttons) bool {
	m.sent = append(m.sent, sentMouseCall{cell, button, mods, wheelDelta, state})
	return true
}

func (m *mockCore) UpdateHoveredCell(cell Cell) { m.hovered = append(m.hovered, cell) }

func (m *mockCore) UserScrollViewport(offset float64) {
	m.scrolled = append(m.scrolled, offset)
	m.scrollOffset = offset
}

func (m *mockCore) ScrollOffset() float64 { return m.scrollOffset }

func (m *mockCore) FontCellSize() (w, h float64) { return m.fontW, m.fontH }

func (m *mockCore) RendererScale() float64 { return m.scale }

func (m *mockCore) CopySelectionToClipboard(singleLine bool, formats *CopyFormat) bool {
	m.copies = append(m.copies, copyCall{singleLine, formats})
	return m.hasSelection
}

func (m *mockCore) PasteText(text string) { m.pasted = append(m.pasted, text) }

func leftPress(x, y float64, ts uint64) PointerEvent {
	return PointerEvent{
		Device:    DeviceMouse,
		Pos:       Point{X: x, Y: y},
		Timestamp: ts,
		Buttons:   Buttons{Left: true},
		Update:    UpdateLeftButtonPressed,
	}
}

func leftRelease(x, y float64, ts uint64) PointerEvent {
	return PointerEvent{
		Device:    DeviceMouse,
		Pos:       Point{X: x, Y: y},
		Timestamp: ts,
		Update:    UpdateLeftButtonReleased,
	}
}

func rightPress(x, y float64, ts uint64) PointerEvent {
	return PointerEvent{
		Device:    DeviceMouse,
		Pos:       Point{X: x, Y: y},
		Timestamp: ts,
		Buttons:   Buttons{Right: true},
		Update:    UpdateRightButtonPressed,
	}
}

func leftDrag(x, y float64) PointerEvent {
	return PointerEvent{
		Device:  DeviceMouse,
		Pos:     Point{X: x, Y: y},
		Buttons: Buttons{Left: true},
	}
}

func touchAt(x, y float64) PointerEvent {
	return PointerEvent{
		Device:      DeviceTouch,
		ContactRect: Rect{X: x, Y: y, W: 8, H: 8},
	}
}

func TestLeftClickCountCyclesAfterTriple(t *testing.T) {
	core := newMockCore()
	in := NewInteractivity(core, Config{})

	// Six presses at the same spot, well inside the streak window.
	for i := 0; i < 6; i++ {
		in.PointerPressed(leftPress(10, 5, uint64(i)*1000), Modifiers{}, true, Cell{Col: 2, Row: 1})
	}

	want := []int{1, 2, 3, 1, 2, 3}
	if len(core.leftClicks) != len(want) {
		t.Fatalf("got %d left clicks, want %d", len(core.leftClicks), len(want))
	}
	for i, lc := range core.leftClicks {
		if lc.clickCount != want[i] {
			t.Errorf("press %d: clickCount = %d, want %d", i+1, lc.clickCount, want[i])
		}
	}
}

func TestHyperlinkBeatsVTMouse(t *testing.T) {
	core := newMockCore()
	core.vtMouse = true
	core.hyperlinks = map[Cell]string{{Col: 2, Row: 1}: "https://example.com"}
	in := NewInteractivity(core, Config{})

	var opened []string
	in.SetOpenHyperlinkCallback(func(uri string) { opened = append(opened, uri) })

	mods := Modifiers{Ctrl: true}
	in.PointerPressed(leftPress(10, 5, 1000), mods, true, Cell{Col: 2, Row: 1})

	if len(opened) != 1 || opened[0] != "https://example.com" {
		t.Fatalf("opened = %v, want the hyperlink", opened)
	}
	if len(core.sent) != 0 {
		t.Errorf("forwarded %d raw events despite hyperlink priority", len(core.sent))
	}
	if len(core.leftClicks) != 0 {
		t.Errorf("performed %d selection clicks despite hyperlink priority", len(core.leftClicks))
	}

	// The second click of a streak must not re-activate the link.
	in.PointerPressed(leftPress(10, 5, 2000), mods, true, Cell{Col: 2, Row: 1})
	if len(opened) != 1 {
		t.Errorf("double-click activated the hyperlink %d times, want 1", len(opened))
	}
}

func TestVTMouseForwardsPress(t *testing.T) {
	core := newMockCore()
	core.vtMouse = true
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if len(core.sent) != 1 {
		t.Fatalf("forwarded %d raw events, want 1", len(core.sent))
	}
	sent := core.sent[0]
	if sent.button != LeftDown {
		t.Errorf("button = %v, want LeftDown", sent.button)
	}
	if sent.cell != (Cell{Col: 2, Row: 1}) {
		t.Errorf("cell = %v, want {2 1}", sent.cell)
	}
	if !sent.state.Left {
		t.Errorf("button state does not report left held")
	}
	if len(core.leftClicks) != 0 {
		t.Errorf("performed a selection click in VT mouse mode")
	}
}

func TestShiftOverridesVTMouse(t *testing.T) {
	core := newMockCore()
	core.vtMouse = true
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{Shift: true}, true, Cell{Col: 2, Row: 1})

	if len(core.sent) != 0 {
		t.Errorf("forwarded %d raw events despite shift override", len(core.sent))
	}
	if len(core.leftClicks) != 1 {
		t.Fatalf("got %d selection clicks, want 1", len(core.leftClicks))
	}
	if !core.leftClicks[0].shift {
		t.Errorf("shift modifier not passed through to the click handler")
	}
}

func TestPressRecordsTouchdownAndReleaseClears(t *testing.T) {
	core := newMockCore()
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if in.touchdownPos == nil || *in.touchdownPos != (Point{X: 10, Y: 5}) {
		t.Fatalf("touchdownPos = %v, want (10,5)", in.touchdownPos)
	}
	if in.touchdownCell == nil || *in.touchdownCell != (Cell{Col: 2, Row: 1}) {
		t.Fatalf("touchdownCell = %v, want {2 1}", in.touchdownCell)
	}
	if !core.leftClicks[0].onOriginalPosition {
		t.Errorf("first press at a fresh position should be on the original position")
	}

	in.PointerReleased(leftRelease(10, 5, 1500), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if len(core.copies) != 0 {
		t.Errorf("stationary click copied without copy-on-select")
	}
	if in.touchdownPos != nil || in.touchdownCell != nil {
		t.Errorf("release did not clear the touchdown anchors")
	}
}

func TestDragPastThresholdCommitsAnchorAtMoveCell(t *testing.T) {
	core := newMockCore()
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 1, Row: 0})

	// Font cell is 8x16 at scale 1, so the threshold is 8/4 = 2. Move 1px
	// first: below threshold, no anchor yet, but the end point extends.
	in.PointerMoved(leftDrag(11, 5), Modifiers{}, true, Cell{Col: 1, Row: 0})
	if len(core.anchors) != 0 {
		t.Fatalf("anchor committed below the drag threshold")
	}
	if len(core.ends) != 1 {
		t.Fatalf("end point not extended on move")
	}

	// Now move well past the threshold to another cell.
	in.PointerMoved(leftDrag(42, 5), Modifiers{}, true, Cell{Col: 5, Row: 0})
	if len(core.anchors) != 1 || core.anchors[0] != (Cell{Col: 5, Row: 0}) {
		t.Fatalf("anchors = %v, want the move's cell {5 0}", core.anchors)
	}
	if in.touchdownPos != nil {
		t.Errorf("touchdown tracking not cleared after the anchor committed")
	}
	if !in.selectionNeedsCopy {
		t.Errorf("drag did not mark the selection as pending a copy")
	}
	if len(core.hovered) != 2 {
		t.Errorf("hovered cell updated %d times, want 2", len(core.hovered))
	}
}

func TestRightClickPastesWithCopyOnSelect(t *testing.T) {
	core := newMockCore()
	core.copyOnSelect = true
	core.hasSelection = true
	in := NewInteractivity(core, Config{})

	requests := 0
	in.SetPasteRequestedCallback(func(deliver func(text string)) {
		requests++
		deliver("pasted")
	})

	in.PointerPressed(rightPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if requests != 1 {
		t.Fatalf("paste requested %d times, want 1", requests)
	}
	if len(core.pasted) != 1 || core.pasted[0] != "pasted" {
		t.Fatalf("pasted = %v, want delivered clipboard text", core.pasted)
	}
	if len(core.copies) != 0 {
		t.Errorf("right click copied despite copy-on-select")
	}
}

func TestRightClickCopiesActiveSelection(t *testing.T) {
	core := newMockCore()
	core.hasSelection = true
	in := NewInteractivity(core, Config{})

	in.PointerPressed(rightPress(10, 5, 1000), Modifiers{Shift: true}, true, Cell{Col: 2, Row: 1})

	if len(core.copies) != 1 {
		t.Fatalf("got %d copies, want 1", len(core.copies))
	}
	if !core.copies[0].singleLine {
		t.Errorf("shift+right-click should copy in single-line mode")
	}
	if core.copies[0].formats != nil {
		t.Errorf("copy format override should defer to the configured formats")
	}
}

func TestRightClickPastesWithoutSelection(t *testing.T) {
	core := newMockCore()
	in := NewInteractivity(core, Config{})

	requests := 0
	in.SetPasteRequestedCallback(func(deliver func(text string)) { requests++ })

	in.PointerPressed(rightPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if requests != 1 {
		t.Fatalf("paste requested %d times, want 1", requests)
	}
}

func TestCopyOnSelectCopiesOnLeftRelease(t *testing.T) {
	core := newMockCore()
	core.copyOnSelect = true
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 1, Row: 0})
	in.PointerMoved(leftDrag(42, 5), Modifiers{}, true, Cell{Col: 5, Row: 0})
	in.PointerReleased(leftRelease(42, 5, 2000), Modifiers{}, true, Cell{Col: 5, Row: 0})

	if len(core.copies) != 1 {
		t.Fatalf("got %d copies on release, want 1", len(core.copies))
	}
	if core.copies[0].singleLine {
		t.Errorf("copy-on-select release should not be single-line")
	}
	if in.selectionNeedsCopy {
		t.Errorf("pending-copy flag not cleared after the copy")
	}

	// A second release must not copy again.
	in.PointerReleased(leftRelease(42, 5, 2500), Modifiers{}, true, Cell{Col: 5, Row: 0})
	if len(core.copies) != 1 {
		t.Errorf("release without a pending copy copied again")
	}
}

func TestVTMouseForwardsReleaseWithoutCopy(t *testing.T) {
	core := newMockCore()
	core.vtMouse = true
	core.copyOnSelect = true
	in := NewInteractivity(core, Config{})
	in.selectionNeedsCopy = true

	in.PointerReleased(leftRelease(10, 5, 1000), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if len(core.sent) != 1 || core.sent[0].button != LeftUp {
		t.Fatalf("sent = %v, want one LeftUp forward", core.sent)
	}
	if len(core.copies) != 0 {
		t.Errorf("VT-forwarded release still performed a copy")
	}
	if in.touchdownPos != nil {
		t.Errorf("release did not clear the touchdown anchors")
	}
}

func TestVTMouseMoveSuppressedInReadOnlyMode(t *testing.T) {
	core := newMockCore()
	core.vtMouse = true
	core.readOnly = true
	in := NewInteractivity(core, Config{})

	in.PointerMoved(leftDrag(10, 5), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if len(core.sent) != 0 {
		t.Errorf("forwarded a raw move in read-only mode")
	}
	// The event falls through to local selection handling instead.
	if len(core.ends) != 1 {
		t.Errorf("read-only move did not extend the selection locally")
	}
}

func TestUnfocusedMouseMoveOnlyHovers(t *testing.T) {
	core := newMockCore()
	core.vtMouse = true
	in := NewInteractivity(core, Config{})

	in.PointerMoved(leftDrag(10, 5), Modifiers{}, false, Cell{Col: 2, Row: 1})

	if len(core.sent) != 0 || len(core.ends) != 0 {
		t.Errorf("unfocused move forwarded or selected")
	}
	if len(core.hovered) != 1 {
		t.Errorf("hovered cell updated %d times, want 1", len(core.hovered))
	}
}

func TestTouchPanScrollsByRows(t *testing.T) {
	core := newMockCore()
	core.scrollOffset = 10
	in := NewInteractivity(core, Config{})

	in.PointerPressed(touchAt(50, 100), Modifiers{}, true, Cell{})
	if in.touchAnchor == nil || *in.touchAnchor != (Point{X: 50, Y: 100}) {
		t.Fatalf("touchAnchor = %v, want contact rect origin (50,100)", in.touchAnchor)
	}

	// Half a cell height (8) is the dead zone: no scroll yet.
	in.PointerMoved(touchAt(50, 108), Modifiers{}, true, Cell{})
	if len(core.scrolled) != 0 {
		t.Fatalf("panned inside the dead zone")
	}

	// Drag down two cell heights: viewport pans up by exactly 2 rows.
	in.PointerMoved(touchAt(50, 132), Modifiers{}, true, Cell{})
	if len(core.scrolled) != 1 || core.scrolled[0] != 8 {
		t.Fatalf("scrolled = %v, want [8] (10 - 2 rows)", core.scrolled)
	}
	if *in.touchAnchor != (Point{X: 50, Y: 132}) {
		t.Errorf("pan anchor did not advance to the new contact point")
	}

	// Release ends the pan; further moves do nothing.
	in.PointerReleased(touchAt(50, 132), Modifiers{}, true, Cell{})
	if in.touchAnchor != nil {
		t.Fatalf("touch release did not clear the pan anchor")
	}
	in.PointerMoved(touchAt(50, 200), Modifiers{}, true, Cell{})
	if len(core.scrolled) != 1 {
		t.Errorf("move without a pan anchor scrolled the viewport")
	}
}

func TestMouseWheelScrollsLocally(t *testing.T) {
	core := newMockCore()
	core.scrollOffset = 5
	in := NewInteractivity(core, Config{})

	ev := PointerEvent{Device: DeviceMouse, WheelDelta: WheelDeltaNotch}
	if !in.MouseWheel(ev, Modifiers{}, Cell{}) {
		t.Fatalf("wheel event not handled")
	}
	// One notch up scrolls 3 rows toward the scrollback.
	if len(core.scrolled) != 1 || core.scrolled[0] != 2 {
		t.Fatalf("scrolled = %v, want [2]", core.scrolled)
	}
}

func TestMouseWheelForwardsInVTMouseMode(t *testing.T) {
	core := newMockCore()
	core.vtMouse = true
	in := NewInteractivity(core, Config{})

	ev := PointerEvent{Device: DeviceMouse, WheelDelta: -WheelDeltaNotch}
	in.MouseWheel(ev, Modifiers{}, Cell{Col: 3, Row: 4})

	if len(core.sent) != 1 {
		t.Fatalf("forwarded %d wheel events, want 1", len(core.sent))
	}
	if core.sent[0].button != WheelScroll {
		t.Errorf("button = %v, want WheelScroll", core.sent[0].button)
	}
	if core.sent[0].wheelDelta != -WheelDeltaNotch {
		t.Errorf("wheelDelta = %d, want %d", core.sent[0].wheelDelta, -WheelDeltaNotch)
	}
	if len(core.scrolled) != 0 {
		t.Errorf("also scrolled locally")
	}
}

func TestPendingCopyReturnedByCore(t *testing.T) {
	core := newMockCore()
	core.copyOnSelect = true
	// Simulate the core creating a selection on a double click and
	// flagging it for copy.
	core.leftClickPending = func(pendingCopy bool) bool { return true }
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 2, Row: 1})
	in.PointerPressed(leftPress(10, 5, 1100), Modifiers{}, true, Cell{Col: 2, Row: 1})
	in.PointerReleased(leftRelease(10, 5, 1200), Modifiers{}, true, Cell{Col: 2, Row: 1})

	if len(core.copies) != 1 {
		t.Fatalf("double-click selection not copied on release, copies = %d", len(core.copies))
	}
}

func TestSecondPressElsewhereIsNotOriginalPosition(t *testing.T) {
	core := newMockCore()
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 1, Row: 0})
	core.hasSelection = true
	in.PointerPressed(leftPress(80, 40, 5_000_000), Modifiers{}, true, Cell{Col: 9, Row: 2})

	if len(core.leftClicks) != 2 {
		t.Fatalf("got %d left clicks, want 2", len(core.leftClicks))
	}
	if core.leftClicks[1].onOriginalPosition {
		t.Errorf("press at a new position with a selection active reported as original position")
	}
}

func TestFirstPressWithSelectionIsNotOriginalPosition(t *testing.T) {
	core := newMockCore()
	core.hasSelection = true
	in := NewInteractivity(core, Config{})

	// No press without a selection has happened yet, so even the device
	// origin must not count as the original position.
	in.PointerPressed(leftPress(0, 0, 1000), Modifiers{}, true, Cell{})

	if len(core.leftClicks) != 1 {
		t.Fatalf("got %d left clicks, want 1", len(core.leftClicks))
	}
	if core.leftClicks[0].onOriginalPosition {
		t.Errorf("press with no recorded click position reported as original position")
	}
}

func TestFractionalFontMetricsRoundDragThreshold(t *testing.T) {
	core := newMockCore()
	core.fontW = 8.4
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 1, Row: 0})

	// The 8.4px cell width rounds to 8, so the threshold is 2, not 2.1; a
	// 2.05px move already commits the drag.
	in.PointerMoved(leftDrag(12.05, 5), Modifiers{}, true, Cell{Col: 1, Row: 0})
	if len(core.anchors) != 1 {
		t.Fatalf("anchor not committed at the rounded threshold, anchors = %v", core.anchors)
	}
}

func TestLostFocusClearsAnchors(t *testing.T) {
	core := newMockCore()
	in := NewInteractivity(core, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{}, true, Cell{Col: 1, Row: 0})
	in.PointerPressed(touchAt(50, 100), Modifiers{}, true, Cell{})

	in.LostFocus()
	in.LostFocus() // idempotent

	if in.touchdownPos != nil || in.touchdownCell != nil || in.touchAnchor != nil {
		t.Errorf("LostFocus left anchors behind")
	}
}

func TestUnknownDeviceIgnored(t *testing.T) {
	core := newMockCore()
	in := NewInteractivity(core, Config{})

	ev := PointerEvent{Device: DeviceType(99), Buttons: Buttons{Left: true}}
	in.PointerPressed(ev, Modifiers{}, true, Cell{})
	in.PointerMoved(ev, Modifiers{}, true, Cell{})
	in.PointerReleased(ev, Modifiers{}, true, Cell{})

	if len(core.leftClicks)+len(core.sent)+len(core.hovered)+len(core.ends) != 0 {
		t.Errorf("events from an unknown device type reached the core")
	}
}

func TestNilCoreIsSafe(t *testing.T) {
	in := NewInteractivity(nil, Config{})

	in.PointerPressed(leftPress(10, 5, 1000), Modifiers{Ctrl: true}, true, Cell{})
	in.PointerMoved(leftDrag(20, 5), Modifiers{}, true, Cell{})
	in.PointerReleased(leftRelease(20, 5, 2000), Modifiers{}, true, Cell{})
	in.MouseWheel(PointerEvent{Device: DeviceMouse, WheelDelta: 120}, Modifiers{}, Cell{})

	if in.CopySelectionToClipboard(false, nil) {
		t.Errorf("copy with no core should return false")
	}
}
