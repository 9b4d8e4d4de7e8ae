package terminteract

import "time"

// defaultDoubleClickInterval is used when the host environment cannot
// supply a configured double-click interval.
const defaultDoubleClickInterval = 500 * time.Millisecond

// MultiClickDetector turns a stream of pointer-down positions and
// timestamps into click-streak counts for double and triple click support.
// It is not safe for concurrent use; the router calls it from the input
// thread only.
type MultiClickDetector struct {
	lastClickPos  Point
	lastClickTime uint64
	clickCounter  int
	window        uint64 // microseconds
}

// NewMultiClickDetector creates a detector using the host's double-click
// interval. A zero or negative interval falls back to the platform-typical
// 500ms default.
func NewMultiClickDetector(doubleClickInterval time.Duration) *MultiClickDetector {
	d := &MultiClickDetector{}
	d.SetDoubleClickInterval(doubleClickInterval)
	return d
}

// SetDoubleClickInterval updates the streak window. An in-progress streak
// is judged against the new window on the next click.
func (d *MultiClickDetector) SetDoubleClickInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultDoubleClickInterval
	}
	d.window = uint64(interval.Microseconds())
}

// NumberOfClicks registers a click at the given position and monotonic
// timestamp (microseconds) and returns the length of the current click
// streak: 1 for a fresh click, 2 for a double, and so on without bound.
//
// A click at a different position, or past the streak window, starts a new
// streak. A timestamp earlier than the previous click's (clock regression)
// also starts a new streak rather than failing.
func (d *MultiClickDetector) NumberOfClicks(pos Point, timestamp uint64) int {
	continues := pos == d.lastClickPos &&
		timestamp >= d.lastClickTime &&
		timestamp-d.lastClickTime <= d.window

	if continues {
		d.clickCounter++
	} else {
		d.clickCounter = 1
	}

	d.lastClickPos = pos
	d.lastClickTime = timestamp
	return d.clickCounter
}
