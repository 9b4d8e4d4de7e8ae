package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/phroun/terminteract"
)

// Mouse reporting modes: button events, drag events, SGR extended coords
const (
	mouseEnable  = "\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	mouseDisable = "\x1b[?1006l\x1b[?1002l\x1b[?1000l"
)

// InputHandler reads raw input from the host terminal, routes decoded
// mouse reports to the router, and hands every other byte to the key
// callback untouched.
type InputHandler struct {
	decoder  *MouseDecoder
	onKeys   func([]byte)
	oldState *term.State
	stop     chan struct{}

	// pending holds an incomplete report prefix between reads. A bare ESC
	// press is delivered together with the next input batch.
	pending []byte
}

// NewInputHandler creates a handler routing mouse input into the given
// router.
func NewInputHandler(router *terminteract.Interactivity) *InputHandler {
	return &InputHandler{
		decoder: NewMouseDecoder(router),
		stop:    make(chan struct{}),
	}
}

// SetKeyCallback sets the callback receiving non-mouse input bytes.
func (h *InputHandler) SetKeyCallback(fn func([]byte)) {
	h.onKeys = fn
}

// Start switches stdin to raw mode, enables mouse reporting and begins
// reading input.
func (h *InputHandler) Start() error {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	h.oldState = oldState
	os.Stdout.WriteString(mouseEnable)

	go h.inputLoop()
	return nil
}

// Stop disables mouse reporting and restores the terminal state.
func (h *InputHandler) Stop() {
	close(h.stop)
	os.Stdout.WriteString(mouseDisable)
	if h.oldState != nil {
		term.Restore(int(os.Stdin.Fd()), h.oldState)
		h.oldState = nil
	}
}

func (h *InputHandler) inputLoop() {
	buf := make([]byte, 256)
	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		h.process(buf[:n])
	}
}

// process splits mouse reports out of the input stream, holding incomplete
// report prefixes until the next read.
func (h *InputHandler) process(data []byte) {
	if len(h.pending) > 0 {
		combined := append([]byte{}, h.pending...)
		data = append(combined, data...)
		h.pending = nil
	}

	keys := make([]byte, 0, len(data))
	for len(data) > 0 {
		consumed, incomplete := h.decoder.Decode(data)
		if incomplete {
			h.pending = append([]byte{}, data...)
			break
		}
		if consumed > 0 {
			data = data[consumed:]
			continue
		}
		keys = append(keys, data[0])
		data = data[1:]
	}

	if len(keys) > 0 && h.onKeys != nil {
		h.onKeys(keys)
	}
}
