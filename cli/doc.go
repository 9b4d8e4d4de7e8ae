// Package cli adapts mouse input for a terminal control hosted inside an
// actual CLI terminal ("terminal within a terminal").
//
// The host terminal reports mouse activity as X10 or SGR escape sequences
// on stdin. This package switches stdin to raw mode, enables mouse
// reporting, decodes the reports into pointer events and routes them
// through a terminteract router; all other input bytes are passed to a key
// callback for the host application to interpret.
//
// # Basic Usage
//
//	router := terminteract.NewInteractivity(core, terminteract.Config{})
//
//	input := cli.NewInputHandler(router)
//	input.SetKeyCallback(func(keys []byte) {
//	    // forward keystrokes to the connected program
//	})
//	if err := input.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer input.Stop()
//
// Positions in mouse reports are terminal cells, so the hosting core
// should report a 1x1 font cell size at render scale 1.
package cli
