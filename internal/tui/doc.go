// Package tui renders the browser tool window in a terminal.
//
// The model subscribes to the surface hub and redraws on every state snapshot.
// Key presses map to browser command ids and are handed to an Executor, which
// schedules them on the UI loop; the model itself never touches the surface.
//
//	b back    f forward   r reload   h home
//	+ zoom in - zoom out  0 reset    d devtools
//	o open a URL          q quit
package tui
