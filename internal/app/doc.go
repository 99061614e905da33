// Package app composes the ide-browser host process.
//
// Host wires the single-threaded UI loop, the workspace and tool window model,
// the surface registry and state hub, the navigation service, the shared
// loopback server with its prefix handlers, the launcher and, optionally, the
// terminal tool window.
//
// Startup order:
//
//  1. bind the shared server (the endpoint becomes known)
//  2. run the UI loop
//  3. open the configured workspace
//  4. start the configured launch profile
//  5. show the terminal tool window when enabled
//
// Shutdown runs in reverse order when the context is cancelled, the server
// fails, or the terminal tool window is closed.
//
// Example Usage:
//
//	host, err := app.New(config.LoadOrDefault())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer host.Logger().Sync()
//	if err := host.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package app
