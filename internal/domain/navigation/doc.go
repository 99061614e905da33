/*
Package navigation bridges control requests from any goroutine into surface
mutations on the UI loop.

# Open

Open runs in the caller's goroutine and never touches a surface:

	Received   -> request id assigned
	Validated  -> url trimmed, blank rejected with ErrInvalidURL
	Resolved   -> an open workspace exists, otherwise ErrUnavailable
	Scheduled  -> navigation task posted to the UI loop
	Responded  -> result returned without waiting for the task

The posted task shows the Browser tool window of the first open workspace,
which materializes the surface on first use, resolves the surface through the
registry and loads the URL. If the task cannot be posted the failure is logged
and counted and the result reports Scheduled=false.

# Content

BrowserContent is the content factory of the Browser tool window. It creates
the surface, stores it in the container's user data and registers it so that
disposing the container unregisters it.
*/
package navigation
