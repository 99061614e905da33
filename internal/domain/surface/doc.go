// Package surface implements the navigable content view shown in the Browser
// tool window: current URL, back/forward history, zoom and devtools.
//
// A Surface is confined to the UI loop. Navigation failures never surface as
// errors; blank URLs and out-of-range history moves are silent no-ops.
// Rendering is delegated to an Engine. After every mutation the surface
// publishes a State snapshot to its observer, normally a Hub.
package surface
