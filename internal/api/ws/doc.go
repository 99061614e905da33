// Package ws streams browser surface state over WebSocket.
//
// The stream is read-only: it reports what the surface shows, it never
// changes it. Navigation goes through the ide-browser HTTP endpoint.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Connection established
//   - state: Surface snapshot (url, history, zoom, title)
//   - pong: Reply to ping
//   - error: Unknown message type
//
// Example Usage:
//
//	handler := ws.NewHandler(hub, logger)
//	router.GET("/ws/browser", handler.HandleConnection)
package ws
