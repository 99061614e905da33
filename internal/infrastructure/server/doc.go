// Package server provides the shared embedded HTTP server of the host.
//
// Ordinary routes (health, metrics, websocket streams) are registered on the
// gin router. Services that own a whole path prefix implement RequestHandler
// and are mounted instead; requests no route matches are offered to each
// mounted handler in mount order until one processes them. A request no
// handler accepts gets a JSON 404.
//
// The server binds on Start and reports the bound port through Port, which is
// 0 while the server is not listening.
package server
