// Package server provides the HTTP front end for BlueWriter.
//
// The server is a thin translation layer: each handler decodes its request,
// calls one service operation and encodes the result. It holds no state of
// its own.
//
// # API Endpoints
//
//   - /projects/*: project CRUD, open, story listing and reordering,
//     encyclopedia listing, search, similar names and categories
//   - /stories/*: story CRUD, select, publish, unpublish, chapters, canvas
//   - /chapters/*: chapter CRUD, content, position, color, scene breaks,
//     plain text, markdown and text diff previews
//   - /encyclopedia/*: entry CRUD, open, close
//   - /state/*: open editors, modified flags, save-all
//   - /event: Server-Sent Events mirror of the event bus
//   - /health: liveness
//
// # Errors
//
// Service errors map to statuses by condition: not found is 404, a locked
// story is 409, invalid input is 400 and anything else is 500. The body is
//
//	{"error": {"code": "NOT_FOUND", "message": "story 7 not found"}}
//
// # Events
//
// Handlers run on server goroutines, so the events they publish are queued
// on the bus and delivered by the dispatch loop. The /event stream reads
// from the event.Stream mirror and sends one "message" event per envelope;
// its data is the envelope JSON ({id, kind, timestamp, payload}). A
// heartbeat comment is written every 30 seconds.
//
// # Middleware
//
// Requests pass through chi's RequestID, RealIP and Recoverer, a zerolog
// request logger and, when enabled, CORS.
package server
