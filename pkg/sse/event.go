// Package sse reads Server-Sent Events from a streaming HTTP response body.
//
// Only the client side is implemented: events are parsed from an upstream
// io.Reader and, optionally, the raw bytes are copied to a trace writer for
// debugging.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n".
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}
