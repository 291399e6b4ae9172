package sse

import (
	"bufio"
	"io"
	"strings"
)

const (
	initialBufferSize = 64 * 1024
	maxLineSize       = 1024 * 1024
)

// Reader parses SSE events from a source io.Reader.
//
// When a trace writer is configured, every raw line read from the source is
// copied to it verbatim before it is parsed:
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌─────────────────┐
// │  Reader.Next()   │──▶│ trace io.Writer │
// └──────────────────┘   └─────────────────┘
// │
// ▼
// ┌──────────────────┐
// │      Event       │
// └──────────────────┘
type Reader struct {
	scanner *bufio.Scanner
	trace   io.Writer

	// current accumulates fields for the event being built.
	current Event
	hasData bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithTrace copies every raw line read from the source to w.
func WithTrace(w io.Writer) ReaderOption {
	return func(r *Reader) {
		r.trace = w
	}
}

// NewReader returns a Reader that parses SSE events from src.
func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, initialBufferSize), maxLineSize)

	r := &Reader{scanner: scanner}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next blocks until a complete event is available (terminated by a blank
// line) and returns it. Next returns io.EOF when the source is exhausted.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		raw := r.scanner.Text()

		if r.trace != nil {
			// bufio.Scanner strips the newline, so reinsert it.
			if _, err := io.WriteString(r.trace, raw+"\n"); err != nil {
				return Event{}, err
			}
		}

		// A blank line signals the end of the current event.
		if raw == "" {
			if r.hasData {
				return r.take(), nil
			}

			// Blank line with nothing accumulated: leading blank lines or
			// keep-alive newlines.
			continue
		}

		// Lines starting with ':' are comments.
		if strings.HasPrefix(raw, ":") {
			continue
		}

		r.parseLine(raw)
	}

	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}

	// The stream ended without a trailing blank line; yield what was built.
	if r.hasData {
		return r.take(), nil
	}

	return Event{}, io.EOF
}

// parseLine accumulates a single "field:value" line into the current event.
// A single leading space after the colon is stripped.
func (r *Reader) parseLine(line string) {
	field, value, ok := strings.Cut(line, ":")
	if ok {
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "data":
		if r.hasData && r.current.Data != "" {
			r.current.Data += "\n"
		}
		r.current.Data += value
		r.hasData = true
	case "event":
		r.current.Type = value
		r.hasData = true
	case "id":
		r.current.ID = value
		r.hasData = true
	default:
		// "retry" and unknown fields are ignored.
	}
}

// take returns the accumulated event and resets for the next one.
func (r *Reader) take() Event {
	ev := r.current
	r.current = Event{}
	r.hasData = false
	return ev
}
