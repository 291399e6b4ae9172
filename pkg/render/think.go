package render

import "strings"

const (
	// ThinkStart opens a reasoning span in the answer text.
	ThinkStart = "<think>"

	// ThinkEnd closes a reasoning span in the answer text.
	ThinkEnd = "</think>"
)

type thinkState int

const (
	// beforeThink: no start marker seen yet. Only a trailing fragment that
	// could be the beginning of a start marker is held back.
	beforeThink thinkState = iota

	// insideThink: start marker seen, waiting for the end marker. Nothing is
	// emitted.
	insideThink

	// afterThink: end marker seen and flushed. Every fragment passes through
	// untouched and is never scanned again.
	afterThink
)

// ThinkFilter removes the first <think>...</think> span from a chunked text
// stream. Markers may be split across any chunk boundary.
//
// A ThinkFilter is single use: create one per stream.
type ThinkFilter struct {
	retain bool
	emit   func(string) error

	state   thinkState
	pending string
}

// NewThinkFilter returns a filter that forwards output fragments to emit.
// When retain is true every fragment is forwarded unchanged and nothing is
// buffered.
func NewThinkFilter(retain bool, emit func(string) error) *ThinkFilter {
	return &ThinkFilter{
		retain: retain,
		emit:   emit,
	}
}

// Write feeds one fragment through the filter.
func (f *ThinkFilter) Write(chunk string) error {
	if f.retain || f.state == afterThink {
		return f.send(chunk)
	}

	f.pending += chunk

	if f.state == beforeThink {
		idx := strings.Index(f.pending, ThinkStart)
		if idx < 0 {
			hold := partialMarkerLen(f.pending, ThinkStart)
			out := f.pending[:len(f.pending)-hold]
			f.pending = f.pending[len(f.pending)-hold:]
			return f.send(out)
		}

		before := f.pending[:idx]
		f.pending = f.pending[idx+len(ThinkStart):]
		f.state = insideThink
		if err := f.send(before); err != nil {
			return err
		}
	}

	end := strings.LastIndex(f.pending, ThinkEnd)
	if end < 0 {
		// Only a possible partial end marker needs to survive to the next chunk.
		if keep := len(ThinkEnd) - 1; len(f.pending) > keep {
			f.pending = f.pending[len(f.pending)-keep:]
		}
		return nil
	}

	after := f.pending[end+len(ThinkEnd):]
	f.pending = ""
	f.state = afterThink
	return f.send(after)
}

// Flush is called once the input is exhausted. Held-back text that turned
// out not to be a start marker is emitted; an unterminated reasoning span is
// dropped.
func (f *ThinkFilter) Flush() error {
	pending := f.pending
	f.pending = ""
	if f.state == beforeThink {
		return f.send(pending)
	}
	return nil
}

func (f *ThinkFilter) send(s string) error {
	if s == "" {
		return nil
	}
	return f.emit(s)
}

// StripThink applies the same filtering to a fully materialized string.
func StripThink(text string) string {
	var b strings.Builder
	f := NewThinkFilter(false, func(s string) error {
		b.WriteString(s)
		return nil
	})
	_ = f.Write(text)
	_ = f.Flush()
	return b.String()
}

// partialMarkerLen returns the length of the longest suffix of s that is a
// proper prefix of marker.
func partialMarkerLen(s, marker string) int {
	for n := min(len(s), len(marker)-1); n > 0; n-- {
		if strings.HasSuffix(s, marker[:n]) {
			return n
		}
	}
	return 0
}
