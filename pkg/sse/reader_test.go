package sse

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// readAll drains r and returns every event's data.
func readAll(r *Reader) []string {
	var data []string
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return data
		}
		Expect(err).NotTo(HaveOccurred())
		data = append(data, ev.Data)
	}
}

var _ = Describe("Reader", func() {
	Describe("Next", func() {
		It("parses a single event and then reports EOF", func() {
			r := NewReader(strings.NewReader("data: hello world\n\n"))

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Data).To(Equal("hello world"))
			Expect(ev.Type).To(BeEmpty())
			Expect(ev.ID).To(BeEmpty())

			_, err = r.Next()
			Expect(err).To(MatchError(io.EOF))
		})

		It("parses Perplexity chat completion chunks", func() {
			input := "data: {\"id\":\"1\",\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n" +
				"data: {\"id\":\"1\",\"citations\":[\"https://example.com\"],\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n" +
				"data: [DONE]\n\n"
			r := NewReader(strings.NewReader(input))

			Expect(readAll(r)).To(Equal([]string{
				"{\"id\":\"1\",\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}",
				"{\"id\":\"1\",\"citations\":[\"https://example.com\"],\"choices\":[{\"delta\":{\"content\":\" world\"}}]}",
				"[DONE]",
			}))
		})

		It("parses event type and id", func() {
			r := NewReader(strings.NewReader("event: error\nid: 42\ndata: {}\n\n"))

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Type).To(Equal("error"))
			Expect(ev.ID).To(Equal("42"))
		})

		It("joins multiple data lines with newline", func() {
			r := NewReader(strings.NewReader("data: line one\ndata: line two\n\n"))
			Expect(readAll(r)).To(Equal([]string{"line one\nline two"}))
		})

		It("handles data with no space after the colon", func() {
			r := NewReader(strings.NewReader("data:no-space\n\n"))
			Expect(readAll(r)).To(Equal([]string{"no-space"}))
		})

		It("ignores comments, unknown fields and keep-alive blank lines", func() {
			r := NewReader(strings.NewReader(": keep-alive\n\n\nretry: 3000\nfoo: bar\ndata: hello\n\n"))
			Expect(readAll(r)).To(Equal([]string{"hello"}))
		})

		It("yields an event when the stream ends without a blank line", func() {
			r := NewReader(strings.NewReader("data: unterminated"))
			Expect(readAll(r)).To(Equal([]string{"unterminated"}))
		})

		It("reports EOF on empty input", func() {
			_, err := NewReader(strings.NewReader("")).Next()
			Expect(err).To(MatchError(io.EOF))
		})

		It("surfaces source errors", func() {
			boom := errors.New("connection reset")
			_, err := NewReader(iotest.ErrReader(boom)).Next()
			Expect(err).To(MatchError(boom))
		})
	})

	Describe("WithTrace", func() {
		It("copies the raw stream verbatim", func() {
			input := ": comment\ndata: first\n\ndata: [DONE]\n\n"
			trace := &bytes.Buffer{}
			r := NewReader(strings.NewReader(input), WithTrace(trace))

			Expect(readAll(r)).To(HaveLen(2))
			Expect(trace.String()).To(Equal(input))
		})
	})
})
