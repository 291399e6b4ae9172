package llm

import (
	"context"
	"errors"
	"io"
	"sync"
)

// ResponseStream is a live, single-pass answer stream: a forward-only
// sequence of text fragments plus three independently resolving trailers.
//
// Next returns io.EOF once the text sequence is exhausted. The trailers
// resolve once the producer has finished the body, so callers drain Next
// before awaiting them.
type ResponseStream interface {
	Next(ctx context.Context) (string, error)
	Sources(ctx context.Context) ([]Source, error)
	Usage(ctx context.Context) (*Usage, error)
	ProviderMetadata(ctx context.Context) (ProviderMetadata, error)
}

// Trailer carries the values that resolve after the body completes.
type Trailer struct {
	Sources          []Source
	Usage            *Usage
	ProviderMetadata ProviderMetadata
}

// ErrStreamClosed is returned by Send after Finish or Fail.
var ErrStreamClosed = errors.New("stream closed")

// Stream is a channel-backed ResponseStream. A single producer goroutine
// calls Send for every fragment and then exactly one of Finish or Fail; a
// single consumer reads with Next. Send, Finish and Fail must not be called
// concurrently with each other.
type Stream struct {
	chunks chan string
	closed chan struct{}

	closeOnce sync.Once
	err       error

	sources  *Deferred[[]Source]
	usage    *Deferred[*Usage]
	metadata *Deferred[ProviderMetadata]
}

// NewStream creates a Stream whose text channel holds up to buffer
// fragments before Send blocks.
func NewStream(buffer int) *Stream {
	return &Stream{
		chunks:   make(chan string, buffer),
		closed:   make(chan struct{}),
		sources:  NewDeferred[[]Source](),
		usage:    NewDeferred[*Usage](),
		metadata: NewDeferred[ProviderMetadata](),
	}
}

// NewStaticStream returns a finished Stream that yields chunks in order
// and then resolves trailer.
func NewStaticStream(chunks []string, trailer Trailer) *Stream {
	s := NewStream(len(chunks))
	for _, c := range chunks {
		s.chunks <- c
	}
	s.Finish(trailer)
	return s
}

// Send delivers one fragment, blocking until the consumer has room for it.
func (s *Stream) Send(ctx context.Context, chunk string) error {
	select {
	case <-s.closed:
		return ErrStreamClosed
	default:
	}

	select {
	case s.chunks <- chunk:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finish ends the text sequence and resolves the trailers.
func (s *Stream) Finish(trailer Trailer) {
	s.closeOnce.Do(func() {
		s.sources.Resolve(trailer.Sources)
		s.usage.Resolve(trailer.Usage)
		s.metadata.Resolve(trailer.ProviderMetadata)
		close(s.closed)
		close(s.chunks)
	})
}

// Fail ends the text sequence with err and rejects every trailer.
func (s *Stream) Fail(err error) {
	s.closeOnce.Do(func() {
		s.err = err
		s.sources.Reject(err)
		s.usage.Reject(err)
		s.metadata.Reject(err)
		close(s.closed)
		close(s.chunks)
	})
}

// Next returns the next fragment, io.EOF after Finish, or the Fail error.
// Fragments already buffered are still delivered after the producer closes.
func (s *Stream) Next(ctx context.Context) (string, error) {
	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			if s.err != nil {
				return "", s.err
			}
			return "", io.EOF
		}
		return chunk, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Stream) Sources(ctx context.Context) ([]Source, error) {
	return s.sources.Await(ctx)
}

func (s *Stream) Usage(ctx context.Context) (*Usage, error) {
	return s.usage.Await(ctx)
}

func (s *Stream) ProviderMetadata(ctx context.Context) (ProviderMetadata, error) {
	return s.metadata.Await(ctx)
}
