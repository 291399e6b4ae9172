// Package render turns an llm.ResponseStream into terminal or pipe output,
// either incrementally as fragments arrive or once the whole answer has
// been assembled.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/papercomputeco/askpplx/pkg/llm"
	"github.com/papercomputeco/askpplx/pkg/logger"
)

// MarkdownFunc renders markdown for display, e.g. cliui.RenderMarkdown.
type MarkdownFunc func(string) (string, error)

// Renderer writes answers to a single output device. It never reads from
// out and assumes it is the only writer.
type Renderer struct {
	out      io.Writer
	logger   *slog.Logger
	markdown MarkdownFunc
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithMarkdown sets the renderer used when DisplayOptions.Markdown is set.
func WithMarkdown(fn MarkdownFunc) Option {
	return func(r *Renderer) {
		r.markdown = fn
	}
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:    out,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render consumes stream and writes it according to opts. Fragments
// already written stay written if the stream fails part way.
func (r *Renderer) Render(ctx context.Context, stream llm.ResponseStream, opts DisplayOptions) error {
	strategy := ChooseStrategy(opts)
	r.logger.Debug("rendering response", "strategy", strategy.String())

	switch strategy {
	case Buffered:
		return r.renderBuffered(ctx, stream, opts)
	default:
		return r.renderIncremental(ctx, stream, opts)
	}
}

// renderIncremental writes fragments through the think filter as they
// arrive and appends the sources footer once the text is exhausted. Only
// the sources trailer is awaited.
func (r *Renderer) renderIncremental(ctx context.Context, stream llm.ResponseStream, opts DisplayOptions) error {
	filter := NewThinkFilter(opts.ShowThinking, r.write)

	chunks := 0
	for {
		chunk, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		chunks++
		if err := filter.Write(chunk); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := filter.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	r.logger.Debug("response stream finished", "chunks", chunks)

	sources, err := stream.Sources(ctx)
	if err != nil {
		return fmt.Errorf("resolving sources: %w", err)
	}

	if footer := FormatSources(sources); footer != "" {
		_, err = fmt.Fprintln(r.out, footer)
	} else {
		err = r.write("\n")
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (r *Renderer) renderBuffered(ctx context.Context, stream llm.ResponseStream, opts DisplayOptions) error {
	result, err := Assemble(ctx, stream)
	if err != nil {
		return err
	}

	if result.Usage != nil {
		r.logger.Debug("response usage",
			"input_tokens", result.Usage.InputTokens,
			"output_tokens", result.Usage.OutputTokens,
			"total_tokens", result.Usage.TotalTokens,
		)
	}

	text, err := Format(result, opts)
	if err != nil {
		return err
	}

	if opts.Markdown && !opts.JSON && r.markdown != nil {
		rendered, err := r.markdown(text)
		if err != nil {
			r.logger.Debug("markdown rendering failed, writing plain text", "error", err)
		} else {
			return r.write(rendered)
		}
	}

	_, err = fmt.Fprintln(r.out, text)
	return err
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.out, s)
	return err
}
