// Package ask runs a single question against Perplexity and renders the
// answer. It receives an already resolved credential and never terminates
// the process; callers decide what a returned error means.
package ask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/askpplx/pkg/llm"
	"github.com/papercomputeco/askpplx/pkg/logger"
	"github.com/papercomputeco/askpplx/pkg/perplexity"
	"github.com/papercomputeco/askpplx/pkg/prompt"
	"github.com/papercomputeco/askpplx/pkg/render"
)

// ErrMissingAPIKey is returned before any request is made when no
// credential was resolved. Its message carries the remediation steps.
var ErrMissingAPIKey = errors.New("Perplexity API key is required\n" +
	"Set it with: export PERPLEXITY_API_KEY='your-api-key'\n" +
	"Or store it: askpplx config --set-api-key 'your-api-key'")

// StreamOpener starts a response stream. *perplexity.Client satisfies it.
type StreamOpener interface {
	Stream(ctx context.Context, req perplexity.Request) (llm.ResponseStream, error)
}

// SystemPromptLoader reads a system prompt file; an empty path yields the
// built-in prompt.
type SystemPromptLoader func(path string) (string, error)

// Options describe one invocation.
type Options struct {
	Model string

	// SystemPath is a system prompt file. Ignored when SystemText is set.
	SystemPath string

	// SystemText, when non-nil, is used verbatim. An empty string sends no
	// system prompt at all.
	SystemText *string

	// Context is the search context size: low, medium or high.
	Context string

	Display render.DisplayOptions
}

// Runner asks a question and renders the answer.
type Runner struct {
	opener     StreamOpener
	renderer   *render.Renderer
	loadSystem SystemPromptLoader
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSystemPromptLoader overrides how system prompt files are read.
func WithSystemPromptLoader(fn SystemPromptLoader) Option {
	return func(r *Runner) {
		r.loadSystem = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner.
func NewRunner(opener StreamOpener, renderer *render.Renderer, opts ...Option) *Runner {
	r := &Runner{
		opener:     opener,
		renderer:   renderer,
		loadSystem: prompt.LoadSystemPrompt,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sends question with apiKey and renders the answer. It returns
// ErrMissingAPIKey, without touching the network or the output, when apiKey
// is empty.
func (r *Runner) Run(ctx context.Context, apiKey, question string, opts Options) error {
	if apiKey == "" {
		return ErrMissingAPIKey
	}

	size, err := perplexity.ParseSearchContextSize(opts.Context)
	if err != nil {
		return err
	}

	system, err := r.systemPrompt(opts)
	if err != nil {
		return err
	}

	r.logger.Debug("asking perplexity",
		"model", opts.Model,
		"search_context_size", string(size),
		"prompt_bytes", len(question),
	)

	stream, err := r.opener.Stream(ctx, perplexity.Request{
		APIKey:            apiKey,
		Model:             opts.Model,
		Prompt:            question,
		System:            system,
		SearchContextSize: size,
	})
	if err != nil {
		return fmt.Errorf("starting request: %w", err)
	}

	return r.renderer.Render(ctx, stream, opts.Display)
}

func (r *Runner) systemPrompt(opts Options) (string, error) {
	if opts.SystemText != nil {
		return *opts.SystemText, nil
	}
	return r.loadSystem(opts.SystemPath)
}
