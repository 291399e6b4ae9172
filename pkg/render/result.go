package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/askpplx/pkg/llm"
)

// Result is the fully assembled answer. It is built once by Assemble and
// treated as read-only afterwards.
type Result struct {
	Text             string
	Sources          []llm.Source
	Usage            *llm.Usage
	ProviderMetadata llm.ProviderMetadata
}

// document is the --json shape. Field order is the output key order.
type document struct {
	Text             string               `json:"text"`
	Sources          []llm.Source         `json:"sources"`
	Usage            *llm.Usage           `json:"usage"`
	ProviderMetadata llm.ProviderMetadata `json:"providerMetadata"`
}

// Assemble drains the text of stream and then awaits its three trailers
// concurrently. Any failure fails the whole assembly.
func Assemble(ctx context.Context, stream llm.ResponseStream) (Result, error) {
	var text strings.Builder
	for {
		chunk, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("reading response: %w", err)
		}
		text.WriteString(chunk)
	}

	var (
		sources  []llm.Source
		usage    *llm.Usage
		metadata llm.ProviderMetadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sources, err = stream.Sources(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		usage, err = stream.Usage(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		metadata, err = stream.ProviderMetadata(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("resolving response metadata: %w", err)
	}

	return Result{
		Text:             text.String(),
		Sources:          sources,
		Usage:            usage,
		ProviderMetadata: metadata,
	}, nil
}

// Format renders an assembled result as plain text with a sources footer,
// or as an indented JSON document when opts.JSON is set.
func Format(result Result, opts DisplayOptions) (string, error) {
	text := result.Text
	if !opts.ShowThinking {
		text = StripThink(text)
	}

	if opts.JSON {
		sources := result.Sources
		if sources == nil {
			sources = []llm.Source{}
		}

		out, err := json.MarshalIndent(document{
			Text:             text,
			Sources:          sources,
			Usage:            result.Usage,
			ProviderMetadata: result.ProviderMetadata,
		}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding result: %w", err)
		}
		return string(out), nil
	}

	return strings.TrimSpace(text) + FormatSources(result.Sources), nil
}
