// Package perplexity opens streaming answers from the Perplexity chat
// completions API and exposes them as llm.ResponseStream values.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/askpplx/pkg/llm"
	"github.com/papercomputeco/askpplx/pkg/logger"
	"github.com/papercomputeco/askpplx/pkg/sse"
	"github.com/papercomputeco/askpplx/pkg/utils"
)

const (
	// DefaultBaseURL is the public Perplexity API.
	DefaultBaseURL = "https://api.perplexity.ai"

	// DefaultTimeout bounds a whole request, including reading the stream.
	DefaultTimeout = 5 * time.Minute

	chatCompletionsPath = "/chat/completions"
	doneSentinel        = "[DONE]"

	// streamBuffer is how many text fragments may queue up ahead of a slow
	// consumer before the body reader blocks.
	streamBuffer = 16
)

// SearchContextSize controls how much web context a search gathers.
type SearchContextSize string

const (
	SearchContextLow    SearchContextSize = "low"
	SearchContextMedium SearchContextSize = "medium"
	SearchContextHigh   SearchContextSize = "high"
)

// ParseSearchContextSize validates s. An empty string yields
// SearchContextHigh.
func ParseSearchContextSize(s string) (SearchContextSize, error) {
	switch SearchContextSize(strings.ToLower(strings.TrimSpace(s))) {
	case "", SearchContextHigh:
		return SearchContextHigh, nil
	case SearchContextMedium:
		return SearchContextMedium, nil
	case SearchContextLow:
		return SearchContextLow, nil
	default:
		return "", fmt.Errorf("invalid search context size %q (expected low, medium or high)", s)
	}
}

// Request describes one question.
type Request struct {
	APIKey            string
	Model             string
	Prompt            string
	System            string
	SearchContextSize SearchContextSize
}

// APIError is a non-200 response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("perplexity API error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to the Perplexity API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	trace      io.Writer
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTrace copies the raw SSE response stream to w.
func WithTrace(w io.Writer) Option {
	return func(c *Client) {
		c.trace = w
	}
}

// WithIDGenerator replaces the uuid-based source id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) {
		c.newID = fn
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger.Nop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream sends req and returns the live answer. It fails only if the
// request cannot be sent or is rejected; failures while reading the answer
// surface through the returned stream.
func (c *Client) Stream(ctx context.Context, req Request) (llm.ResponseStream, error) {
	body, err := json.Marshal(newChatRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	requestID := uuid.NewString()
	url := c.baseURL + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("sending perplexity request",
		"url", url,
		"model", req.Model,
		"search_context_size", string(req.SearchContextSize),
		"request_id", requestID,
		"has_system", req.System != "",
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}

	stream := llm.NewStream(streamBuffer)
	go c.consume(ctx, resp.Body, stream, requestID)

	return stream, nil
}

// consume reads the SSE body into stream until [DONE], EOF, or failure.
func (c *Client) consume(ctx context.Context, body io.ReadCloser, stream *llm.Stream, requestID string) {
	defer body.Close()

	var opts []sse.ReaderOption
	if c.trace != nil {
		opts = append(opts, sse.WithTrace(c.trace))
	}
	reader := sse.NewReader(body, opts...)
	acc := newAccumulator(c.newID)

	for {
		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stream.Fail(fmt.Errorf("reading response stream: %w", err))
			return
		}

		if ev.Data == doneSentinel {
			break
		}

		if ev.Type == "error" {
			stream.Fail(fmt.Errorf("perplexity stream error: %s", ev.Data))
			return
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			stream.Fail(fmt.Errorf("decoding response chunk: %w", err))
			return
		}

		acc.add(&chunk)

		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := stream.Send(ctx, choice.Delta.Content); err != nil {
				stream.Fail(err)
				return
			}
		}
	}

	trailer := acc.trailer()
	c.logger.Debug("perplexity stream complete",
		"request_id", requestID,
		"chunks", acc.chunks,
		"sources", len(trailer.Sources),
	)
	stream.Finish(trailer)
}

func newChatRequest(req Request) chatRequest {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	size := req.SearchContextSize
	if size == "" {
		size = SearchContextHigh
	}

	return chatRequest{
		Model:            req.Model,
		Messages:         messages,
		Stream:           true,
		WebSearchOptions: &webSearchOptions{SearchContextSize: size},
	}
}

func newAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	msg := strings.TrimSpace(string(raw))
	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		msg = parsed.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    utils.Truncate(msg, 500),
	}
}
