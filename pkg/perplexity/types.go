package perplexity

import "encoding/json"

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	Stream           bool              `json:"stream"`
	WebSearchOptions *webSearchOptions `json:"web_search_options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type webSearchOptions struct {
	SearchContextSize SearchContextSize `json:"search_context_size"`
}

// chatChunk is a single streamed chat.completion.chunk. Perplexity repeats
// citations, search results and images on several chunks; usage arrives on
// the last one.
type chatChunk struct {
	ID            string         `json:"id"`
	Model         string         `json:"model"`
	Created       int64          `json:"created"`
	Citations     []string       `json:"citations,omitempty"`
	SearchResults []searchResult `json:"search_results,omitempty"`
	Images        []image        `json:"images,omitempty"`
	Usage         *chatUsage     `json:"usage,omitempty"`
	Choices       []chunkChoice  `json:"choices"`
}

type chunkChoice struct {
	Index        int     `json:"index"`
	FinishReason *string `json:"finish_reason"`
	Delta        struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"delta"`
}

type searchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date,omitempty"`
}

type image struct {
	ImageURL  string `json:"image_url"`
	OriginURL string `json:"origin_url"`
	Height    int    `json:"height"`
	Width     int    `json:"width"`
}

type chatUsage struct {
	PromptTokens      int    `json:"prompt_tokens"`
	CompletionTokens  int    `json:"completion_tokens"`
	TotalTokens       int    `json:"total_tokens"`
	ReasoningTokens   int    `json:"reasoning_tokens,omitempty"`
	CitationTokens    *int   `json:"citation_tokens,omitempty"`
	NumSearchQueries  *int   `json:"num_search_queries,omitempty"`
	SearchContextSize string `json:"search_context_size,omitempty"`
}

// errorResponse is the body of a non-200 response.
type errorResponse struct {
	Error struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
	Detail json.RawMessage `json:"detail,omitempty"`
}
