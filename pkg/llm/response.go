package llm

// SourceType discriminates the kinds of citation records a response can carry.
type SourceType string

const (
	// SourceTypeURL is a web citation. It is the only kind rendered in the
	// plain text sources footer.
	SourceTypeURL SourceType = "url"

	// SourceTypeDocument is a document citation (file, upload, etc).
	SourceTypeDocument SourceType = "document"
)

// Source is a single citation returned alongside an answer.
// The order of a []Source is the display order.
type Source struct {
	// Type is always "source"; kept for parity with the JSON document that
	// downstream tools (jq pipelines) already consume.
	Type string `json:"type"`

	// SourceType determines which of the remaining fields are populated.
	SourceType SourceType `json:"sourceType"`

	// ID uniquely identifies the record within one response.
	ID string `json:"id"`

	// URL is set for SourceTypeURL.
	URL string `json:"url,omitempty"`

	// Title is optional for every kind.
	Title string `json:"title,omitempty"`

	// MediaType and Filename are set for SourceTypeDocument.
	MediaType string `json:"mediaType,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

// NewURLSource creates a url-kind Source.
func NewURLSource(id, url string) Source {
	return Source{
		Type:       "source",
		SourceType: SourceTypeURL,
		ID:         id,
		URL:        url,
	}
}

// IsURL reports whether the record is a renderable url citation.
func (s Source) IsURL() bool {
	return s.SourceType == SourceTypeURL
}

// Usage contains token counts for a single response.
type Usage struct {
	InputTokens     int `json:"inputTokens"`
	OutputTokens    int `json:"outputTokens"`
	TotalTokens     int `json:"totalTokens"`
	ReasoningTokens int `json:"reasoningTokens,omitempty"`
}

// ProviderMetadata is opaque, provider-keyed metadata, e.g.
// {"perplexity": {"images": [...], "usage": {...}}}.
type ProviderMetadata map[string]map[string]any
