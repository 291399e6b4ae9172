package perplexity

import "github.com/papercomputeco/askpplx/pkg/llm"

// accumulator collects the trailer values spread across streamed chunks.
type accumulator struct {
	newID  func() string
	chunks int

	citations     []string
	searchResults []searchResult
	images        []image
	usage         *chatUsage
}

func newAccumulator(newID func() string) *accumulator {
	return &accumulator{newID: newID}
}

func (a *accumulator) add(chunk *chatChunk) {
	a.chunks++

	// The first non-empty list wins; later chunks repeat it.
	if len(a.citations) == 0 && len(chunk.Citations) > 0 {
		a.citations = chunk.Citations
	}
	if len(a.searchResults) == 0 && len(chunk.SearchResults) > 0 {
		a.searchResults = chunk.SearchResults
	}
	if len(chunk.Images) > 0 {
		a.images = chunk.Images
	}
	if chunk.Usage != nil {
		a.usage = chunk.Usage
	}
}

func (a *accumulator) trailer() llm.Trailer {
	return llm.Trailer{
		Sources:          a.sources(),
		Usage:            a.llmUsage(),
		ProviderMetadata: a.providerMetadata(),
	}
}

// sources turns citations into url sources in citation order. Without
// citations, search results are used instead.
func (a *accumulator) sources() []llm.Source {
	titles := make(map[string]string, len(a.searchResults))
	for _, r := range a.searchResults {
		titles[r.URL] = r.Title
	}

	urls := a.citations
	if len(urls) == 0 {
		for _, r := range a.searchResults {
			urls = append(urls, r.URL)
		}
	}

	sources := make([]llm.Source, 0, len(urls))
	for _, url := range urls {
		src := llm.NewURLSource(a.newID(), url)
		src.Title = titles[url]
		sources = append(sources, src)
	}
	return sources
}

func (a *accumulator) llmUsage() *llm.Usage {
	if a.usage == nil {
		return nil
	}
	return &llm.Usage{
		InputTokens:     a.usage.PromptTokens,
		OutputTokens:    a.usage.CompletionTokens,
		TotalTokens:     a.usage.TotalTokens,
		ReasoningTokens: a.usage.ReasoningTokens,
	}
}

func (a *accumulator) providerMetadata() llm.ProviderMetadata {
	var images []map[string]any
	for _, img := range a.images {
		images = append(images, map[string]any{
			"imageUrl":  img.ImageURL,
			"originUrl": img.OriginURL,
			"height":    img.Height,
			"width":     img.Width,
		})
	}

	usage := map[string]any{
		"citationTokens":   nil,
		"numSearchQueries": nil,
	}
	if a.usage != nil {
		if a.usage.CitationTokens != nil {
			usage["citationTokens"] = *a.usage.CitationTokens
		}
		if a.usage.NumSearchQueries != nil {
			usage["numSearchQueries"] = *a.usage.NumSearchQueries
		}
	}

	return llm.ProviderMetadata{
		"perplexity": {
			"images": images,
			"usage":  usage,
		},
	}
}
