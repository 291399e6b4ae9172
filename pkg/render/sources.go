package render

import (
	"strconv"
	"strings"

	"github.com/papercomputeco/askpplx/pkg/llm"
)

// FormatSources renders the url citations in sources as a footer:
//
//	\n\nSources:\n[1] https://a\n[2] https://b
//
// Non-url records are skipped and do not consume a number. Returns "" when
// nothing is renderable.
func FormatSources(sources []llm.Source) string {
	lines := make([]string, 0, len(sources))
	for _, src := range sources {
		if !src.IsURL() {
			continue
		}
		lines = append(lines, "["+strconv.Itoa(len(lines)+1)+"] "+src.URL)
	}

	if len(lines) == 0 {
		return ""
	}

	return "\n\nSources:\n" + strings.Join(lines, "\n")
}
