package render

// DisplayOptions controls how an answer is rendered.
type DisplayOptions struct {
	// JSON emits the full result document instead of plain text.
	JSON bool

	// ShowThinking keeps the <think> reasoning span in the output.
	ShowThinking bool

	// NoStream waits for the complete answer before writing anything.
	NoStream bool

	// Markdown renders the plain text answer for the terminal. It needs the
	// complete answer, so it implies NoStream.
	Markdown bool
}

// Strategy is one of the two rendering paths.
type Strategy int

const (
	// Incremental writes filtered fragments as they arrive.
	Incremental Strategy = iota

	// Buffered materializes the answer and its metadata before writing once.
	Buffered
)

func (s Strategy) String() string {
	switch s {
	case Incremental:
		return "incremental"
	case Buffered:
		return "buffered"
	default:
		return "unknown"
	}
}

// ChooseStrategy picks the rendering path for opts.
func ChooseStrategy(opts DisplayOptions) Strategy {
	if opts.JSON || opts.NoStream || opts.Markdown {
		return Buffered
	}
	return Incremental
}
