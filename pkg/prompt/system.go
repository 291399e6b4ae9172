package prompt

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"strings"
)

//go:embed prompts/default-system.md
var defaultSystemPrompt string

// DefaultSystemPrompt returns the built-in system prompt.
func DefaultSystemPrompt() string {
	return strings.TrimSpace(defaultSystemPrompt)
}

// SystemPromptErrorKind classifies a failure to read a system prompt file.
type SystemPromptErrorKind int

const (
	SystemPromptOther SystemPromptErrorKind = iota
	SystemPromptNotFound
	SystemPromptPermissionDenied
)

var (
	ErrSystemPromptNotFound         = errors.New("system prompt not found")
	ErrSystemPromptPermissionDenied = errors.New("system prompt permission denied")
)

// SystemPromptError reports an unreadable system prompt file.
type SystemPromptError struct {
	Kind SystemPromptErrorKind
	Path string
	Err  error
}

func (e *SystemPromptError) Error() string {
	switch e.Kind {
	case SystemPromptNotFound:
		return "System prompt file not found: " + e.Path
	case SystemPromptPermissionDenied:
		return "Permission denied reading system prompt: " + e.Path
	default:
		return "Failed to read system prompt file: " + e.Path
	}
}

func (e *SystemPromptError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *SystemPromptError) Is(target error) bool {
	switch target {
	case ErrSystemPromptNotFound:
		return e.Kind == SystemPromptNotFound
	case ErrSystemPromptPermissionDenied:
		return e.Kind == SystemPromptPermissionDenied
	}
	return false
}

// LoadSystemPrompt reads the system prompt at path, trimmed. An empty path
// returns the built-in prompt.
func LoadSystemPrompt(path string) (string, error) {
	if path == "" {
		return DefaultSystemPrompt(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		kind := SystemPromptOther
		switch {
		case errors.Is(err, fs.ErrNotExist):
			kind = SystemPromptNotFound
		case errors.Is(err, fs.ErrPermission):
			kind = SystemPromptPermissionDenied
		}
		return "", &SystemPromptError{Kind: kind, Path: path, Err: err}
	}

	return strings.TrimSpace(string(data)), nil
}
