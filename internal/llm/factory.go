package llm

import (
	"fmt"
	"strings"

	"github.com/proppulse/proppulse/internal/model"
)

// NewCommentator creates a model-backed commentator from configuration. An
// empty provider name returns nil, meaning only the deterministic
// commentary runs.
func NewCommentator(config model.LLMConfig) (Commentator, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAICommentator(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown commentary provider: %s (supported: openai)", config.Provider)
	}
}
