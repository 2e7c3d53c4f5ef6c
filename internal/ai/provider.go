package ai

import (
	"context"
	"fmt"

	"github.com/v0xg/checkoutpage/internal/crawler"
)

// BrokenLocator is a logical element whose selector no longer matches the page
type BrokenLocator struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

// Provider defines the interface for AI selector repair
type Provider interface {
	// SuggestSelectors proposes a replacement selector per broken locator name.
	// Names the model could not place are left out of the result.
	SuggestSelectors(ctx context.Context, formMap *crawler.FormMap, broken []BrokenLocator) (map[string]string, error)
}

// NewProvider creates a new AI provider based on the provider name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}
