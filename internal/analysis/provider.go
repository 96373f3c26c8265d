package analysis

import (
	"fmt"

	"github.com/agent-king/bibliography/internal/gemini"
	"github.com/agent-king/bibliography/internal/ollama"
	"github.com/agent-king/bibliography/internal/openai"
	"github.com/agent-king/bibliography/internal/providers"
)

// NewProvider returns the provider registered under name.
func NewProvider(name, apiKey, baseURL string) (providers.Provider, error) {
	switch name {
	case "gemini":
		return gemini.New(apiKey), nil
	case "ollama":
		return ollama.New(baseURL), nil
	case "openai":
		p := openai.New(apiKey)
		if baseURL != "" {
			p.BaseURL = baseURL
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: gemini, ollama, openai)", name)
	}
}
