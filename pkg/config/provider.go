package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/llm/openai"
)

// ErrNoAPIKey is returned when no source provides an API key.
var ErrNoAPIKey = errors.New("API key is required: set OPENAI_API_KEY, pass --api-key, or set llm.api_key in ~/.voicebrowse/config.json")

// ProviderSettings are the values resolved for the LLM provider.
type ProviderSettings struct {
	Model   string
	BaseURL string
	APIKey  string
}

// ResolveProvider merges settings by precedence:
// CLI flags > environment variables > config section > defaults.
// section may be nil.
func ResolveProvider(cli ProviderSettings, section *LLMSection) ProviderSettings {
	out := cli

	if out.APIKey == "" {
		out.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if out.BaseURL == "" {
		out.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if section != nil {
		if out.Model == "" {
			out.Model = section.GetModel()
		}
		if out.BaseURL == "" {
			out.BaseURL = section.GetBaseURL()
		}
		if out.APIKey == "" {
			out.APIKey = section.GetAPIKey()
		}
	}

	if out.Model == "" {
		out.Model = openai.DefaultModel
	}
	return out
}

// BuildProvider resolves settings and creates the OpenAI-compatible provider.
func BuildProvider(cli ProviderSettings, section *LLMSection) (*openai.Provider, error) {
	settings := ResolveProvider(cli, section)
	if settings.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	opts := []openai.ProviderOption{openai.WithModel(settings.Model)}
	if settings.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(settings.BaseURL))
	}

	provider, err := openai.NewProvider(settings.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return provider, nil
}
