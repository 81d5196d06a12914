// Package providers selects the generation backend named by GENAI_BACKEND.
package providers

import (
	"fmt"
	"net/http"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/generation"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/providers/gemini"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/providers/genai"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/providers/openai"
)

// NewBackend builds the configured backend. httpClient may be nil.
func NewBackend(cfg *infra.Config, httpClient *http.Client, logger infra.Logger) (generation.Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	switch cfg.GenAIBackend {
	case infra.BackendGemini, "":
		return gemini.New(gemini.Options{
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
		}), nil
	case infra.BackendGenAI:
		return genai.New(genai.Options{
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
		}), nil
	case infra.BackendOpenAI:
		return openai.New(openai.Options{
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   httpClient,
			Logger:       &logger,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported generation backend %q", cfg.GenAIBackend)
	}
}
