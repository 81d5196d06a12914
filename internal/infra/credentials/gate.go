package credentials

import (
	"context"
	"os"
	"strings"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
)

// Gate resolves the API key for one backend on every call, so a key added
// or removed while the server runs takes effect on the next request.
// Environment variables win over the stored token.
type Gate struct {
	provider  string
	envKeys   []string
	tokens    domain.TokenRepository
	lookupEnv func(string) (string, bool)
}

// NewGate builds the gate for a GENAI_BACKEND value. tokens may be nil when
// no database is configured.
func NewGate(backend string, tokens domain.TokenRepository) *Gate {
	g := &Gate{tokens: tokens, lookupEnv: os.LookupEnv}
	switch backend {
	case infra.BackendOpenAI:
		g.provider = ProviderOpenAI
		g.envKeys = []string{"OPENAI_API_KEY"}
	default:
		g.provider = ProviderGemini
		g.envKeys = []string{"GEMINI_API_KEY", "API_KEY"}
	}
	return g
}

// Provider is the integration_tokens provider name this gate reads.
func (g *Gate) Provider() string { return g.provider }

// APIKey returns the trimmed key, or "" when none is configured.
func (g *Gate) APIKey(ctx context.Context) (string, error) {
	for _, name := range g.envKeys {
		if v, ok := g.lookupEnv(name); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, nil
			}
		}
	}
	if g.tokens == nil {
		return "", nil
	}
	return g.tokens.Token(ctx, g.provider)
}

var _ domain.TokenRepository = (*Store)(nil)
