package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/catalog"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/generation"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
)

func TestNewWithoutDatabase(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	cfg := &infra.Config{
		GenAIBackend:      infra.BackendGemini,
		GeminiModel:       "gemini-2.5-flash",
		GenerationTimeout: time.Second,
		MetricsEnabled:    true,
	}
	rt, err := New(context.Background(), cfg, infra.NewLogger("test"))
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Pool)
	assert.Nil(t, rt.Usage)
	require.NotNil(t, rt.Generator)

	// No key anywhere: chat degrades without a network call.
	reply := rt.Generator.Chat(context.Background(), "hello", []domain.ChatMessage{catalog.ChatGreeting})
	assert.Equal(t, generation.MissingKeyReply, reply)

	h := rt.MetricsHandler()
	require.NotNil(t, h)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `relief_generation_requests_total{operation="chat",outcome="missing_credentials"} 1`)
}

func TestNewRejectsBadPromptsFile(t *testing.T) {
	cfg := &infra.Config{
		GenAIBackend:      infra.BackendOpenAI,
		PromptsFile:       t.TempDir() + "/missing.yaml",
		GenerationTimeout: time.Second,
	}
	_, err := New(context.Background(), cfg, infra.NewLogger("test"))
	assert.Error(t, err)
}
