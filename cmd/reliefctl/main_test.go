package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootHasCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "apikey", "plan", "summarize", "usage"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestMigrateList(t *testing.T) {
	out, err := run(t, "migrate", "--list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "001  integration_tokens\n"), out)
}

func TestAPIKeySetRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := run(t, "apikey", "set", "--provider", "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestUsageRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GENAI_BACKEND", "")
	_, err := run(t, "usage")
	require.Error(t, err)
}

func TestSummarizeUnknownNeed(t *testing.T) {
	_, err := run(t, "summarize", "42")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "err = %v", err)
}

func TestPlanWithoutKeyFails(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "GENAI_BACKEND", "GEMINI_API_KEY", "API_KEY", "PROMPTS_FILE"} {
		t.Setenv(k, "")
	}
	_, err := run(t, "plan", "Flooding", "in", "Tsholotsho")
	assert.ErrorIs(t, err, errNoResult)
}
