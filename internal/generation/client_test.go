package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

type fakeBackend struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []Request
	keys  []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(_ context.Context, apiKey string, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	f.keys = append(f.keys, apiKey)
	return f.reply, f.err
}

type recordingUsage struct {
	events []domain.UsageEvent
}

func (r *recordingUsage) RecordUsage(_ context.Context, ev domain.UsageEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func newTestClient(t *testing.T, backend Backend, key string) (*Client, *Metrics) {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	c, err := NewClient(Options{
		Backend: backend,
		Gate:    StaticKey(key),
		Model:   "gemini-2.5-flash",
		Metrics: metrics,
	})
	require.NoError(t, err)
	return c, metrics
}

var oxygen = domain.Need{
	ID:          "1",
	Title:       "Oxygen Concentrators for Mutare General",
	Location:    "Mutare, Manicaland",
	Urgency:     domain.UrgencyHigh,
	Description: "Urgent request for 50 oxygen concentrators to support the isolation ward due to rising respiratory cases.",
}

const chitungwizaPlan = `{
  "strategyName": "Chitungwiza Cholera Containment",
  "immediateActions": ["Set up oral rehydration points", "Chlorinate boreholes"],
  "requiredResources": ["ORS sachets", "Chlorine tablets", "Volunteer nurses"],
  "riskAssessment": "High transmission risk in dense housing.",
  "estimatedBudgetUSD": 5000
}`

func TestNewClientRequiresBackendAndGate(t *testing.T) {
	_, err := NewClient(Options{Gate: StaticKey("k")})
	assert.Error(t, err)
	_, err = NewClient(Options{Backend: &fakeBackend{}})
	assert.Error(t, err)
}

func TestSummarizeReturnsTrimmedText(t *testing.T) {
	backend := &fakeBackend{reply: "  Mutare urgently needs 50 oxygen concentrators.\n"}
	c, _ := newTestClient(t, backend, "secret")

	text, ok := c.Summarize(context.Background(), oxygen)
	require.True(t, ok)
	assert.Equal(t, "Mutare urgently needs 50 oxygen concentrators.", text)

	require.Len(t, backend.calls, 1)
	call := backend.calls[0]
	assert.Equal(t, "secret", backend.keys[0])
	assert.Equal(t, "gemini-2.5-flash", call.Model)
	assert.Nil(t, call.Schema)
	require.Len(t, call.Contents, 1)
	prompt := call.Contents[0].Text
	assert.Contains(t, prompt, "Mutare, Manicaland")
	assert.Contains(t, prompt, "(High)")
	assert.Contains(t, prompt, oxygen.Description)
	assert.Contains(t, prompt, oxygen.Title)
	assert.Contains(t, prompt, "one short, impactful sentence")
}

func TestSummarizeWithoutKeyIsAbsentAndOffline(t *testing.T) {
	backend := &fakeBackend{reply: "should not be used"}
	c, metrics := newTestClient(t, backend, "   ")

	text, ok := c.Summarize(context.Background(), oxygen)
	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Empty(t, backend.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("summarize", "missing_credentials")))
}

func TestSummarizeTransportFailureIsAbsent(t *testing.T) {
	c, _ := newTestClient(t, &fakeBackend{err: errors.New("dial tcp: timeout")}, "k")
	_, ok := c.Summarize(context.Background(), oxygen)
	assert.False(t, ok)

	c, _ = newTestClient(t, &fakeBackend{reply: " \n"}, "k")
	_, ok = c.Summarize(context.Background(), oxygen)
	assert.False(t, ok)
}

func TestPlanChitungwizaScenario(t *testing.T) {
	backend := &fakeBackend{reply: chitungwizaPlan}
	c, metrics := newTestClient(t, backend, "k")

	plan, ok := c.Plan(context.Background(), "Cholera outbreak in Chitungwiza due to water shortage.")
	require.True(t, ok)
	assert.Equal(t, "Chitungwiza Cholera Containment", plan.StrategyName)
	assert.Equal(t, 5000.0, plan.EstimatedBudgetUSD)
	assert.Len(t, plan.ImmediateActions, 2)
	assert.Len(t, plan.RequiredResources, 3)

	require.Len(t, backend.calls, 1)
	call := backend.calls[0]
	require.NotNil(t, call.Schema)
	assert.ElementsMatch(t, []string{"strategyName", "immediateActions", "requiredResources", "riskAssessment", "estimatedBudgetUSD"}, call.Schema.Required)
	assert.Contains(t, call.Contents[0].Text, `"Cholera outbreak in Chitungwiza due to water shortage."`)
	assert.Contains(t, call.Contents[0].Text, "USD")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("plan", "ok")))
}

func TestPlanRejectsBadReplies(t *testing.T) {
	cases := map[string]struct {
		reply string
		kind  FailureKind
	}{
		"not json":         {`Here is your plan: strategy...`, FailureMalformedJSON},
		"truncated":        {`{"strategyName": "x"`, FailureMalformedJSON},
		"missing budget":   {`{"strategyName":"s","immediateActions":["a"],"requiredResources":["r"],"riskAssessment":"x"}`, FailureSchemaMismatch},
		"string budget":    {`{"strategyName":"s","immediateActions":["a"],"requiredResources":["r"],"riskAssessment":"x","estimatedBudgetUSD":"5000"}`, FailureSchemaMismatch},
		"number in list":   {`{"strategyName":"s","immediateActions":[1],"requiredResources":["r"],"riskAssessment":"x","estimatedBudgetUSD":1}`, FailureSchemaMismatch},
		"null strategy":    {`{"strategyName":null,"immediateActions":["a"],"requiredResources":["r"],"riskAssessment":"x","estimatedBudgetUSD":1}`, FailureSchemaMismatch},
		"array top level":  {`[]`, FailureSchemaMismatch},
		"empty resources":  {`{"strategyName":"s","immediateActions":["a"],"requiredResources":[],"riskAssessment":"x","estimatedBudgetUSD":1}`, FailureSchemaMismatch},
		"negative budget":  {`{"strategyName":"s","immediateActions":["a"],"requiredResources":["r"],"riskAssessment":"x","estimatedBudgetUSD":-1}`, FailureSchemaMismatch},
		"blank strategy":   {`{"strategyName":"  ","immediateActions":["a"],"requiredResources":["r"],"riskAssessment":"x","estimatedBudgetUSD":1}`, FailureSchemaMismatch},
		"whitespace reply": {"   ", FailureEmptyResponse},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, &fakeBackend{reply: tc.reply}, "k")
			plan, kind := c.plan(context.Background(), "scenario")
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, domain.ResponsePlan{}, plan)

			_, ok := c.Plan(context.Background(), "scenario")
			assert.False(t, ok)
		})
	}
}

func TestPlanWithoutKeyOrTransportIsAbsent(t *testing.T) {
	backend := &fakeBackend{reply: chitungwizaPlan}
	c, _ := newTestClient(t, backend, "")
	_, kind := c.plan(context.Background(), "x")
	assert.Equal(t, FailureMissingCredentials, kind)
	assert.Empty(t, backend.calls)

	c, _ = newTestClient(t, &fakeBackend{err: context.DeadlineExceeded}, "k")
	_, kind = c.plan(context.Background(), "x")
	assert.Equal(t, FailureTransport, kind)
}

func TestChatReplaysHistoryThenMessage(t *testing.T) {
	backend := &fakeBackend{reply: "Wash hands often and visit the nearest clinic."}
	c, _ := newTestClient(t, backend, "k")

	history := []domain.ChatMessage{
		{Role: domain.RoleModel, Text: "Mhoro! Hello!"},
		{Role: domain.RoleUser, Text: "hi"},
		{Role: domain.RoleModel, Text: "How can I help?"},
	}
	before := append([]domain.ChatMessage(nil), history...)

	reply := c.Chat(context.Background(), "What should I do about a fever?", history)
	assert.Equal(t, "Wash hands often and visit the nearest clinic.", reply)
	assert.Equal(t, before, history)

	require.Len(t, backend.calls, 1)
	call := backend.calls[0]
	require.Len(t, call.Contents, 4)
	assert.Equal(t, history, call.Contents[:3])
	assert.Equal(t, domain.ChatMessage{Role: domain.RoleUser, Text: "What should I do about a fever?"}, call.Contents[3])
	assert.Contains(t, call.SystemInstruction, "Ubuntu Relief")
	assert.Nil(t, call.Schema)
}

func TestChatFallbacks(t *testing.T) {
	c, _ := newTestClient(t, &fakeBackend{reply: "unused"}, "")
	assert.Equal(t, MissingKeyReply, c.Chat(context.Background(), "hello", nil))

	c, _ = newTestClient(t, &fakeBackend{err: errors.New("503")}, "k")
	assert.Equal(t, UnavailableReply, c.Chat(context.Background(), "hello", nil))

	c, _ = newTestClient(t, &fakeBackend{reply: ""}, "k")
	assert.Equal(t, UnavailableReply, c.Chat(context.Background(), "hello", nil))
}

func TestGateIsCheckedOnEveryCall(t *testing.T) {
	key := ""
	backend := &fakeBackend{reply: "ok"}
	c, err := NewClient(Options{
		Backend: backend,
		Gate:    GateFunc(func(context.Context) (string, error) { return key, nil }),
	})
	require.NoError(t, err)

	assert.Equal(t, MissingKeyReply, c.Chat(context.Background(), "hi", nil))
	key = "now-set"
	assert.Equal(t, "ok", c.Chat(context.Background(), "hi", nil))
	assert.Equal(t, []string{"now-set"}, backend.keys)
}

func TestGateErrorCountsAsMissing(t *testing.T) {
	c, err := NewClient(Options{
		Backend: &fakeBackend{reply: "ok"},
		Gate:    GateFunc(func(context.Context) (string, error) { return "", errors.New("db down") }),
	})
	require.NoError(t, err)
	assert.Equal(t, MissingKeyReply, c.Chat(context.Background(), "hi", nil))
}

func TestUsageEventsAreRecorded(t *testing.T) {
	usage := &recordingUsage{}
	c, err := NewClient(Options{
		Backend:   &fakeBackend{reply: "not json"},
		Gate:      StaticKey("k"),
		Usage:     usage,
		RequestID: func(context.Context) string { return "req-1" },
	})
	require.NoError(t, err)

	_, ok := c.Plan(context.Background(), "flood in Chipinge")
	assert.False(t, ok)
	require.Len(t, usage.events, 1)
	ev := usage.events[0]
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, "plan", ev.Operation)
	assert.Equal(t, "fake", ev.Backend)
	assert.False(t, ev.Success)
	assert.Equal(t, "malformed_json", ev.Failure)
}

func TestCustomPromptsAreUsed(t *testing.T) {
	prompts, err := ParsePrompts([]byte(`
summary:
  template: "Summarise {{.Title}}"
plan:
  template: "Plan for {{.Scenario}}"
chat:
  system: "Be brief."
`))
	require.NoError(t, err)
	backend := &fakeBackend{reply: "fine"}
	c, err := NewClient(Options{Backend: backend, Gate: StaticKey("k"), Prompts: &prompts})
	require.NoError(t, err)

	_, ok := c.Summarize(context.Background(), oxygen)
	require.True(t, ok)
	c.Chat(context.Background(), "hi", nil)

	require.Len(t, backend.calls, 2)
	assert.Equal(t, "Summarise "+oxygen.Title, backend.calls[0].Contents[0].Text)
	assert.Equal(t, "Be brief.", backend.calls[1].SystemInstruction)
	assert.True(t, strings.HasPrefix(backend.calls[1].Contents[0].Text, "hi"))
}
