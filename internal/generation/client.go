package generation

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

const (
	// MissingKeyReply is returned by Chat when no credential is configured.
	MissingKeyReply = "AI Service Unavailable (Missing Key)"
	// UnavailableReply is returned by Chat when the backend fails or says nothing.
	UnavailableReply = "I'm having trouble connecting right now. Please try again later."

	defaultTimeout = 30 * time.Second
)

// Options configures a Client. Backend and Gate are required.
type Options struct {
	Backend Backend
	Gate    Gate
	Model   string
	Prompts *Prompts
	Timeout time.Duration
	Logger  *zerolog.Logger
	Metrics *Metrics
	// Usage, when set, receives one event per call.
	Usage     domain.UsageRepository
	RequestID func(context.Context) string
}

// Client is the single entry point for generated content. It keeps no state
// between calls apart from its configuration.
type Client struct {
	backend   Backend
	gate      Gate
	model     string
	prompts   Prompts
	timeout   time.Duration
	logger    zerolog.Logger
	metrics   *Metrics
	usage     domain.UsageRepository
	requestID func(context.Context) string
}

func NewClient(opts Options) (*Client, error) {
	if opts.Backend == nil {
		return nil, errors.New("generation: backend is required")
	}
	if opts.Gate == nil {
		return nil, errors.New("generation: credential gate is required")
	}
	prompts := DefaultPrompts()
	if opts.Prompts != nil {
		prompts = *opts.Prompts
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	requestID := opts.RequestID
	if requestID == nil {
		requestID = func(context.Context) string { return "" }
	}
	return &Client{
		backend:   opts.Backend,
		gate:      opts.Gate,
		model:     strings.TrimSpace(opts.Model),
		prompts:   prompts,
		timeout:   timeout,
		logger:    logger.With().Str("component", "generation").Str("backend", opts.Backend.Name()).Logger(),
		metrics:   opts.Metrics,
		usage:     opts.Usage,
		requestID: requestID,
	}, nil
}

// Summarize asks for one short sentence describing the need. The second return
// value is false on any failure.
func (c *Client) Summarize(ctx context.Context, need domain.Need) (string, bool) {
	start := time.Now()
	prompt, err := c.prompts.Summary(need)
	if err != nil {
		c.logger.Error().Err(err).Msg("render summary prompt")
		c.observe(ctx, OpSummarize, FailurePromptTemplate, start, false)
		return "", false
	}
	text, kind := c.generate(ctx, Request{
		Contents:    []domain.ChatMessage{{Role: domain.RoleUser, Text: prompt}},
		Temperature: c.prompts.Temperature(OpSummarize),
	})
	c.observe(ctx, OpSummarize, kind, start, kind != FailureMissingCredentials)
	if kind != FailureNone {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// Plan asks for a structured response plan for the scenario. The plan is
// returned only when every field is present and well-typed.
func (c *Client) Plan(ctx context.Context, scenario string) (domain.ResponsePlan, bool) {
	plan, kind := c.plan(ctx, scenario)
	return plan, kind == FailureNone
}

func (c *Client) plan(ctx context.Context, scenario string) (domain.ResponsePlan, FailureKind) {
	start := time.Now()
	prompt, err := c.prompts.Plan(scenario)
	if err != nil {
		c.logger.Error().Err(err).Msg("render plan prompt")
		c.observe(ctx, OpPlan, FailurePromptTemplate, start, false)
		return domain.ResponsePlan{}, FailurePromptTemplate
	}
	text, kind := c.generate(ctx, Request{
		Contents:    []domain.ChatMessage{{Role: domain.RoleUser, Text: prompt}},
		Schema:      PlanSchema(),
		Temperature: c.prompts.Temperature(OpPlan),
	})
	if kind != FailureNone {
		c.observe(ctx, OpPlan, kind, start, kind != FailureMissingCredentials)
		return domain.ResponsePlan{}, kind
	}
	plan, kind, err := ParsePlan(text)
	if err != nil {
		c.logger.Warn().Err(err).Str("failure", string(kind)).Msg("plan reply rejected")
	}
	c.observe(ctx, OpPlan, kind, start, true)
	if kind != FailureNone {
		return domain.ResponsePlan{}, kind
	}
	return plan, FailureNone
}

// Chat replays history followed by message and returns the model's reply. It
// always returns a non-empty string; failures produce a fixed fallback reply.
// history is read, never modified or retained.
func (c *Client) Chat(ctx context.Context, message string, history []domain.ChatMessage) string {
	start := time.Now()
	contents := make([]domain.ChatMessage, 0, len(history)+1)
	contents = append(contents, history...)
	contents = append(contents, domain.ChatMessage{Role: domain.RoleUser, Text: message})

	text, kind := c.generate(ctx, Request{
		SystemInstruction: c.prompts.ChatSystem(),
		Contents:          contents,
		Temperature:       c.prompts.Temperature(OpChat),
	})
	c.observe(ctx, OpChat, kind, start, kind != FailureMissingCredentials)
	switch kind {
	case FailureNone:
		return text
	case FailureMissingCredentials:
		return MissingKeyReply
	default:
		return UnavailableReply
	}
}

// generate checks the gate and makes at most one backend call.
func (c *Client) generate(ctx context.Context, req Request) (string, FailureKind) {
	key, err := c.gate.APIKey(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("credential lookup failed")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		c.logger.Warn().Msg("API key is missing; generation is unavailable")
		return "", FailureMissingCredentials
	}

	req.Model = c.model
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.backend.Generate(callCtx, key, req)
	if err != nil {
		c.logger.Warn().Err(err).Str("model", c.model).Msg("backend call failed")
		return "", FailureTransport
	}
	if strings.TrimSpace(text) == "" {
		return "", FailureEmptyResponse
	}
	return text, FailureNone
}

func (c *Client) observe(ctx context.Context, op Operation, kind FailureKind, start time.Time, calledBackend bool) {
	elapsed := time.Since(start)
	c.metrics.observe(op, kind, elapsed.Seconds(), calledBackend)

	reqID := c.requestID(ctx)
	ev := c.logger.Info()
	if kind != FailureNone {
		ev = c.logger.Warn().Str("failure", string(kind))
	}
	ev.Str("operation", string(op)).
		Str("request_id", reqID).
		Dur("latency", elapsed).
		Msg("generation finished")

	if c.usage == nil {
		return
	}
	// The request context may already be cancelled by the time we get here.
	usageCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	err := c.usage.RecordUsage(usageCtx, domain.UsageEvent{
		RequestID: reqID,
		Operation: string(op),
		Backend:   c.backend.Name(),
		Success:   kind == FailureNone,
		Failure:   string(kind),
		LatencyMS: int(elapsed.Milliseconds()),
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("record generation usage")
	}
}
