// Package openai is the OpenAI chat-completions backend.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/generation"
)

const (
	ProviderName = "openai"
	DefaultModel = "gpt-4o-mini"

	defaultTimeout = 60 * time.Second
)

var modelCanonical = map[string]string{
	"gpt-3.5-turbo": "gpt-3.5-turbo",
	"gpt-4o-mini":   "gpt-4o-mini",
	"gpt-4o":        "gpt-4o",
}

var modelAliases = map[string]string{
	"gpt-3.5":                "gpt-3.5-turbo",
	"gpt3.5":                 "gpt-3.5-turbo",
	"gpt-35-turbo":           "gpt-3.5-turbo",
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt4o":                  "gpt-4o",
}

type Options struct {
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Logger       *zerolog.Logger
}

type Backend struct {
	model        string
	baseURL      string
	organization string
	httpClient   *http.Client
}

func New(opts Options) *Backend {
	requested := strings.TrimSpace(opts.Model)
	model, reason := normalizeModel(requested)
	if reason != "" && opts.Logger != nil {
		opts.Logger.Warn().
			Str("requested", requested).
			Str("resolved", model).
			Str("reason", reason).
			Msg("openai: model name normalized")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Backend{
		model:        model,
		baseURL:      strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		organization: strings.TrimSpace(opts.Organization),
		httpClient:   client,
	}
}

func (b *Backend) Name() string { return ProviderName }

func (b *Backend) Generate(ctx context.Context, apiKey string, req generation.Request) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", errors.New("openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if b.baseURL != "" {
		cfg.BaseURL = b.baseURL
	}
	cfg.OrgID = b.organization
	cfg.HTTPClient = b.httpClient
	client := openai.NewClientWithConfig(cfg)

	model := b.model
	if m := strings.TrimSpace(req.Model); m != "" {
		model, _ = normalizeModel(m)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toMessages(req),
		Temperature: req.Temperature,
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func toMessages(req generation.Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Contents)+1)
	system := strings.TrimSpace(req.SystemInstruction)
	if req.Schema != nil {
		if system != "" {
			system += "\n\n"
		}
		system += "Respond only with a JSON object matching this JSON Schema: " + req.Schema.String()
	}
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range req.Contents {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	return out
}

// normalizeModel maps loose model names onto known ones. The second value is
// "alias" or "defaulted" when the name was rewritten.
func normalizeModel(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultModel, ""
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if canonical, ok := modelCanonical[normalized]; ok {
		return canonical, ""
	}
	if alias, ok := modelAliases[normalized]; ok {
		return alias, "alias"
	}
	return DefaultModel, "defaulted"
}

var _ generation.Backend = (*Backend)(nil)
