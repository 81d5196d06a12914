// Package generation turns need descriptions, crisis scenarios and chat turns
// into calls against a generative-language backend and validates what comes
// back.
package generation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

// Backend sends one generation request to a hosted model and returns the raw
// reply text. Implementations must not retry.
type Backend interface {
	Name() string
	Generate(ctx context.Context, apiKey string, req Request) (string, error)
}

// Request is a backend-neutral generation call.
type Request struct {
	Model             string
	SystemInstruction string
	Contents          []domain.ChatMessage
	// Schema, when set, asks the backend for JSON output of this shape.
	Schema      *Schema
	Temperature float32
}

// Gate reports the credential to use for the next call. An empty key means
// generation is unavailable right now.
type Gate interface {
	APIKey(ctx context.Context) (string, error)
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context) (string, error)

func (f GateFunc) APIKey(ctx context.Context) (string, error) { return f(ctx) }

// StaticKey is a Gate that always returns the same key.
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) { return string(k), nil }

type SchemaType string

const (
	TypeObject SchemaType = "OBJECT"
	TypeString SchemaType = "STRING"
	TypeNumber SchemaType = "NUMBER"
	TypeArray  SchemaType = "ARRAY"
)

// Schema is the subset of OpenAPI schema the backends understand. The JSON
// form is what the Gemini REST API expects.
type Schema struct {
	Type             SchemaType         `json:"type"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Required         []string           `json:"required,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
}

// JSONSchema renders s as a lowercase JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": strings.ToLower(string(s.Type))}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}
		out["properties"] = props
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	return out
}

// String returns the JSON Schema form, for embedding in prompts.
func (s *Schema) String() string {
	b, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return ""
	}
	return string(b)
}

// PlanSchema is the fixed five-field response plan shape.
func PlanSchema() *Schema {
	str := func() *Schema { return &Schema{Type: TypeString} }
	list := func() *Schema { return &Schema{Type: TypeArray, Items: str()} }
	fields := []string{"strategyName", "immediateActions", "requiredResources", "riskAssessment", "estimatedBudgetUSD"}
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"strategyName":       str(),
			"immediateActions":   list(),
			"requiredResources":  list(),
			"riskAssessment":     str(),
			"estimatedBudgetUSD": {Type: TypeNumber},
		},
		Required:         fields,
		PropertyOrdering: append([]string(nil), fields...),
	}
}
