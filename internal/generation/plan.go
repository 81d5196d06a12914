package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

var validate = newPlanValidator()

func newPlanValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ParsePlan decodes and validates a model reply as a ResponsePlan. A reply
// wrapped in a markdown code fence is accepted; nothing else is repaired.
// Field names must match the schema exactly, including case.
func ParsePlan(raw string) (domain.ResponsePlan, FailureKind, error) {
	text := trimCodeFence(raw)
	if text == "" {
		return domain.ResponsePlan{}, FailureEmptyResponse, errors.New("empty plan payload")
	}
	if !json.Valid([]byte(text)) {
		return domain.ResponsePlan{}, FailureMalformedJSON, errors.New("plan payload is not valid JSON")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return domain.ResponsePlan{}, FailureSchemaMismatch, fmt.Errorf("decode plan: %w", err)
	}
	plan, err := planFromFields(fields)
	if err != nil {
		return domain.ResponsePlan{}, FailureSchemaMismatch, err
	}
	if err := ValidatePlan(plan); err != nil {
		return domain.ResponsePlan{}, FailureSchemaMismatch, err
	}
	return plan, FailureNone, nil
}

// ValidatePlan checks the content rules of a decoded plan.
func ValidatePlan(plan domain.ResponsePlan) error {
	if err := validate.Struct(plan); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	return nil
}

// planFromFields reads every required schema property by its exact key. A
// missing key, a null, or a value of the wrong JSON type fails the plan.
func planFromFields(fields map[string]json.RawMessage) (domain.ResponsePlan, error) {
	for _, name := range PlanSchema().Required {
		if raw, ok := fields[name]; !ok || string(bytes.TrimSpace(raw)) == "null" {
			return domain.ResponsePlan{}, missingField(name)
		}
	}
	var plan domain.ResponsePlan
	if err := decodeField(fields, "strategyName", &plan.StrategyName); err != nil {
		return domain.ResponsePlan{}, err
	}
	if err := decodeField(fields, "riskAssessment", &plan.RiskAssessment); err != nil {
		return domain.ResponsePlan{}, err
	}
	if err := decodeField(fields, "estimatedBudgetUSD", &plan.EstimatedBudgetUSD); err != nil {
		return domain.ResponsePlan{}, err
	}
	var err error
	if plan.ImmediateActions, err = stringList(fields, "immediateActions"); err != nil {
		return domain.ResponsePlan{}, err
	}
	if plan.RequiredResources, err = stringList(fields, "requiredResources"); err != nil {
		return domain.ResponsePlan{}, err
	}
	return plan, nil
}

func decodeField(fields map[string]json.RawMessage, name string, dst any) error {
	if err := json.Unmarshal(fields[name], dst); err != nil {
		return fmt.Errorf("plan: %s: %w", name, err)
	}
	return nil
}

func stringList(fields map[string]json.RawMessage, name string) ([]string, error) {
	var items []*string
	if err := decodeField(fields, name, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, s := range items {
		if s == nil {
			return nil, fmt.Errorf("plan: %s[%d] is null", name, i)
		}
		out = append(out, *s)
	}
	return out, nil
}

func missingField(name string) error {
	return fmt.Errorf("plan: %s is missing", name)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
