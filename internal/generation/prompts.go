package generation

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

//go:embed prompts.yaml
var defaultPromptsYAML []byte

// PromptSpec is one operation's prompt as read from YAML.
type PromptSpec struct {
	Template    string  `yaml:"template"`
	System      string  `yaml:"system"`
	Temperature float32 `yaml:"temperature"`
}

type promptFile struct {
	Summary PromptSpec `yaml:"summary"`
	Plan    PromptSpec `yaml:"plan"`
	Chat    PromptSpec `yaml:"chat"`
}

// Prompts holds the parsed templates for every operation.
type Prompts struct {
	summary     *template.Template
	plan        *template.Template
	chatSystem  string
	temperature map[Operation]float32
}

// DefaultPrompts returns the prompts compiled into the binary.
func DefaultPrompts() Prompts {
	p, err := ParsePrompts(defaultPromptsYAML)
	if err != nil {
		panic(fmt.Sprintf("generation: embedded prompts: %v", err))
	}
	return p
}

// LoadPrompts reads prompts from path, or returns the defaults when path is empty.
func LoadPrompts(path string) (Prompts, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPrompts(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts: %w", err)
	}
	return ParsePrompts(b)
}

// ParsePrompts parses a prompts YAML document. Every operation must be present.
func ParsePrompts(b []byte) (Prompts, error) {
	var f promptFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Prompts{}, fmt.Errorf("parse prompts: %w", err)
	}
	if strings.TrimSpace(f.Summary.Template) == "" {
		return Prompts{}, errors.New("prompts: summary.template is required")
	}
	if strings.TrimSpace(f.Plan.Template) == "" {
		return Prompts{}, errors.New("prompts: plan.template is required")
	}
	if strings.TrimSpace(f.Chat.System) == "" {
		return Prompts{}, errors.New("prompts: chat.system is required")
	}
	summary, err := template.New("summary").Option("missingkey=error").Parse(f.Summary.Template)
	if err != nil {
		return Prompts{}, fmt.Errorf("prompts: summary: %w", err)
	}
	plan, err := template.New("plan").Option("missingkey=error").Parse(f.Plan.Template)
	if err != nil {
		return Prompts{}, fmt.Errorf("prompts: plan: %w", err)
	}
	p := Prompts{
		summary:    summary,
		plan:       plan,
		chatSystem: strings.TrimSpace(f.Chat.System),
		temperature: map[Operation]float32{
			OpSummarize: f.Summary.Temperature,
			OpPlan:      f.Plan.Temperature,
			OpChat:      f.Chat.Temperature,
		},
	}
	// Execute once so a template naming an unknown field fails at load time.
	if _, err := p.Summary(domain.Need{}); err != nil {
		return Prompts{}, fmt.Errorf("prompts: summary: %w", err)
	}
	if _, err := p.Plan(""); err != nil {
		return Prompts{}, fmt.Errorf("prompts: plan: %w", err)
	}
	return p, nil
}

// Summary renders the summary prompt for n.
func (p Prompts) Summary(n domain.Need) (string, error) {
	return render(p.summary, n)
}

// Plan renders the plan prompt for a scenario.
func (p Prompts) Plan(scenario string) (string, error) {
	return render(p.plan, struct{ Scenario string }{scenario})
}

// ChatSystem is the fixed system instruction for chat.
func (p Prompts) ChatSystem() string { return p.chatSystem }

func (p Prompts) Temperature(op Operation) float32 { return p.temperature[op] }

func render(t *template.Template, data any) (string, error) {
	if t == nil {
		return "", errors.New("prompt template not loaded")
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
