package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/generation"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/pkg/zip"
)

// PlanUnavailableMessage is the banner shown when no plan could be produced.
const PlanUnavailableMessage = "Could not generate a plan. Please check your API configuration or try a different description."

const maxScenarioLen = 4000

type planRequest struct {
	Scenario string `json:"scenario"`
}

func (a *App) PlansCreate(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !a.decode(w, r, &req) {
		return
	}
	scenario := strings.TrimSpace(req.Scenario)
	if scenario == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "Please describe the scenario first.")
		return
	}
	if len(scenario) > maxScenarioLen {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("scenario must be at most %d characters", maxScenarioLen))
		return
	}
	plan, ok := a.AI.Plan(r.Context(), scenario)
	if !ok {
		a.error(w, http.StatusBadGateway, "generation_unavailable", PlanUnavailableMessage)
		return
	}
	a.json(w, http.StatusOK, plan)
}

// PlansExport packages a plan the caller already holds as plan.json and
// plan.md inside a zip archive.
func (a *App) PlansExport(w http.ResponseWriter, r *http.Request) {
	var plan domain.ResponsePlan
	if !a.decode(w, r, &plan) {
		return
	}
	if err := generation.ValidatePlan(plan); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	raw, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	now := a.Now()
	archive, err := zip.Archive([]zip.File{
		{Name: "plan.json", Data: raw, Modified: now},
		{Name: "plan.md", Data: []byte(planMarkdown(plan)), Modified: now},
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=response-plan-%s.zip", now.UTC().Format("20060102-150405")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func planMarkdown(p domain.ResponsePlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.StrategyName)
	fmt.Fprintf(&b, "**Estimated budget:** $%s USD\n\n", formatUSD(p.EstimatedBudgetUSD))
	b.WriteString("## Immediate actions\n\n")
	for i, step := range p.ImmediateActions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n## Required resources\n\n")
	for _, res := range p.RequiredResources {
		fmt.Fprintf(&b, "- %s\n", res)
	}
	b.WriteString("\n## Risk assessment\n\n")
	b.WriteString(p.RiskAssessment)
	b.WriteString("\n")
	return b.String()
}

// formatUSD renders 12500 as "12,500" and 12500.5 as "12,500.50".
func formatUSD(v float64) string {
	return strings.TrimSuffix(message.NewPrinter(language.English).Sprintf("%.2f", v), ".00")
}
