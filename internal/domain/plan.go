package domain

// ResponsePlan is a crisis-response strategy produced by the generation client.
// A plan is only ever surfaced with all five fields populated.
type ResponsePlan struct {
	StrategyName       string   `json:"strategyName" validate:"notblank"`
	ImmediateActions   []string `json:"immediateActions" validate:"required,min=1"`
	RequiredResources  []string `json:"requiredResources" validate:"required,min=1"`
	RiskAssessment     string   `json:"riskAssessment"`
	EstimatedBudgetUSD float64  `json:"estimatedBudgetUSD" validate:"gte=0"`
}
