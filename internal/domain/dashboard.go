package domain

// Stat is a headline figure on the dashboard.
type Stat struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Change   string `json:"change"`
	Positive bool   `json:"positive"`
}

// RegionPoint is one region's row in the case and resource charts.
type RegionPoint struct {
	Name      string `json:"name"`
	Active    int    `json:"active"`
	Recovered int    `json:"recovered"`
	Resources int    `json:"resources"`
}

type AlertLevel string

const (
	AlertActive AlertLevel = "Active"
	AlertUrgent AlertLevel = "Urgent"
)

// Alert is a ministry notice shown under the charts.
type Alert struct {
	Title  string     `json:"title"`
	Detail string     `json:"detail"`
	Level  AlertLevel `json:"level"`
	Posted string     `json:"posted"`
}

type Dashboard struct {
	Stats  []Stat        `json:"stats"`
	Chart  []RegionPoint `json:"chart"`
	Alerts []Alert       `json:"alerts"`
}

// NGORegistration is an organisation's application to post needs.
type NGORegistration struct {
	OrgName       string `json:"orgName" validate:"required,max=160"`
	ContactPerson string `json:"contactPerson" validate:"required,max=120"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=32"`
	Description   string `json:"description" validate:"max=2000"`
}
