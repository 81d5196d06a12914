package domain

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category classifies what a need is asking for.
type Category string

const (
	CategoryMedical   Category = "Medical"
	CategoryFood      Category = "Food"
	CategoryLogistics Category = "Logistics"
	CategoryEducation Category = "Education"
	CategoryHygiene   Category = "Hygiene"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll = "All"

var categories = []Category{CategoryMedical, CategoryFood, CategoryLogistics, CategoryEducation, CategoryHygiene}

// Urgency ranks how quickly a need must be met.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

var urgencies = []Urgency{UrgencyHigh, UrgencyMedium, UrgencyLow}

var titleCaser = cases.Title(language.English)

func canonicalWord(s string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(s)))
}

// ParseCategory accepts a category in any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(canonicalWord(s))
	for _, known := range categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

// ParseUrgency accepts an urgency in any letter case.
func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(canonicalWord(s))
	for _, known := range urgencies {
		if u == known {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: unknown urgency %q", ErrInvalidInput, s)
}

// Need is a posted aid request with a funding goal and the donations received so far.
type Need struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	Location     string     `json:"location"`
	Category     Category   `json:"category"`
	Urgency      Urgency    `json:"urgency"`
	Description  string     `json:"description"`
	Raised       float64    `json:"raised"`
	Target       float64    `json:"target"`
	Donations    []Donation `json:"donations"`
	Summary      string     `json:"aiSummary,omitempty"`
}

// Progress returns the funded fraction, capped at 1.
func (n Need) Progress() float64 {
	if n.Target <= 0 {
		return 0
	}
	return math.Min(n.Raised/n.Target, 1)
}

// ApplyDonation credits the donation to the need and puts it first in the history.
// Raised only ever grows: a donation without a positive amount is refused and
// the need is left untouched.
func (n *Need) ApplyDonation(d Donation) error {
	if !validAmount(d.Amount) {
		return ErrInvalidAmount
	}
	n.Raised += d.Amount
	donations := make([]Donation, 0, len(n.Donations)+1)
	donations = append(donations, d)
	n.Donations = append(donations, n.Donations...)
	return nil
}

// Clone returns a copy that shares no slices with n.
func (n Need) Clone() Need {
	out := n
	if n.Donations != nil {
		out.Donations = append([]Donation(nil), n.Donations...)
	}
	return out
}

// NeedFilter narrows a need listing by free-text search and category.
type NeedFilter struct {
	Search   string
	Category string
}

// Matches reports whether the need passes the filter. Search looks at the
// title and location, ignoring case.
func (f NeedFilter) Matches(n Need) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term != "" &&
		!strings.Contains(strings.ToLower(n.Title), term) &&
		!strings.Contains(strings.ToLower(n.Location), term) {
		return false
	}
	cat := strings.TrimSpace(f.Category)
	if cat == "" || strings.EqualFold(cat, CategoryAll) {
		return true
	}
	return strings.EqualFold(string(n.Category), cat)
}

// FilterNeeds keeps the needs matching f, preserving order.
func FilterNeeds(needs []Need, f NeedFilter) []Need {
	out := make([]Need, 0, len(needs))
	for _, n := range needs {
		if f.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}
