package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// AnonymousDonor is shown instead of a name for anonymous or unnamed donations.
const AnonymousDonor = "Anonymous"

// DonationTimeLayout matches the ISO-8601 form browsers produce with toISOString.
const DonationTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Donation represents a single contribution recorded against a need.
type Donation struct {
	ID        string  `json:"id"`
	DonorName string  `json:"donorName"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Anonymous bool    `json:"anonymous"`
	Country   string  `json:"country,omitempty"`
}

// DonationInput is a donation as submitted, before validation.
type DonationInput struct {
	Name      string
	Amount    string
	Anonymous bool
	Country   string
}

// ParseAmount converts submitted amount text into a positive amount.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	if !validAmount(amount) {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return amount, nil
}

// DonorDisplayName applies the anonymity rule to a submitted name.
func DonorDisplayName(name string, anonymous bool) string {
	if anonymous || strings.TrimSpace(name) == "" {
		return AnonymousDonor
	}
	return name
}

// NewDonation validates input and builds the donation to record.
func NewDonation(id string, in DonationInput, at time.Time) (Donation, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Donation{}, err
	}
	return Donation{
		ID:        id,
		DonorName: DonorDisplayName(in.Name, in.Anonymous),
		Amount:    amount,
		Date:      at.UTC().Format(DonationTimeLayout),
		Anonymous: in.Anonymous,
		Country:   strings.ToUpper(strings.TrimSpace(in.Country)),
	}, nil
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
