package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/middleware"
)

// amountText accepts an amount as a JSON string ("50") or number (50). The
// text is parsed by the domain so both forms follow the same rules.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number or numeric string")
	}
	*a = amountText(n)
	return nil
}

type donationRequest struct {
	Name      string     `json:"name"`
	Amount    amountText `json:"amount"`
	Anonymous bool       `json:"anonymous"`
}

type donationResponse struct {
	Donation domain.Donation `json:"donation"`
	Need     needResponse    `json:"need"`
}

// DonationsCreate records a donation against a need. Invalid amounts are
// refused before the board is touched.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if !a.decode(w, r, &req) {
		return
	}
	donation, err := domain.NewDonation(a.NewID(), domain.DonationInput{
		Name:      req.Name,
		Amount:    string(req.Amount),
		Anonymous: req.Anonymous,
		Country:   middleware.CountryFromContext(r.Context()),
	}, a.Now())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	need, err := a.Needs.RecordDonation(r.Context(), chi.URLParam(r, "id"), donation)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().
		Str("need_id", need.ID).
		Str("donation_id", donation.ID).
		Float64("amount", donation.Amount).
		Msg("donation recorded")
	a.json(w, http.StatusCreated, donationResponse{Donation: donation, Need: newNeedResponse(need)})
}
