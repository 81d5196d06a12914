package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

func (a *App) DashboardGet(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Dashboard)
}

// NGORegister validates an application and acknowledges it. Applications are
// logged for review and not stored.
func (a *App) NGORegister(w http.ResponseWriter, r *http.Request) {
	var req domain.NGORegistration
	if !a.decode(w, r, &req) {
		return
	}
	req.OrgName = strings.TrimSpace(req.OrgName)
	req.ContactPerson = strings.TrimSpace(req.ContactPerson)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := a.validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", validationMessage(err))
		return
	}
	a.Logger.Info().
		Str("org", req.OrgName).
		Str("contact", req.ContactPerson).
		Str("email", req.Email).
		Msg("ngo registration received")
	a.json(w, http.StatusAccepted, map[string]string{
		"status": "received",
		"message": fmt.Sprintf("Thank you, %s. Your application for %s has been received and is under review.",
			req.ContactPerson, req.OrgName),
	})
}
