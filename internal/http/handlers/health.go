package handlers

import (
	"net/http"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

type healthResponse struct {
	Status string `json:"status"`
	Needs  int    `json:"needs"`
	// UsageStore reports whether generation usage is being persisted.
	UsageStore bool `json:"usageStore"`
}

// Health reports liveness along with the size of the need board.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	needs, err := a.Needs.List(r.Context(), domain.NeedFilter{})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, healthResponse{Status: "ok", Needs: len(needs), UsageStore: a.Usage != nil})
}
