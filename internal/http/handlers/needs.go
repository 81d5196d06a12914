package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

// SummaryUnavailableMessage is shown when no summary could be generated.
const SummaryUnavailableMessage = "Could not generate a summary right now. Please try again later."

type needResponse struct {
	domain.Need
	Progress float64 `json:"progress"`
}

func newNeedResponse(n domain.Need) needResponse {
	if n.Donations == nil {
		n.Donations = []domain.Donation{}
	}
	return needResponse{Need: n, Progress: n.Progress()}
}

func (a *App) ListNeeds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	needs, err := a.Needs.List(r.Context(), domain.NeedFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items := make([]needResponse, 0, len(needs))
	for _, n := range needs {
		items = append(items, newNeedResponse(n))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) GetNeed(w http.ResponseWriter, r *http.Request) {
	need, err := a.Needs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, newNeedResponse(need))
}

// SummarizeNeed attaches a one-sentence summary to the need. When the
// generation client has nothing to offer the need is left as it was.
func (a *App) SummarizeNeed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	need, err := a.Needs.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	summary, ok := a.AI.Summarize(r.Context(), need)
	if !ok {
		a.error(w, http.StatusBadGateway, "generation_unavailable", SummaryUnavailableMessage)
		return
	}
	need, err = a.Needs.SetSummary(r.Context(), id, summary)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, newNeedResponse(need))
}
