package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/http/handlers"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/middleware"
)

type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Country(opts.CountryLookup),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// Routes that call the generation service share one per-IP budget.
	limit := middleware.RateLimit(opts.RateLimitPerMin)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)
		r.Get("/dashboard", app.DashboardGet)
		r.Post("/ngos/register", app.NGORegister)

		r.Route("/needs", func(r chi.Router) {
			r.Get("/", app.ListNeeds)
			r.Get("/{id}", app.GetNeed)
			r.Post("/{id}/donations", app.DonationsCreate)
			r.With(limit).Post("/{id}/summary", app.SummarizeNeed)
		})

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/plans", app.PlansCreate)
			r.Post("/chat", app.Chat)
		})
		r.Post("/plans/export", app.PlansExport)
		r.Get("/chat/transcript", app.ChatTranscript)

		r.Get("/admin/usage", app.UsageSummary)
	})

	return r
}
