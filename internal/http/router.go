package apihttp

import (
	"log/slog"
	"net/http"

	"github.com/example/sacsbot/internal/handlers"
	"github.com/example/sacsbot/internal/rate"
	"github.com/example/sacsbot/internal/session"
	"github.com/example/sacsbot/pkg/jsonutil"
	"github.com/go-chi/chi/v5"
)

// Deps bundles what the router mounts. Admin and Store may be nil.
type Deps struct {
	Calc    *handlers.CalculateHandler
	Admin   *handlers.AdminHandler
	Limiter *rate.LimiterMap
	Store   session.Pinger
	Log     *slog.Logger
}

// NewRouter wires routes and middlewares.
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(CORS)
	r.Use(RateLimit(d.Limiter))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if d.Store != nil {
			if err := d.Store.Ping(r.Context()); err != nil {
				jsonutil.JSON(w, http.StatusInternalServerError, map[string]string{"status": "unhealthy"})
				return
			}
		}
		jsonutil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/limits", d.Calc.Limits)
		api.Get("/calculate", d.Calc.Query)
		api.Post("/calculate", d.Calc.JSON)
	})

	if d.Admin != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(d.Admin.RequireToken)
			admin.Get("/sessions/{chatID}", d.Admin.GetSession)
			admin.Delete("/sessions/{chatID}", d.Admin.DeleteSession)
		})
	}

	return r
}
