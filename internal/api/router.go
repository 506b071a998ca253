package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterDeps struct {
	Service PointService
	// HTTP may be nil.
	HTTP HTTPObserver
	// Metrics serves /metrics when set.
	Metrics     http.Handler
	CORSOrigins []string
}

// NewRouter wires the point endpoints, health and metrics into a chi router.
func NewRouter(deps RouterDeps) http.Handler {
	h := NewHandler(deps.Service)
	r := chi.NewRouter()

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(RequestID, Observe(deps.HTTP), Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Get("/point/{userId}", h.GetPointHandler)
	r.Get("/point/{userId}/histories", h.GetHistoriesHandler)
	r.Patch("/point/{userId}/charge", h.ChargeHandler)
	r.Patch("/point/{userId}/use", h.UseHandler)

	return r
}
