package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velikov/donefold/internal/aggservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *aggservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Week history.
	r.Get("/weeks", h.ListWeeks)
	r.Get("/weeks/{week}/actions", h.WeekActions)
	r.Get("/weeks/{week}/runs", h.WeekRuns)

	// Aggregation.
	r.Get("/preview", h.Preview)
	r.Post("/aggregate", h.Aggregate)

	// History search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
