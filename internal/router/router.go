// Package router sets up the HTTP routes and middleware chain of the page
// builder API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagebuilder/internal/handlers"
	"pagebuilder/internal/middleware"
)

// New creates and returns the configured Chi router. origins lists the
// browser origins allowed to call the API.
func New(api *handlers.API, origins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(origins))

	r.Get("/health", healthHandler)

	r.Route("/api", api.Routes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"route not found"}` + "\n"))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
