package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"clarity-gateway/internal/handlers"
	"clarity-gateway/internal/middleware"
	"clarity-gateway/internal/models"
)

func New(gateway *handlers.GatewayHandler, allowedOrigin, backendName string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(allowedOrigin))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: models.APIError{
			Code:      models.CodeMethodNotAllowed,
			Message:   "Method not allowed",
			RequestID: r.Header.Get(middleware.RequestIDHeader),
		}})
	})

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "backend": backendName})
	})

	// Everything else is classified by the gateway itself.
	r.Handle("/*", gateway)

	return r
}
