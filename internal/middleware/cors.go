package middleware

import (
	"net/http"
	"strconv"
)

const corsMaxAge = 24 * 60 * 60

// CORS sets the cross-origin headers on every response and answers
// pre-flight requests with 204 before they reach any handler. The allowed
// origin is the configured one, else the request's Origin, else "*".
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := allowedOrigin
			if origin == "" {
				origin = r.Header.Get("Origin")
				if origin != "" {
					w.Header().Add("Vary", "Origin")
				}
			}
			if origin == "" {
				origin = "*"
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
