package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clarity-gateway/internal/handlers"
	"clarity-gateway/internal/llm"
	"clarity-gateway/internal/models"
)

type echoBackend struct{}

func (echoBackend) Name() string { return "echo" }

func (echoBackend) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	return "echo: " + p.Message, nil
}

func newTestRouter(backend llm.Backend) http.Handler {
	assets := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("index"))
	})
	chat := handlers.NewChatHandler(backend, nil, "persona")
	return New(handlers.NewGatewayHandler(assets, nil, chat), "", "echo")
}

func TestRouter_PreflightAnyPath(t *testing.T) {
	r := newTestRouter(echoBackend{})

	for _, path := range []string{"/", "/api/clarity", "/image", "/healthz", "/nope/deep/path"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://site.example")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("%s: expected 204, got %d", path, rr.Code)
		}
		if rr.Body.Len() != 0 {
			t.Fatalf("%s: expected empty body", path)
		}
		if rr.Header().Get("Access-Control-Allow-Origin") != "https://site.example" {
			t.Fatalf("%s: expected reflected origin, got %q", path, rr.Header().Get("Access-Control-Allow-Origin"))
		}
	}
}

func TestRouter_EveryResponseHasCORS(t *testing.T) {
	tests := []struct {
		name    string
		backend llm.Backend
		method  string
		path    string
		body    string
		status  int
	}{
		{"static", echoBackend{}, http.MethodGet, "/", "", http.StatusOK},
		{"chat ok", echoBackend{}, http.MethodPost, "/api/clarity", `{"message":"How much does it cost?"}`, http.StatusOK},
		{"chat bad input", echoBackend{}, http.MethodPost, "/api/clarity", `{}`, http.StatusBadRequest},
		{"chat unconfigured", nil, http.MethodPost, "/api/clarity", `{"message":"hi"}`, http.StatusInternalServerError},
		{"wrong method", echoBackend{}, http.MethodPut, "/api/clarity", "", http.StatusMethodNotAllowed},
		{"image unconfigured", echoBackend{}, http.MethodPost, "/image", "x", http.StatusInternalServerError},
		{"health", echoBackend{}, http.MethodGet, "/healthz", "", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(tc.backend)
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
			if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("expected CORS header, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Fatalf("expected request id header")
			}
		})
	}
}

func TestRouter_ChatScenario(t *testing.T) {
	r := newTestRouter(echoBackend{})

	req := httptest.NewRequest(http.MethodPost, "/api/clarity", strings.NewReader(`{"message":"How much does it cost?","history":[]}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Reply != "echo: How much does it cost?" {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
}
