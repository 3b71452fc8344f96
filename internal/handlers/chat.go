package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"clarity-gateway/internal/llm"
	"clarity-gateway/internal/metrics"
	"clarity-gateway/internal/models"
)

const maxChatBodyBytes = 64 << 10

type documentSource interface {
	Get(ctx context.Context) (string, bool)
}

// ChatHandler runs the chat pipeline: reference document, payload assembly
// and one backend call.
type ChatHandler struct {
	backend      llm.Backend
	documents    documentSource
	systemPrompt string
}

func NewChatHandler(backend llm.Backend, documents documentSource, systemPrompt string) *ChatHandler {
	return &ChatHandler{
		backend:      backend,
		documents:    documents,
		systemPrompt: systemPrompt,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	// Configuration is checked before the body is touched.
	if h == nil || h.backend == nil {
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeUnconfigured).Inc()
		writeJSON(w, http.StatusInternalServerError, errorResp(models.CodeConfig, "Server missing AI capability", r))
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		writeJSON(w, http.StatusBadRequest, errorResp(models.CodeValidation, "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		writeJSON(w, http.StatusBadRequest, errorResp(models.CodeValidation, "Missing user message", r))
		return
	}

	prompt := llm.Prompt{
		System:  h.systemPrompt,
		History: req.History,
		Message: req.Message,
	}
	if h.documents != nil {
		if doc, ok := h.documents.Get(r.Context()); ok {
			prompt.Document = doc
		}
	}

	start := time.Now()
	reply, err := h.backend.Generate(r.Context(), prompt)
	metrics.BackendDuration.WithLabelValues(h.backend.Name()).Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(reply) == "" {
		err = llm.ErrEmptyReply
	}
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}

	metrics.ChatRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// writeBackendError maps every backend failure to 502. Upstream bodies go to
// the log only.
func (h *ChatHandler) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, llm.ErrEmptyReply) {
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeEmptyReply).Inc()
		log.Printf("WARNING: %s returned no reply text", h.backend.Name())
		writeJSON(w, http.StatusBadGateway, errorResp(models.CodeEmptyReply, "No response generated", r))
		return
	}

	metrics.ChatRequests.WithLabelValues(metrics.OutcomeUpstream).Inc()
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		log.Printf("✗ %s call failed: status=%d body=%s", upstream.Backend, upstream.StatusCode, upstream.Body)
	} else {
		log.Printf("✗ %s call failed: %v", h.backend.Name(), err)
	}
	writeJSON(w, http.StatusBadGateway, errorResp(models.CodeAI, "Failed to get AI response", r))
}
