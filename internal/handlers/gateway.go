package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"clarity-gateway/internal/models"
	"clarity-gateway/internal/services"
)

const maxImageBodyBytes = 25 << 20

// ImageTransformer converts an uploaded image. *services.ImageService is the
// production implementation.
type ImageTransformer interface {
	Transform(ctx context.Context, body io.Reader, contentType string) (*services.TransformedImage, error)
}

// GatewayHandler is the single entry point that splits traffic between the
// static site, the image transformer and the chat pipeline. Pre-flight
// requests never get here; the CORS middleware answers them.
type GatewayHandler struct {
	assets http.Handler
	images ImageTransformer
	chat   *ChatHandler
}

// NewGatewayHandler wires the collaborators. Pass nil for any that are not
// configured; the matching routes then report 503 or 500.
func NewGatewayHandler(assets http.Handler, images ImageTransformer, chat *ChatHandler) *GatewayHandler {
	return &GatewayHandler{
		assets: assets,
		images: images,
		chat:   chat,
	}
}

type route int

const (
	routeStatic route = iota
	routeImage
	routeChat
	routeMethodNotAllowed
)

func classify(r *http.Request) route {
	path := r.URL.Path
	image := isImagePath(path)

	if r.Method == http.MethodGet && !isAPIPath(path) && !image {
		return routeStatic
	}
	if image {
		return routeImage
	}
	if r.Method != http.MethodPost {
		return routeMethodNotAllowed
	}
	return routeChat
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// isImagePath matches whole path segments, so /images/logo.png stays a
// static asset.
func isImagePath(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "image" || seg == "process-image" {
			return true
		}
	}
	return false
}

func (h *GatewayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch classify(r) {
	case routeStatic:
		h.serveStatic(w, r)
	case routeImage:
		h.serveImage(w, r)
	case routeMethodNotAllowed:
		writeJSON(w, http.StatusMethodNotAllowed, errorResp(models.CodeMethodNotAllowed, "Method not allowed", r))
	default:
		h.chat.Chat(w, r)
	}
}

func (h *GatewayHandler) serveStatic(w http.ResponseWriter, r *http.Request) {
	if h.assets == nil {
		writeText(w, http.StatusServiceUnavailable, "Website is deploying... please wait. (Missing static assets)")
		return
	}
	h.assets.ServeHTTP(w, r)
}

func (h *GatewayHandler) serveImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp(models.CodeMethodNotAllowed, "Method not allowed for image endpoint", r))
		return
	}
	if h.images == nil {
		writeJSON(w, http.StatusInternalServerError, errorResp(models.CodeConfig, "Image function binding not configured", r))
		return
	}

	img, err := h.images.Transform(r.Context(), http.MaxBytesReader(w, r.Body, maxImageBodyBytes), r.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("✗ Image processing error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorRespWithDetails(models.CodeImage, "Image processing failed", err.Error(), r))
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(img.Body)
}
