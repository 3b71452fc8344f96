package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clarity-gateway/internal/cache"
	"clarity-gateway/internal/config"
	"clarity-gateway/internal/database"
	"clarity-gateway/internal/handlers"
	"clarity-gateway/internal/httpclient"
	"clarity-gateway/internal/llm"
	"clarity-gateway/internal/metrics"
	"clarity-gateway/internal/router"
	"clarity-gateway/internal/services"
)

func main() {
	log.Println("🚀 Starting Clarity Gateway...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	outbound := httpclient.New()

	// ──── Step 2: Document Cache Store ────
	var store cache.Store
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient, cache.DefaultRedisPrefix)
		log.Println("✓ Redis document cache connected")
	} else {
		store = cache.NewMemoryStore(nil)
		log.Println("✓ In-memory document cache (REDIS_URL not set)")
	}

	documentService := services.NewDocumentService(cfg.LivingDocURL, store, outbound, cfg.DocMaxChars, cfg.DocCacheTTL)
	if cfg.LivingDocURL == "" {
		log.Println("  Living document disabled (LIVING_DOC_URL not set)")
	}

	// ──── Step 3: Language-Model Backend ────
	// A missing backend is not fatal: chat answers 500 until it is configured.
	backend, err := llm.New(context.Background(), llm.Options{
		Backend:   cfg.LLMBackend,
		Model:     cfg.LLMModel,
		APIKey:    cfg.LLMAPIKey,
		BaseURL:   cfg.LLMBaseURL,
		AccountID: cfg.CFAccountID,
	}, outbound)
	backendName := "none"
	switch {
	case err != nil:
		log.Printf("✗ LLM backend unavailable, chat disabled: %v", err)
	case backend == nil:
		log.Println("  LLM backend disabled (LLM_BACKEND=none)")
	default:
		backendName = backend.Name()
		log.Printf("✓ LLM backend initialized: %s", backendName)
	}
	if closer, ok := backend.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// ──── Step 4: Collaborators ────
	var assets http.Handler
	if info, err := os.Stat(cfg.AssetsDir); err == nil && info.IsDir() {
		assets = http.FileServer(http.Dir(cfg.AssetsDir))
		log.Printf("✓ Serving static assets from %s", cfg.AssetsDir)
	} else {
		log.Printf("WARNING: static assets directory %s not found, site will report 503", cfg.AssetsDir)
	}

	var images handlers.ImageTransformer
	if cfg.ImageServiceURL != "" {
		images = services.NewImageService(cfg.ImageServiceURL, outbound)
		log.Println("✓ Image transform service configured")
	}

	// ──── Step 5: Handlers ────
	chatHandler := handlers.NewChatHandler(backend, documentService, services.SystemPrompt(cfg.SystemPrompt))
	gateway := handlers.NewGatewayHandler(assets, images, chatHandler)

	// ──── Step 6: Start HTTP Servers ────
	r := router.New(gateway, cfg.AllowedOrigin, backendName)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
				log.Printf("✗ Metrics server error: %v", err)
			}
		}()
		log.Printf("✓ Metrics on http://%s/metrics", cfg.MetricsAddr)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatalf("✗ Failed to listen on %s: %v", server.Addr, err)
	}

	log.Printf("✓ Clarity Gateway ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: POST http://localhost:%s/api/clarity", cfg.Port)

	if err := serve(server, ln, sigChan, 30*time.Second, metricsServer); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("✓ Server stopped")
}

// serve runs srv on ln until stop fires, then shuts down the auxiliary
// servers and srv, waiting up to grace for in-flight requests.
func serve(srv *http.Server, ln net.Listener, stop <-chan os.Signal, grace time.Duration, aux ...*http.Server) error {
	drained := make(chan error, 1)
	go func() {
		<-stop
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		for _, s := range aux {
			if s != nil {
				s.Shutdown(ctx)
			}
		}
		drained <- srv.Shutdown(ctx)
	}()

	if err := srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	// Serve returns as soon as Shutdown starts.
	return <-drained
}
