package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"clarity-gateway/internal/cache"
	"clarity-gateway/internal/metrics"
)

const (
	DefaultDocumentMaxChars = 6000
	DefaultDocumentTTL      = 7 * 24 * time.Hour

	// Upper bound on bytes read from the document source before sanitizing.
	maxDocumentBytes = 1 << 20
)

// DocumentService fetches the living document that grounds assistant answers
// and keeps the sanitized text in a shared Store. Failed fetches are never
// cached, so a previously stored copy stays valid until its own expiry.
type DocumentService struct {
	sourceURL string
	store     cache.Store
	client    *http.Client
	maxChars  int
	ttl       time.Duration
	flights   singleflight.Group
}

func NewDocumentService(sourceURL string, store cache.Store, client *http.Client, maxChars int, ttl time.Duration) *DocumentService {
	if client == nil {
		client = http.DefaultClient
	}
	if maxChars <= 0 {
		maxChars = DefaultDocumentMaxChars
	}
	if ttl <= 0 {
		ttl = DefaultDocumentTTL
	}
	return &DocumentService{
		sourceURL: sourceURL,
		store:     store,
		client:    client,
		maxChars:  maxChars,
		ttl:       ttl,
	}
}

// Get returns the sanitized document text, or false when no source is
// configured or the source cannot be read. It never fails the caller.
func (s *DocumentService) Get(ctx context.Context) (string, bool) {
	if s.sourceURL == "" {
		metrics.DocumentFetches.WithLabelValues(metrics.DocumentUnconfigured).Inc()
		return "", false
	}

	key := cache.KeyForURL(s.sourceURL)
	if text, ok := s.cached(ctx, key); ok {
		metrics.DocumentFetches.WithLabelValues(metrics.DocumentHit).Inc()
		return text, true
	}

	// Concurrent misses share one upstream fetch. The fetch outlives any
	// single caller; each caller stops waiting when its own request ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(key, func() (interface{}, error) {
		if text, ok := s.cached(fetchCtx, key); ok {
			return text, nil
		}
		return s.refresh(fetchCtx, key)
	})

	select {
	case <-ctx.Done():
		metrics.DocumentFetches.WithLabelValues(metrics.DocumentError).Inc()
		log.Printf("WARNING: living document wait abandoned: %v", ctx.Err())
		return "", false
	case res := <-ch:
		if res.Err != nil {
			metrics.DocumentFetches.WithLabelValues(metrics.DocumentError).Inc()
			log.Printf("WARNING: failed to load living document: %v", res.Err)
			return "", false
		}
		metrics.DocumentFetches.WithLabelValues(metrics.DocumentMiss).Inc()
		text := res.Val.(string)
		return text, text != ""
	}
}

func (s *DocumentService) cached(ctx context.Context, key string) (string, bool) {
	if s.store == nil {
		return "", false
	}
	text, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("WARNING: document cache read failed, treating as miss: %v", err)
		return "", false
	}
	return text, ok && text != ""
}

func (s *DocumentService) refresh(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", s.sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentBytes))
		return "", fmt.Errorf("document source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("read document body: %w", err)
	}

	text := SanitizeDocument(string(body), s.maxChars)
	if text == "" {
		return "", nil
	}

	if s.store != nil {
		if err := s.store.Put(ctx, key, text, s.ttl); err != nil {
			log.Printf("WARNING: document cache write failed: %v", err)
		}
	}
	return text, nil
}

// SanitizeDocument collapses non-breaking spaces and whitespace runs to single
// spaces, trims, and truncates to maxChars runes. Sanitizing its own output
// returns it unchanged.
func SanitizeDocument(text string, maxChars int) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.Join(strings.Fields(text), " ")

	if maxChars > 0 && utf8.RuneCountInString(text) > maxChars {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:maxChars]))
	}
	return text
}
