package database

import (
	"strings"
	"testing"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient("not-a-redis-url")
	if err == nil {
		t.Fatalf("expected error for invalid Redis URL")
	}
	if !strings.Contains(err.Error(), "parse Redis URL") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
