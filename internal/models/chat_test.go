package models

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestChatRequest_LenientHistoryDecoding(t *testing.T) {
	body := `{"message":"hi","history":[
		{"role":"user","content":"first"},
		{"role":"assistant","content":42},
		null,
		"junk",
		{"role":true,"content":"no role"},
		{"role":"model","content":"second"}
	]}`

	var req ChatRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("expected lenient decode, got %v", err)
	}

	if req.Message != "hi" {
		t.Fatalf("expected message %q, got %q", "hi", req.Message)
	}
	if len(req.History) != 6 {
		t.Fatalf("expected 6 decoded turns, got %d", len(req.History))
	}

	want := []ChatMessage{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: ""},
		{},
		{},
		{Role: "", Content: "no role"},
		{Role: "model", Content: "second"},
	}
	for i, w := range want {
		if req.History[i] != w {
			t.Errorf("turn %d: expected %+v, got %+v", i, w, req.History[i])
		}
	}
}

func TestChatRequest_NonArrayHistoryIsEmpty(t *testing.T) {
	for _, history := range []string{`{}`, `"x"`, `5`, `null`, `true`} {
		t.Run(history, func(t *testing.T) {
			var req ChatRequest
			body := `{"message":"hi","history":` + history + `}`
			if err := json.Unmarshal([]byte(body), &req); err != nil {
				t.Fatalf("expected decode to succeed, got %v", err)
			}
			if req.Message != "hi" {
				t.Fatalf("expected message %q, got %q", "hi", req.Message)
			}
			if len(req.History) != 0 {
				t.Fatalf("expected empty history, got %+v", req.History)
			}
		})
	}
}

func TestChatRequest_NonStringMessageFails(t *testing.T) {
	var req ChatRequest
	if err := json.Unmarshal([]byte(`{"message":123}`), &req); err == nil {
		t.Fatalf("expected error for non-string message")
	}
}

func TestTrimHistory(t *testing.T) {
	history := make([]ChatMessage, 25)
	for i := range history {
		history[i] = ChatMessage{Role: RoleUser, Content: fmt.Sprintf("m%d", i)}
	}

	got := TrimHistory(history, MaxHistoryTurns)
	if len(got) != MaxHistoryTurns {
		t.Fatalf("expected %d turns, got %d", MaxHistoryTurns, len(got))
	}
	if got[0].Content != "m5" {
		t.Fatalf("expected oldest turns evicted first, got first turn %q", got[0].Content)
	}
	if got[len(got)-1].Content != "m24" {
		t.Fatalf("expected newest turn kept, got %q", got[len(got)-1].Content)
	}

	short := history[:3]
	if got := TrimHistory(short, MaxHistoryTurns); len(got) != 3 {
		t.Fatalf("expected short history untouched, got %d turns", len(got))
	}

	if got := TrimHistory(history, 0); got != nil {
		t.Fatalf("expected nil for zero cap, got %d turns", len(got))
	}
}
