package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/domain"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7},
	}
}

func newTestGenerator(url string) *Generator {
	return NewGenerator(&Config{
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
		Timeout:  time.Second,
		Logger:   zap.NewNop(),
	})
}

func TestGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Model != "test-model" || len(body.Messages) != 1 || body.Messages[0].Content != "hello" {
			t.Errorf("unexpected request: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("<p>hi</p>"))
	}))
	defer server.Close()

	text, err := newTestGenerator(server.URL).Generate(context.Background(), "test-key", "hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "<p>hi</p>" {
		t.Errorf("expected <p>hi</p>, got %q", text)
	}
}

func TestGenerator_PerCredentialClient(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer server.Close()

	gen := newTestGenerator(server.URL)
	for _, cred := range []string{"a", "b", "a"} {
		if _, err := gen.Generate(context.Background(), cred, "x"); err != nil {
			t.Fatalf("Generate(%s): %v", cred, err)
		}
	}
	want := []string{"Bearer a", "Bearer b", "Bearer a"}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
	if len(gen.clients) != 2 {
		t.Errorf("expected 2 cached clients, got %d", len(gen.clients))
	}
}

func TestGenerator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), "bad", "x")
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Fatalf("expected ErrGenerationProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("expected upstream message in %v", err)
	}
}

func TestGenerator_NebiusDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"model not found"}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), "k", "x")
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Fatalf("expected ErrGenerationProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("expected status code in %v", err)
	}
}

func TestGenerator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), "k", "x")
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Errorf("expected ErrGenerationProviderError, got %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"quota"}`, "quota"},
		{`{"error":{"message":"bad key"}}`, "bad key"},
		{`not json`, ""},
		{`{"detail":42}`, ""},
	}
	for _, tt := range tests {
		if got := extractDetail([]byte(tt.body)); got != tt.want {
			t.Errorf("extractDetail(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	gen := NewGenerator(&Config{BaseURL: server.URL, Model: "m", HealthKey: "k"})
	if err := gen.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}
