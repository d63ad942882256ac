package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(keys []string, path, authHeader string) *httptest.ResponseRecorder {
	handler := BearerAuthMiddleware(keys)(okHandler())
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"no keys", nil, "/documents", "", http.StatusOK},
		{"blank keys", []string{"", "  "}, "/documents", "", http.StatusOK},
		{"missing header", []string{"secret"}, "/documents", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "/documents", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", []string{"secret"}, "/documents", "Bearer ", http.StatusUnauthorized},
		{"wrong token", []string{"secret"}, "/documents", "Bearer wrong-key", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, "/documents", "Bearer secret", http.StatusOK},
		{"lowercase scheme", []string{"secret"}, "/documents", "bearer secret", http.StatusOK},
		{"second key", []string{"key1", "key2"}, "/documents/x/reviews", "Bearer key2", http.StatusOK},
		{"health exempt", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics exempt", []string{"secret"}, "/metrics", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth(tt.keys, tt.path, tt.header)
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_RejectionBody(t *testing.T) {
	rr := serveAuth([]string{"secret"}, "/documents", "Bearer nope")
	if rr.Header().Get("WWW-Authenticate") != authChallenge {
		t.Errorf("WWW-Authenticate = %q", rr.Header().Get("WWW-Authenticate"))
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != CodeUnauthorized || errResp.Message != "invalid api key" {
		t.Errorf("unexpected error response %+v", errResp)
	}
}
