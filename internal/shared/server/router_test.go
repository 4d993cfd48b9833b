package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"transcript-backend/internal/shared/config"
)

func TestHealthRoute(t *testing.T) {
	cfg := config.Load()
	cfg.LocalStoreDir = t.TempDir()
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "transcript-insights-api") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestAddr(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ":8080"},
		{"9000", ":9000"},
		{":7000", ":7000"},
	}
	for _, tc := range cases {
		if got := Addr(tc.in); got != tc.want {
			t.Fatalf("Addr(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
