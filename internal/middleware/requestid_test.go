package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRequestIDRouter(cfg RequestIDConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDWithConfig(cfg))
	r.GET("/users", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return r
}

func TestRequestID_GeneratesHexID(t *testing.T) {
	r := setupRequestIDRouter(RequestIDConfig{})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id := w.Body.String()
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(id) {
		t.Errorf("request ID = %q; want 32 hex chars", id)
	}
	if got := w.Header().Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID header = %q; want %q", got, id)
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	r := setupRequestIDRouter(RequestIDConfig{})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		id := w.Body.String()
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}

func TestRequestID_UpstreamIgnoredByDefault(t *testing.T) {
	r := setupRequestIDRouter(RequestIDConfig{})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("X-Request-ID", "upstream-id-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if id := w.Body.String(); id == "upstream-id-123" {
		t.Error("upstream ID was reused without TrustUpstream")
	}
}

func TestRequestID_TrustUpstream(t *testing.T) {
	r := setupRequestIDRouter(RequestIDConfig{TrustUpstream: true})

	tests := []struct {
		name     string
		upstream string
		reused   bool
	}{
		{name: "valid ID is reused", upstream: "upstream-id-123", reused: true},
		{name: "invalid characters rejected", upstream: "bad id with spaces", reused: false},
		{name: "overlong ID rejected", upstream: strings.Repeat("a", 100), reused: false},
		{name: "empty ID rejected", upstream: "", reused: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.upstream != "" {
				req.Header.Set("X-Request-ID", tt.upstream)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			id := w.Body.String()
			if tt.reused && id != tt.upstream {
				t.Errorf("request ID = %q; want upstream %q", id, tt.upstream)
			}
			if !tt.reused && id == tt.upstream {
				t.Errorf("invalid upstream ID %q was reused", tt.upstream)
			}
		})
	}
}

func TestGetRequestID_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetRequestID(c); got != "" {
		t.Errorf("GetRequestID on bare context = %q; want empty", got)
	}
}

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"abc-123-DEF", true},
		{"a", true},
		{"", false},
		{"has spaces", false},
		{"under_score", false},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := validRequestID(tt.id); got != tt.want {
			t.Errorf("validRequestID(%q) = %v; want %v", tt.id, got, tt.want)
		}
	}
}
