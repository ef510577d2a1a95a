package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/userdeck/userdeck/internal/config"
)

type fakeHTTPServer struct {
	listenErr      error
	shutdownCalled bool
	stopCh         chan struct{}
	mu             sync.Mutex
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	if f.stopCh != nil {
		<-f.stopCh
	}
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdownCalled = true
	f.mu.Unlock()
	if f.stopCh != nil {
		close(f.stopCh)
	}
	return nil
}

func (f *fakeHTTPServer) wasShutdownCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdownCalled
}

func testAppConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:       "127.0.0.1",
			Port:       8080,
			Mode:       gin.TestMode,
			CSRFSecret: "app-test-secret",
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "app.db")},
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) expected error, got nil")
	}
}

func TestNew_WiresWorkingEngine(t *testing.T) {
	a, err := New(testAppConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
		a.logger.Close()
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/users" {
		t.Errorf("GET / = %d %q, want redirect to /users", w.Code, w.Header().Get("Location"))
	}
}

func TestNew_ReleaseRejectsPlaceholderSecret(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Server.Mode = gin.ReleaseMode
	cfg.Server.CSRFSecret = "change-me-to-a-random-secret"

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for placeholder csrf_secret in release mode")
	}
}

func TestNew_InvalidMode(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Server.Mode = "sideways"

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for invalid gin mode")
	}
}

func TestIsPlaceholderCSRFSecret(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"", true},
		{"   ", true},
		{"change-me-to-a-random-secret", true},
		{"Change-Me-In-Env", true},
		{"a-real-secret-value", false},
	}

	for _, tt := range tests {
		if got := isPlaceholderCSRFSecret(tt.secret); got != tt.want {
			t.Errorf("isPlaceholderCSRFSecret(%q) = %v; want %v", tt.secret, got, tt.want)
		}
	}
}

func TestResolveCORSConfig(t *testing.T) {
	t.Run("debug mode defaults to wildcard", func(t *testing.T) {
		cfg := resolveCORSConfig(gin.DebugMode, nil)
		if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "*" {
			t.Errorf("AllowOrigins = %v; want [*]", cfg.AllowOrigins)
		}
	})

	t.Run("release mode denies cross-origin by default", func(t *testing.T) {
		cfg := resolveCORSConfig(gin.ReleaseMode, nil)
		if len(cfg.AllowOrigins) != 0 {
			t.Errorf("AllowOrigins = %v; want empty", cfg.AllowOrigins)
		}
	})

	t.Run("explicit allowlist wins in any mode", func(t *testing.T) {
		origins := []string{"https://admin.example.com"}
		cfg := resolveCORSConfig(gin.ReleaseMode, origins)
		if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != origins[0] {
			t.Errorf("AllowOrigins = %v; want %v", cfg.AllowOrigins, origins)
		}
	})
}

func TestValidateGinMode(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode} {
		if err := validateGinMode(mode); err != nil {
			t.Errorf("validateGinMode(%q) = %v; want nil", mode, err)
		}
	}
	if err := validateGinMode("production"); err == nil {
		t.Error("validateGinMode(production) = nil; want error")
	}
}

func TestRun_GracefulShutdownOnSignal(t *testing.T) {
	srv := &fakeHTTPServer{stopCh: make(chan struct{})}

	origNew := newHTTPServer
	origNotify := notifyContext
	t.Cleanup(func() {
		newHTTPServer = origNew
		notifyContext = origNotify
	})

	newHTTPServer = func(addr string, handler http.Handler) httpServer { return srv }
	// Simulate an immediate shutdown signal.
	notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(parent)
		cancel()
		return ctx, func() {}
	}

	a, err := New(testAppConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !srv.wasShutdownCalled() {
		t.Error("expected Shutdown to be called on signal")
	}
}

func TestRun_ServerError(t *testing.T) {
	srv := &fakeHTTPServer{listenErr: errors.New("bind: address already in use")}

	origNew := newHTTPServer
	origNotify := notifyContext
	t.Cleanup(func() {
		newHTTPServer = origNew
		notifyContext = origNotify
	})

	newHTTPServer = func(addr string, handler http.Handler) httpServer { return srv }
	notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
		return context.WithCancel(parent)
	}

	a, err := New(testAppConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = a.Run()
	if err == nil {
		t.Fatal("Run expected error when ListenAndServe fails")
	}
	if !strings.Contains(err.Error(), "address already in use") {
		t.Errorf("Run error = %v", err)
	}
}

func TestRun_NilApp(t *testing.T) {
	var a *App
	if err := a.Run(); err == nil {
		t.Fatal("expected error for nil app")
	}
}
