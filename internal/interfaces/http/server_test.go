package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/kbeauty-storefront/internal/config"
	"github.com/your-org/kbeauty-storefront/internal/domain/visitor"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/routes"
	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) Health(ctx context.Context) error { return f(ctx) }

func newTestServer(checks map[string]HealthChecker) *Server {
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	cfg := &config.Config{
		App: config.AppConfig{Name: "K-Beauty Storefront", Version: "test", Environment: "test"},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"http://localhost:5173"},
			CORSAllowedMethods: []string{"GET", "POST"},
		},
		Storefront: config.StorefrontConfig{DeliveryFee: "7"},
	}
	registry := visitor.NewRegistry(storage.NewMemory(), nil, visitor.Options{IdleTTL: time.Minute}, log)

	return NewServer(cfg, routes.Dependencies{
		Config:   cfg,
		Visitors: registry,
		Logger:   log,
	}, nil, checks, log)
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]HealthChecker
		want   int
	}{
		{"no dependencies", nil, http.StatusOK},
		{"healthy", map[string]HealthChecker{"redis": checkFunc(func(context.Context) error { return nil })}, http.StatusOK},
		{"unhealthy", map[string]HealthChecker{"redis": checkFunc(func(context.Context) error { return errors.New("down") })}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.checks)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestReadinessAndSecurityHeaders(t *testing.T) {
	s := newTestServer(nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("security headers missing")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id missing")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("credentials must be allowed for the visitor cookie")
	}
}
