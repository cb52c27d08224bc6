package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type pingRoutes struct{}

func (pingRoutes) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		id, _ := c.Get("request_id")
		c.String(http.StatusOK, "%v", id)
	})
}

func TestServerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New("0", time.Second, pingRoutes{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	if w.Code != http.StatusOK || id == "" || w.Body.String() != id {
		t.Fatalf("status %d, id %q, body %q", w.Code, id, w.Body.String())
	}
}

func TestRequestIDIsKept(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New("0", time.Second, pingRoutes{})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Header().Get(RequestIDHeader) != "abc-123" || w.Body.String() != "abc-123" {
		t.Fatalf("request id not propagated: %q", w.Body.String())
	}
}

func TestRequestScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	var logger *zerolog.Logger
	r.GET("/", func(c *gin.Context) {
		logger = zerolog.Ctx(c.Request.Context())
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if logger == nil || logger.GetLevel() == zerolog.Disabled {
		t.Fatal("request context has no logger")
	}
}

func TestServerStartStops(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New("0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}
