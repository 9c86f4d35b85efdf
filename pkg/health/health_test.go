package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func serve(t *testing.T, c *Checker, path string) (int, Response) {
	t.Helper()

	e := echo.New()
	c.Register(e.Group("/health"))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestChecker_Health(t *testing.T) {
	tests := []struct {
		name       string
		postgres   PingFunc
		redis      PingFunc
		wantCode   int
		wantStatus Status
	}{
		{name: "all healthy", postgres: ok, redis: ok, wantCode: http.StatusOK, wantStatus: StatusHealthy},
		{name: "cache down degrades", postgres: ok, redis: failing, wantCode: http.StatusOK, wantStatus: StatusDegraded},
		{name: "database down", postgres: failing, redis: ok, wantCode: http.StatusServiceUnavailable, wantStatus: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("test")
			c.AddCheck("postgres", tt.postgres, true)
			c.AddCheck("redis", tt.redis, false)

			code, resp := serve(t, c, "/health")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, 2)
		})
	}
}

func TestChecker_Readiness(t *testing.T) {
	c := NewChecker("test")
	c.AddCheck("postgres", PingFunc(ok), true)

	code, resp := serve(t, c, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks, "startup")

	c.SetReady(true)
	code, resp = serve(t, c, "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, resp.Status)
}

func TestChecker_Liveness(t *testing.T) {
	c := NewChecker("test")
	c.AddCheck("postgres", PingFunc(failing), true)

	code, resp := serve(t, c, "/health/live")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "test", resp.Version)
}
