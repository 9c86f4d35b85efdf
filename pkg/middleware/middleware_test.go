package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/pkg/context"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = Error(testLogger())
	e.Use(Context())
	e.Use(Logger(testLogger()))
	return e
}

func TestContext_SetsRequestValues(t *testing.T) {
	e := newTestServer()

	var requestID, userID string
	e.GET("/ping", func(c echo.Context) error {
		requestID = context.GetRequestID(c.Request().Context())
		userID = context.GetUserID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	req.Header.Set(HeaderUserID, "user-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "req-1", rec.Header().Get(echo.HeaderXRequestID))
}

func TestContext_GeneratesRequestID(t *testing.T) {
	e := newTestServer()
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestError_MapsHTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "http error",
			err:     httperror.NewHTTPError(http.StatusNotFound, "bill run not found"),
			code:    http.StatusNotFound,
			message: "bill run not found",
		},
		{
			name:    "echo error",
			err:     echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"),
			code:    http.StatusMethodNotAllowed,
			message: "nope",
		},
		{
			name:    "anything else",
			err:     assert.AnError,
			code:    http.StatusInternalServerError,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer()
			e.GET("/fail", func(c echo.Context) error {
				return tt.err
			})

			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-1")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "req-1", body.RequestID)
		})
	}
}
