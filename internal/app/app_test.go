package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/config"
	reviewservice "github.com/Ramsey-B/reed/internal/services/review"
	"github.com/Ramsey-B/reed/internal/testutil"
	"github.com/Ramsey-B/reed/pkg/models"
)

type stubService struct{}

func (stubService) PersistAllocatedLicences(_ context.Context, billRunID string, licences []models.AllocatedLicence) (reviewservice.PersistSummary, error) {
	return reviewservice.PersistSummary{BillRunID: billRunID, Licences: len(licences)}, nil
}

func (stubService) ReviewBillRun(_ context.Context, billRunID string) (*models.ReviewBillRun, error) {
	return &models.ReviewBillRun{BillRun: models.BillRun{ID: billRunID}, Licences: []models.ReviewLicence{}}, nil
}

func (stubService) ReviewLicence(_ context.Context, billRunID, licenceID string) (*models.LicenceReview, error) {
	return &models.LicenceReview{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:            "reed-test",
		Version:            "test",
		Port:               3000,
		LogLevel:           "info",
		MaxBodySize:        "1K",
		AllowOrigins:       []string{"*"},
		AllowMethods:       []string{"GET", "POST"},
		StartupMaxAttempts: 1,
	}
}

func request(t *testing.T, a *App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := a.Router(stubService{})
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Liveness(t *testing.T) {
	a := New(testConfig(), testutil.Logger())

	rec := request(t, a, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReadinessBeforeStart(t *testing.T) {
	a := New(testConfig(), testutil.Logger())

	rec := request(t, a, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	a := New(testConfig(), testutil.Logger())

	rec := request(t, a, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouter_Review(t *testing.T) {
	a := New(testConfig(), testutil.Logger())
	id := "6c1a3c2e-4d1f-4a8b-9f52-0d6c2f0c8a11"

	rec := request(t, a, http.MethodGet, "/bill-runs/"+id+"/review", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id)

	rec = request(t, a, http.MethodGet, "/bill-runs/not-a-uuid/review", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	a := New(testConfig(), testutil.Logger())
	id := "6c1a3c2e-4d1f-4a8b-9f52-0d6c2f0c8a11"
	body := `{"licences":[],"padding":"` + strings.Repeat("x", 2048) + `"}`

	rec := request(t, a, http.MethodPost, "/bill-runs/"+id+"/review/results", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig()

	logger, zapLogger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NotNil(t, zapLogger)

	cfg.LogLevel = "loud"
	_, _, err = NewLogger(cfg)
	assert.Error(t, err)
}
