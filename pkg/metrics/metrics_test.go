package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheus_RowsPersisted(t *testing.T) {
	before := testutil.ToFloat64(RowsPersistedTotal.WithLabelValues("review_results"))

	Prometheus{}.RowsPersisted("review_results", 3)

	assert.Equal(t, before+3, testutil.ToFloat64(RowsPersistedTotal.WithLabelValues("review_results")))
}

func TestPrometheus_LicenceReviewed(t *testing.T) {
	statusBefore := testutil.ToFloat64(LicencesReviewedTotal.WithLabelValues("review"))
	issueBefore := testutil.ToFloat64(IssuesDetectedTotal.WithLabelValues("Checking query"))

	Prometheus{}.LicenceReviewed("review", []string{"Checking query"})

	assert.Equal(t, statusBefore+1, testutil.ToFloat64(LicencesReviewedTotal.WithLabelValues("review")))
	assert.Equal(t, issueBefore+1, testutil.ToFloat64(IssuesDetectedTotal.WithLabelValues("Checking query")))
}

func TestPrometheus_LicencePersisted(t *testing.T) {
	before := testutil.ToFloat64(LicencesPersistedTotal.WithLabelValues("success"))

	Prometheus{}.LicencePersisted("success", 0.02)

	assert.Equal(t, before+1, testutil.ToFloat64(LicencesPersistedTotal.WithLabelValues("success")))
}
