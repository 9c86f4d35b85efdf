package review

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/reed/pkg/models"
)

var errInsert = errors.New("insert failed")

// memoryStore keeps committed rows per table. Its transactor truncates every table back to
// where it was when fn returns an error.
type memoryStore struct {
	reviewResults        []models.ReviewResult
	chargeElementResults []models.ReviewChargeElementResult
	returnResults        []models.ReviewReturnResult

	// failReviewResultsOnCall fails the nth InsertMany of review results (1 based)
	failReviewResultsOnCall int
	reviewResultCalls       int

	transactions int
	rollbacks    int

	details  map[string][]models.ReviewResultDetail
	licences []models.ReviewLicence
	listErr  error
	listed   []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{details: map[string][]models.ReviewResultDetail{}}
}

func (m *memoryStore) transactor(ctx context.Context, fn func(ctx context.Context) error) error {
	m.transactions++
	rr, ce, ret := len(m.reviewResults), len(m.chargeElementResults), len(m.returnResults)

	if err := fn(ctx); err != nil {
		m.rollbacks++
		m.reviewResults = m.reviewResults[:rr]
		m.chargeElementResults = m.chargeElementResults[:ce]
		m.returnResults = m.returnResults[:ret]
		return err
	}
	return nil
}

type reviewResultRepo struct{ store *memoryStore }

func (r reviewResultRepo) InsertMany(_ context.Context, rows []models.ReviewResult) error {
	r.store.reviewResultCalls++
	if r.store.reviewResultCalls == r.store.failReviewResultsOnCall {
		return errInsert
	}
	r.store.reviewResults = append(r.store.reviewResults, rows...)
	return nil
}

func (r reviewResultRepo) ListLicences(_ context.Context, _ string) ([]models.ReviewLicence, error) {
	licences := make([]models.ReviewLicence, len(r.store.licences))
	copy(licences, r.store.licences)
	return licences, nil
}

func (r reviewResultRepo) ListByLicence(_ context.Context, _ string, licenceID string) ([]models.ReviewResultDetail, error) {
	r.store.listed = append(r.store.listed, licenceID)
	if r.store.listErr != nil {
		return nil, r.store.listErr
	}
	return r.store.details[licenceID], nil
}

type chargeElementResultRepo struct{ store *memoryStore }

func (r chargeElementResultRepo) InsertMany(_ context.Context, rows []models.ReviewChargeElementResult) error {
	r.store.chargeElementResults = append(r.store.chargeElementResults, rows...)
	return nil
}

type returnResultRepo struct{ store *memoryStore }

func (r returnResultRepo) InsertMany(_ context.Context, rows []models.ReviewReturnResult) error {
	r.store.returnResults = append(r.store.returnResults, rows...)
	return nil
}

type billRunRepo struct {
	billRuns map[string]models.BillRun
	calls    int
}

func (r *billRunRepo) GetByID(_ context.Context, id string) (*models.BillRun, error) {
	r.calls++
	billRun, ok := r.billRuns[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "bill run '%s' not found", id)
	}
	return &billRun, nil
}

type licenceRepo struct{ licences map[string]models.Licence }

func (r licenceRepo) GetByID(_ context.Context, id string) (*models.Licence, error) {
	licence, ok := r.licences[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "licence '%s' not found", id)
	}
	return &licence, nil
}

type fakeCache struct {
	reviews     map[string]*models.ReviewBillRun
	getErr      error
	invalidated []string
	sets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{reviews: map[string]*models.ReviewBillRun{}}
}

func (c *fakeCache) GetReview(_ context.Context, billRunID string) (*models.ReviewBillRun, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	summary, ok := c.reviews[billRunID]
	return summary, ok, nil
}

func (c *fakeCache) SetReview(_ context.Context, summary *models.ReviewBillRun) error {
	c.sets++
	c.reviews[summary.BillRun.ID] = summary
	return nil
}

func (c *fakeCache) InvalidateReview(_ context.Context, billRunID string) error {
	c.invalidated = append(c.invalidated, billRunID)
	delete(c.reviews, billRunID)
	return nil
}

type fakePublisher struct {
	events []models.ReviewResultsPersistedEvent
	err    error
}

func (p *fakePublisher) PublishResultsPersisted(_ context.Context, evt *models.ReviewResultsPersistedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *evt)
	return nil
}

type fakeMetrics struct {
	rows     map[string]int
	outcomes map[string]int
	statuses map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{rows: map[string]int{}, outcomes: map[string]int{}, statuses: map[string]int{}}
}

func (m *fakeMetrics) RowsPersisted(table string, count int)      { m.rows[table] += count }
func (m *fakeMetrics) LicencePersisted(outcome string, _ float64) { m.outcomes[outcome]++ }
func (m *fakeMetrics) LicenceReviewed(status string, _ []string)  { m.statuses[status]++ }
