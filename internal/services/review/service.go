package review

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/review"
	"github.com/Ramsey-B/reed/pkg/tracing"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type ReviewResultRepository interface {
	InsertMany(ctx context.Context, rows []models.ReviewResult) error
	ListLicences(ctx context.Context, billRunID string) ([]models.ReviewLicence, error)
	ListByLicence(ctx context.Context, billRunID, licenceID string) ([]models.ReviewResultDetail, error)
}

type ReviewChargeElementResultRepository interface {
	InsertMany(ctx context.Context, rows []models.ReviewChargeElementResult) error
}

type ReviewReturnResultRepository interface {
	InsertMany(ctx context.Context, rows []models.ReviewReturnResult) error
}

type BillRunRepository interface {
	GetByID(ctx context.Context, id string) (*models.BillRun, error)
}

type LicenceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Licence, error)
}

type Cache interface {
	GetReview(ctx context.Context, billRunID string) (*models.ReviewBillRun, bool, error)
	SetReview(ctx context.Context, summary *models.ReviewBillRun) error
	InvalidateReview(ctx context.Context, billRunID string) error
}

type Publisher interface {
	PublishResultsPersisted(ctx context.Context, evt *models.ReviewResultsPersistedEvent) error
}

// Transactor runs fn inside a transaction carried on the context it is given
type Transactor func(ctx context.Context, fn func(ctx context.Context) error) error

// Dependencies are the collaborators of Service. Cache, Publisher and Metrics are optional.
type Dependencies struct {
	Logger                     ectologger.Logger
	Transactor                 Transactor
	ReviewResults              ReviewResultRepository
	ReviewChargeElementResults ReviewChargeElementResultRepository
	ReviewReturnResults        ReviewReturnResultRepository
	BillRuns                   BillRunRepository
	Licences                   LicenceRepository
	Builder                    *review.Builder
	Cache                      Cache
	Publisher                  Publisher
	Metrics                    metrics.Recorder
}

type Service struct {
	logger                     ectologger.Logger
	withTx                     Transactor
	reviewResults              ReviewResultRepository
	reviewChargeElementResults ReviewChargeElementResultRepository
	reviewReturnResults        ReviewReturnResultRepository
	billRuns                   BillRunRepository
	licences                   LicenceRepository
	builder                    *review.Builder
	cache                      Cache
	publisher                  Publisher
	metrics                    metrics.Recorder
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		logger:                     deps.Logger,
		withTx:                     deps.Transactor,
		reviewResults:              deps.ReviewResults,
		reviewChargeElementResults: deps.ReviewChargeElementResults,
		reviewReturnResults:        deps.ReviewReturnResults,
		billRuns:                   deps.BillRuns,
		licences:                   deps.Licences,
		builder:                    deps.Builder,
		cache:                      deps.Cache,
		publisher:                  deps.Publisher,
		metrics:                    deps.Metrics,
	}

	if s.builder == nil {
		s.builder = review.NewBuilder()
	}
	if s.metrics == nil {
		s.metrics = metrics.Noop{}
	}
	if s.withTx == nil {
		s.withTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return s
}

// PersistSummary counts the rows written by PersistAllocatedLicences
type PersistSummary struct {
	BillRunID            string `json:"bill_run_id"`
	Licences             int    `json:"licences"`
	ReviewResults        int    `json:"review_results"`
	ChargeElementResults int    `json:"charge_element_results"`
	ReturnResults        int    `json:"return_results"`
}

// PersistAllocatedLicences stores the allocation output of a bill run as review results. Each
// licence is written in its own transaction; the first failure rolls that licence back and stops,
// leaving licences already written in place.
func (s *Service) PersistAllocatedLicences(ctx context.Context, billRunID string, licences []models.AllocatedLicence) (PersistSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "review.PersistAllocatedLicences")
	defer span.End()

	summary := PersistSummary{BillRunID: billRunID}
	logger := s.logger.WithContext(ctx).WithField("bill_run_id", billRunID)

	if len(licences) == 0 {
		logger.Info("no allocated licences to persist")
		return summary, nil
	}

	for i := range licences {
		if _, err := utils.Validate(licences[i]); err != nil {
			return summary, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid allocated licence at index %d: %s", i, err.Error())
		}
	}

	if _, err := s.billRuns.GetByID(ctx, billRunID); err != nil {
		return summary, err
	}

	for _, licence := range licences {
		results, err := s.builder.BuildLicenceResults(billRunID, licence)
		if err != nil {
			tracing.RecordError(span, err)
			return summary, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if results.Empty() {
			logger.WithField("licence_id", licence.ID).Warn("licence has no charge versions or return logs, nothing to persist")
			continue
		}

		if err := s.persistLicence(ctx, results); err != nil {
			tracing.RecordError(span, err)
			logger.WithError(err).WithFields(map[string]any{
				"licence_id":         licence.ID,
				"licences_persisted": summary.Licences,
			}).Error("failed to persist licence review results")
			if summary.Licences > 0 {
				s.invalidateReview(ctx, billRunID)
			}
			return summary, err
		}

		summary.Licences++
		summary.ReviewResults += len(results.ReviewResults)
		summary.ChargeElementResults += len(results.ReviewChargeElementResults)
		summary.ReturnResults += len(results.ReviewReturnResults)
	}

	logger.WithFields(map[string]any{
		"licences":               summary.Licences,
		"review_results":         summary.ReviewResults,
		"charge_element_results": summary.ChargeElementResults,
		"return_results":         summary.ReturnResults,
	}).Info("persisted allocated licences")

	s.invalidateReview(ctx, billRunID)
	s.publishPersisted(ctx, summary)

	return summary, nil
}

func (s *Service) persistLicence(ctx context.Context, results review.LicenceResults) error {
	start := time.Now()

	err := s.withTx(ctx, func(ctx context.Context) error {
		if err := s.reviewReturnResults.InsertMany(ctx, results.ReviewReturnResults); err != nil {
			return err
		}
		if err := s.reviewChargeElementResults.InsertMany(ctx, results.ReviewChargeElementResults); err != nil {
			return err
		}
		return s.reviewResults.InsertMany(ctx, results.ReviewResults)
	})

	seconds := time.Since(start).Seconds()
	if err != nil {
		s.metrics.LicencePersisted("failure", seconds)
		return err
	}

	s.metrics.LicencePersisted("success", seconds)
	s.metrics.RowsPersisted("review_return_results", len(results.ReviewReturnResults))
	s.metrics.RowsPersisted("review_charge_element_results", len(results.ReviewChargeElementResults))
	s.metrics.RowsPersisted("review_results", len(results.ReviewResults))
	return nil
}

func (s *Service) invalidateReview(ctx context.Context, billRunID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateReview(ctx, billRunID); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("bill_run_id", billRunID).Warn("failed to invalidate review cache")
	}
}

func (s *Service) publishPersisted(ctx context.Context, summary PersistSummary) {
	if s.publisher == nil || summary.Licences == 0 {
		return
	}

	err := s.publisher.PublishResultsPersisted(ctx, &models.ReviewResultsPersistedEvent{
		Type:                     models.EventReviewResultsPersisted,
		BillRunID:                summary.BillRunID,
		LicenceCount:             summary.Licences,
		ReviewResultCount:        summary.ReviewResults,
		ChargeElementResultCount: summary.ChargeElementResults,
		ReturnResultCount:        summary.ReturnResults,
		Timestamp:                time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("bill_run_id", summary.BillRunID).Warn("failed to publish review results persisted event")
	}
}

// DetermineLicenceIssues sets Issues and Status on every licence from its review results in the bill run
func (s *Service) DetermineLicenceIssues(ctx context.Context, billRunID string, licences []models.ReviewLicence) error {
	ctx, span := tracing.StartSpan(ctx, "review.DetermineLicenceIssues")
	defer span.End()

	for i := range licences {
		rows, err := s.reviewResults.ListByLicence(ctx, billRunID, licences[i].LicenceID)
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}

		issues, status := review.DetermineIssues(rows)
		licences[i].Issues = issues
		licences[i].Status = status
		s.metrics.LicenceReviewed(string(status), issues)
	}

	return nil
}

// ReviewBillRun returns the bill run and its reviewed licences with their issues and status
func (s *Service) ReviewBillRun(ctx context.Context, billRunID string) (*models.ReviewBillRun, error) {
	ctx, span := tracing.StartSpan(ctx, "review.ReviewBillRun")
	defer span.End()

	if s.cache != nil {
		cached, found, err := s.cache.GetReview(ctx, billRunID)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("bill_run_id", billRunID).Warn("failed to read review cache")
		}
		if found {
			return cached, nil
		}
	}

	billRun, err := s.billRuns.GetByID(ctx, billRunID)
	if err != nil {
		return nil, err
	}

	licences, err := s.reviewResults.ListLicences(ctx, billRunID)
	if err != nil {
		return nil, err
	}

	if err := s.DetermineLicenceIssues(ctx, billRunID, licences); err != nil {
		return nil, err
	}

	summary := &models.ReviewBillRun{
		BillRun:  *billRun,
		Licences: licences,
	}

	if s.cache != nil {
		if err := s.cache.SetReview(ctx, summary); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("bill_run_id", billRunID).Warn("failed to write review cache")
		}
	}

	return summary, nil
}

// ReviewLicence returns a licence's review results in a bill run with its issues and status
func (s *Service) ReviewLicence(ctx context.Context, billRunID, licenceID string) (*models.LicenceReview, error) {
	ctx, span := tracing.StartSpan(ctx, "review.ReviewLicence")
	defer span.End()

	billRun, err := s.billRuns.GetByID(ctx, billRunID)
	if err != nil {
		return nil, err
	}

	licence, err := s.licences.GetByID(ctx, licenceID)
	if err != nil {
		return nil, err
	}

	rows, err := s.reviewResults.ListByLicence(ctx, billRunID, licenceID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("licence '%s' is not in the review for bill run '%s'", licenceID, billRunID))
	}

	issues, status := review.DetermineIssues(rows)

	return &models.LicenceReview{
		BillRun: *billRun,
		Licence: *licence,
		Results: rows,
		Issues:  issues,
		Status:  status,
	}, nil
}
