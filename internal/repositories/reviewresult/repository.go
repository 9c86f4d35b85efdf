package reviewresult

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/reed/internal/repositories/licence"
	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

// Repository reads and writes review results
type Repository struct {
	db        database.DB
	logger    ectologger.Logger
	batchSize int
}

// NewRepository creates a new review result repository
func NewRepository(db database.DB, logger ectologger.Logger, batchSize int) *Repository {
	return &Repository{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// InsertMany bulk inserts rows, joining the transaction on ctx when there is one
func (r *Repository) InsertMany(ctx context.Context, rows []models.ReviewResult) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "ReviewResultRepository.InsertMany")
	defer span.End()

	written, err := database.InsertMany(ctx, r.db.Querier(ctx), reviewResultStruct, reviewResultsTable, rows, r.batchSize)
	if err != nil {
		tracing.RecordError(span, err)
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"rows":    len(rows),
			"written": written,
		}).Error("Failed to insert review results")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert review results")
	}

	return nil
}

// ListLicences lists the distinct licences reviewed in a bill run, ordered by licence reference
func (r *Repository) ListLicences(ctx context.Context, billRunID string) ([]models.ReviewLicence, error) {
	ctx, span := tracing.StartSpan(ctx, "ReviewResultRepository.ListLicences")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(
		sb.As("l.id", "licence_id"),
		"l.licence_ref",
		licence.HolderNameColumn("l"),
	)
	sb.From(sb.As(licencesTable, "l"))
	sb.Where(sb.In("l.id", reviewedLicenceIDs(billRunID).SelectBuilder))
	sb.OrderBy("l.licence_ref")

	query, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"bill_run_id": billRunID,
	}).Debug("Listing review licences")

	rows := []models.ReviewLicence{}
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		tracing.RecordError(span, err)
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list review licences")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list review licences")
	}

	return rows, nil
}

func reviewedLicenceIDs(billRunID string) *database.SelectBuilder {
	sub := database.NewSelectBuilder()
	sub.Select("licence_id")
	sub.From(reviewResultsTable)
	sub.Where(sub.Equal("bill_run_id", billRunID))
	return sub
}

// ListByLicence lists a licence's review results in a bill run with their charge element and return results
func (r *Repository) ListByLicence(ctx context.Context, billRunID, licenceID string) ([]models.ReviewResultDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "ReviewResultRepository.ListByLicence")
	defer span.End()

	sb := database.NewSelectBuilder()

	columns := make([]string, 0, len(reviewResultColumns)+len(chargeElementResultColumns)+len(returnResultColumns))
	for _, c := range reviewResultColumns {
		columns = append(columns, "rr."+c)
	}
	for _, c := range chargeElementResultColumns {
		columns = append(columns, sb.As("rcer."+c, "rcer_"+c))
	}
	for _, c := range returnResultColumns {
		columns = append(columns, sb.As("rrr."+c, "rrr_"+c))
	}

	sb.Select(columns...)
	sb.From(sb.As(reviewResultsTable, "rr"))
	sb.JoinWithOption(database.LeftJoin, sb.As(reviewChargeElementResultsTable, "rcer"), "rcer.id = rr.review_charge_element_result_id")
	sb.JoinWithOption(database.LeftJoin, sb.As(reviewReturnResultsTable, "rrr"), "rrr.id = rr.review_return_result_id")
	sb.Where(
		sb.Equal("rr.bill_run_id", billRunID),
		sb.Equal("rr.licence_id", licenceID),
	)
	sb.OrderBy("rr.charge_reference_id NULLS LAST", "rrr.return_reference NULLS LAST", "rr.id")

	query, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"bill_run_id": billRunID,
		"licence_id":  licenceID,
	}).Debug("Listing review results by licence")

	var rows []DetailRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		tracing.RecordError(span, err)
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list review results")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list review results")
	}

	return ToDetails(rows), nil
}
