package billrun

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

// Repository reads bill runs
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new bill run repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a bill run with its region
func (r *Repository) GetByID(ctx context.Context, id string) (*models.BillRun, error) {
	ctx, span := tracing.StartSpan(ctx, "BillRunRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(
		"br.id",
		"br.bill_run_number",
		"br.batch_type",
		"br.scheme",
		"br.status",
		"br.from_financial_year_ending",
		"br.to_financial_year_ending",
		"br.created_at",
		sb.As("r.id", "region_id"),
		sb.As("r.display_name", "region_display_name"),
	)
	sb.From(sb.As(billRunsTable, "br"))
	sb.Join(sb.As(regionsTable, "r"), "r.id = br.region_id")
	sb.Where(sb.Equal("br.id", id))

	query, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"bill_run_id": id,
	}).Debug("Getting bill run by ID")

	var row BillRunRow
	err := r.db.Querier(ctx).GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "bill run '%s' not found", id)
		}
		tracing.RecordError(span, err)
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get bill run")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get bill run")
	}

	return ToBillRun(&row), nil
}
