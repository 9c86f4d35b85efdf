package licence

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

// Repository reads licences
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new licence repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a licence and its current licence holder name
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Licence, error) {
	ctx, span := tracing.StartSpan(ctx, "LicenceRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(
		"l.id",
		"l.licence_ref",
		"l.region_id",
		"l.start_date",
		"l.expired_date",
		"l.lapsed_date",
		"l.revoked_date",
		HolderNameColumn("l"),
	)
	sb.From(sb.As(licencesTable, "l"))
	sb.Where(sb.Equal("l.id", id))

	query, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"licence_id": id,
	}).Debug("Getting licence by ID")

	var row LicenceRow
	err := r.db.Querier(ctx).GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "licence '%s' not found", id)
		}
		tracing.RecordError(span, err)
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get licence")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get licence")
	}

	return ToLicence(&row), nil
}
