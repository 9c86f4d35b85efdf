package reviewchargeelementresult

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

const Table = "review_charge_element_results"

var rowStruct = database.NewStruct(new(models.ReviewChargeElementResult))

// Repository writes review charge element results
type Repository struct {
	db        database.DB
	logger    ectologger.Logger
	batchSize int
}

// NewRepository creates a new review charge element result repository
func NewRepository(db database.DB, logger ectologger.Logger, batchSize int) *Repository {
	return &Repository{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// InsertMany bulk inserts rows, joining the transaction on ctx when there is one
func (r *Repository) InsertMany(ctx context.Context, rows []models.ReviewChargeElementResult) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "ReviewChargeElementResultRepository.InsertMany")
	defer span.End()

	written, err := database.InsertMany(ctx, r.db.Querier(ctx), rowStruct, Table, rows, r.batchSize)
	if err != nil {
		tracing.RecordError(span, err)
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"rows":    len(rows),
			"written": written,
		}).Error("Failed to insert review charge element results")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert review charge element results")
	}

	return nil
}
