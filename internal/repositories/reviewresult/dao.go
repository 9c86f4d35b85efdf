package reviewresult

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/models"
)

const (
	reviewResultsTable              = "review_results"
	reviewChargeElementResultsTable = "review_charge_element_results"
	reviewReturnResultsTable        = "review_return_results"
	licencesTable                   = "licences"
)

var reviewResultStruct = database.NewStruct(new(models.ReviewResult))

// DetailRow is a review result left joined to its optional charge element and return results
type DetailRow struct {
	models.ReviewResult

	ChargeElementResultID sql.NullString      `db:"rcer_id"`
	ChargeElementID       sql.NullString      `db:"rcer_charge_element_id"`
	ChargeElementAlloc    decimal.NullDecimal `db:"rcer_allocated"`
	Aggregate             decimal.NullDecimal `db:"rcer_aggregate"`
	ChargeDatesOverlap    sql.NullBool        `db:"rcer_charge_dates_overlap"`
	ChargeElementCreated  sql.NullTime        `db:"rcer_created_at"`
	ChargeElementUpdated  sql.NullTime        `db:"rcer_updated_at"`

	ReturnResultID           sql.NullString      `db:"rrr_id"`
	ReturnID                 sql.NullString      `db:"rrr_return_id"`
	ReturnReference          sql.NullString      `db:"rrr_return_reference"`
	StartDate                sql.NullTime        `db:"rrr_start_date"`
	EndDate                  sql.NullTime        `db:"rrr_end_date"`
	DueDate                  sql.NullTime        `db:"rrr_due_date"`
	ReceivedDate             sql.NullTime        `db:"rrr_received_date"`
	Status                   sql.NullString      `db:"rrr_status"`
	UnderQuery               sql.NullBool        `db:"rrr_under_query"`
	NilReturn                sql.NullBool        `db:"rrr_nil_return"`
	Description              sql.NullString      `db:"rrr_description"`
	Purposes                 models.Purposes     `db:"rrr_purposes"`
	Quantity                 decimal.NullDecimal `db:"rrr_quantity"`
	ReturnAllocated          decimal.NullDecimal `db:"rrr_allocated"`
	AbstractionOutsidePeriod sql.NullBool        `db:"rrr_abstraction_outside_period"`
	ReturnCreated            sql.NullTime        `db:"rrr_created_at"`
	ReturnUpdated            sql.NullTime        `db:"rrr_updated_at"`
}

var reviewResultColumns = []string{
	"id",
	"bill_run_id",
	"licence_id",
	"charge_version_id",
	"charge_reference_id",
	"charge_period_start_date",
	"charge_period_end_date",
	"charge_version_change_reason",
	"review_charge_element_result_id",
	"review_return_result_id",
	"created_at",
	"updated_at",
}

var chargeElementResultColumns = []string{
	"id",
	"charge_element_id",
	"allocated",
	"aggregate",
	"charge_dates_overlap",
	"created_at",
	"updated_at",
}

var returnResultColumns = []string{
	"id",
	"return_id",
	"return_reference",
	"start_date",
	"end_date",
	"due_date",
	"received_date",
	"status",
	"under_query",
	"nil_return",
	"description",
	"purposes",
	"quantity",
	"allocated",
	"abstraction_outside_period",
	"created_at",
	"updated_at",
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

// ToDetail converts a joined row to a domain model. Missing children stay nil.
func ToDetail(row *DetailRow) models.ReviewResultDetail {
	detail := models.ReviewResultDetail{ReviewResult: row.ReviewResult}

	if row.ChargeElementResultID.Valid {
		detail.ReviewChargeElementResult = &models.ReviewChargeElementResult{
			ID:                 row.ChargeElementResultID.String,
			ChargeElementID:    row.ChargeElementID.String,
			Allocated:          row.ChargeElementAlloc.Decimal,
			Aggregate:          row.Aggregate.Decimal,
			ChargeDatesOverlap: row.ChargeDatesOverlap.Bool,
			CreatedAt:          row.ChargeElementCreated.Time,
			UpdatedAt:          row.ChargeElementUpdated.Time,
		}
	}

	if row.ReturnResultID.Valid {
		detail.ReviewReturnResult = &models.ReviewReturnResult{
			ID:                       row.ReturnResultID.String,
			ReturnID:                 row.ReturnID.String,
			ReturnReference:          row.ReturnReference.String,
			StartDate:                row.StartDate.Time,
			EndDate:                  row.EndDate.Time,
			DueDate:                  timePtr(row.DueDate),
			ReceivedDate:             timePtr(row.ReceivedDate),
			Status:                   models.ReturnStatus(row.Status.String),
			UnderQuery:               row.UnderQuery.Bool,
			NilReturn:                row.NilReturn.Bool,
			Description:              row.Description.String,
			Purposes:                 row.Purposes,
			Quantity:                 row.Quantity.Decimal,
			Allocated:                row.ReturnAllocated.Decimal,
			AbstractionOutsidePeriod: row.AbstractionOutsidePeriod.Bool,
			CreatedAt:                row.ReturnCreated.Time,
			UpdatedAt:                row.ReturnUpdated.Time,
		}
	}

	return detail
}

// ToDetails converts joined rows to domain models
func ToDetails(rows []DetailRow) []models.ReviewResultDetail {
	details := make([]models.ReviewResultDetail, len(rows))
	for i := range rows {
		details[i] = ToDetail(&rows[i])
	}
	return details
}
