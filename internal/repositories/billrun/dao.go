package billrun

import (
	"time"

	"github.com/Ramsey-B/reed/pkg/models"
)

const (
	billRunsTable = "bill_runs"
	regionsTable  = "regions"
)

// BillRunRow represents a bill run joined to its region
type BillRunRow struct {
	ID                      string    `db:"id"`
	BillRunNumber           int       `db:"bill_run_number"`
	BatchType               string    `db:"batch_type"`
	Scheme                  string    `db:"scheme"`
	Status                  string    `db:"status"`
	FromFinancialYearEnding int       `db:"from_financial_year_ending"`
	ToFinancialYearEnding   int       `db:"to_financial_year_ending"`
	CreatedAt               time.Time `db:"created_at"`
	RegionID                string    `db:"region_id"`
	RegionDisplayName       string    `db:"region_display_name"`
}

// ToBillRun converts a database row to a domain model
func ToBillRun(row *BillRunRow) *models.BillRun {
	return &models.BillRun{
		ID:                      row.ID,
		BillRunNumber:           row.BillRunNumber,
		BatchType:               row.BatchType,
		Scheme:                  row.Scheme,
		Status:                  models.BillRunStatus(row.Status),
		FromFinancialYearEnding: row.FromFinancialYearEnding,
		ToFinancialYearEnding:   row.ToFinancialYearEnding,
		CreatedAt:               row.CreatedAt,
		Region: models.Region{
			ID:          row.RegionID,
			DisplayName: row.RegionDisplayName,
		},
	}
}
