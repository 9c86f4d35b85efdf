package models

import "time"

type BillRunStatus string

const (
	BillRunStatusQueued     BillRunStatus = "queued"
	BillRunStatusProcessing BillRunStatus = "processing"
	BillRunStatusReview     BillRunStatus = "review"
	BillRunStatusReady      BillRunStatus = "ready"
	BillRunStatusSent       BillRunStatus = "sent"
	BillRunStatusCancel     BillRunStatus = "cancel"
)

type Region struct {
	ID          string `db:"id" json:"id"`
	DisplayName string `db:"display_name" json:"display_name"`
}

// BillRun is a batch billing run covering a region and financial year
type BillRun struct {
	ID                      string        `db:"id" json:"id"`
	BillRunNumber           int           `db:"bill_run_number" json:"bill_run_number"`
	BatchType               string        `db:"batch_type" json:"batch_type"`
	Scheme                  string        `db:"scheme" json:"scheme"`
	Status                  BillRunStatus `db:"status" json:"status"`
	FromFinancialYearEnding int           `db:"from_financial_year_ending" json:"from_financial_year_ending"`
	ToFinancialYearEnding   int           `db:"to_financial_year_ending" json:"to_financial_year_ending"`
	CreatedAt               time.Time     `db:"created_at" json:"created_at"`
	Region                  Region        `db:"-" json:"region"`
}
