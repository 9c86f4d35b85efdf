package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReviewStatus is the display status of a licence in a two-part tariff review
type ReviewStatus string

const (
	ReviewStatusReady  ReviewStatus = "ready"
	ReviewStatusReview ReviewStatus = "review"
)

// ReturnStatus is the status of a return log at the time it was reviewed
type ReturnStatus string

const (
	ReturnStatusDue       ReturnStatus = "due"
	ReturnStatusOverdue   ReturnStatus = "overdue"
	ReturnStatusReceived  ReturnStatus = "received"
	ReturnStatusCompleted ReturnStatus = "completed"
	ReturnStatusVoid      ReturnStatus = "void"
)

// NotReceived reports whether the return has not been submitted yet
func (s ReturnStatus) NotReceived() bool {
	return s == ReturnStatusDue || s == ReturnStatusOverdue
}

// ReviewChargeElementResult is the outcome of allocating returns to one charge element
type ReviewChargeElementResult struct {
	ID                 string          `db:"id" json:"id"`
	ChargeElementID    string          `db:"charge_element_id" json:"charge_element_id"`
	Allocated          decimal.Decimal `db:"allocated" json:"allocated"`
	Aggregate          decimal.Decimal `db:"aggregate" json:"aggregate"`
	ChargeDatesOverlap bool            `db:"charge_dates_overlap" json:"charge_dates_overlap"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// ReviewReturnResult is a snapshot of a return log considered in a bill run
type ReviewReturnResult struct {
	ID                       string          `db:"id" json:"id"`
	ReturnID                 string          `db:"return_id" json:"return_id"`
	ReturnReference          string          `db:"return_reference" json:"return_reference"`
	StartDate                time.Time       `db:"start_date" json:"start_date"`
	EndDate                  time.Time       `db:"end_date" json:"end_date"`
	DueDate                  *time.Time      `db:"due_date" json:"due_date,omitempty"`
	ReceivedDate             *time.Time      `db:"received_date" json:"received_date,omitempty"`
	Status                   ReturnStatus    `db:"status" json:"status"`
	UnderQuery               bool            `db:"under_query" json:"under_query"`
	NilReturn                bool            `db:"nil_return" json:"nil_return"`
	Description              string          `db:"description" json:"description"`
	Purposes                 Purposes        `db:"purposes" json:"purposes"`
	Quantity                 decimal.Decimal `db:"quantity" json:"quantity"`
	Allocated                decimal.Decimal `db:"allocated" json:"allocated"`
	AbstractionOutsidePeriod bool            `db:"abstraction_outside_period" json:"abstraction_outside_period"`
	CreatedAt                time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time       `db:"updated_at" json:"updated_at"`
}

// ReceivedLate reports whether the return was received after its due date
func (r *ReviewReturnResult) ReceivedLate() bool {
	if r.ReceivedDate == nil || r.DueDate == nil {
		return false
	}
	return r.ReceivedDate.After(*r.DueDate)
}

// OverAbstracted reports whether more was abstracted than could be allocated
func (r *ReviewReturnResult) OverAbstracted() bool {
	return r.Quantity.GreaterThan(r.Allocated)
}

// ReviewResult links a licence in a bill run to a charge element result, a return result or both
type ReviewResult struct {
	ID                          string     `db:"id" json:"id"`
	BillRunID                   string     `db:"bill_run_id" json:"bill_run_id"`
	LicenceID                   string     `db:"licence_id" json:"licence_id"`
	ChargeVersionID             *string    `db:"charge_version_id" json:"charge_version_id"`
	ChargeReferenceID           *string    `db:"charge_reference_id" json:"charge_reference_id"`
	ChargePeriodStartDate       *time.Time `db:"charge_period_start_date" json:"charge_period_start_date"`
	ChargePeriodEndDate         *time.Time `db:"charge_period_end_date" json:"charge_period_end_date"`
	ChargeVersionChangeReason   *string    `db:"charge_version_change_reason" json:"charge_version_change_reason"`
	ReviewChargeElementResultID *string    `db:"review_charge_element_result_id" json:"review_charge_element_result_id"`
	ReviewReturnResultID        *string    `db:"review_return_result_id" json:"review_return_result_id"`
	CreatedAt                   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                   time.Time  `db:"updated_at" json:"updated_at"`
}

// Matched reports whether both sides of the match are present
func (r *ReviewResult) Matched() bool {
	return r.ReviewChargeElementResultID != nil && r.ReviewReturnResultID != nil
}

// ReviewResultDetail is a review result joined to its charge element and return results
type ReviewResultDetail struct {
	ReviewResult
	ReviewChargeElementResult *ReviewChargeElementResult `json:"review_charge_element_result"`
	ReviewReturnResult        *ReviewReturnResult        `json:"review_return_result"`
}

// ReviewLicence is a licence as it appears in a bill run review. Issues and Status are
// computed from its review results and never stored.
type ReviewLicence struct {
	LicenceID     string       `db:"licence_id" json:"licence_id"`
	LicenceRef    string       `db:"licence_ref" json:"licence_ref"`
	LicenceHolder string       `db:"licence_holder" json:"licence_holder"`
	Issues        []string     `db:"-" json:"issues"`
	Status        ReviewStatus `db:"-" json:"status"`
}

// ReviewBillRun is the review summary of a bill run.
type ReviewBillRun struct {
	BillRun  BillRun         `json:"bill_run"`
	Licences []ReviewLicence `json:"licences"`
}

// LicenceReview is a single licence's review results within a bill run.
type LicenceReview struct {
	BillRun BillRun              `json:"bill_run"`
	Licence Licence              `json:"licence"`
	Results []ReviewResultDetail `json:"review_results"`
	Issues  []string             `json:"issues"`
	Status  ReviewStatus         `json:"status"`
}
