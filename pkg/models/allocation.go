package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeVersionKind distinguishes charge versions that produce charges from those that don't
type ChargeVersionKind string

const (
	ChargeVersionChargeable    ChargeVersionKind = "chargeable"
	ChargeVersionNonChargeable ChargeVersionKind = "non_chargeable"
)

// AllocatedLicence is a licence after its returns have been allocated to its charge elements
type AllocatedLicence struct {
	ID             string          `json:"id" validate:"required"`
	LicenceRef     string          `json:"licence_ref"`
	ChargeVersions []ChargeVersion `json:"charge_versions" validate:"dive"`
	ReturnLogs     []ReturnLog     `json:"return_logs" validate:"dive"`
}

type ChargePeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type ChangeReason struct {
	Description string `json:"description"`
}

type ChargeVersion struct {
	ID               string            `json:"id" validate:"required"`
	Kind             ChargeVersionKind `json:"kind" validate:"omitempty,oneof=chargeable non_chargeable"`
	ChargePeriod     ChargePeriod      `json:"charge_period"`
	ChangeReason     *ChangeReason     `json:"change_reason,omitempty"`
	ChargeReferences []ChargeReference `json:"charge_references" validate:"dive"`
}

// Chargeable treats an unset kind as chargeable
func (c ChargeVersion) Chargeable() bool {
	return c.Kind != ChargeVersionNonChargeable
}

// ChangeReasonDescription returns the change reason description, if there is one
func (c ChargeVersion) ChangeReasonDescription() *string {
	if c.ChangeReason == nil {
		return nil
	}
	description := c.ChangeReason.Description
	return &description
}

type ChargeReference struct {
	ID             string           `json:"id" validate:"required"`
	Aggregate      *decimal.Decimal `json:"aggregate,omitempty"`
	ChargeElements []ChargeElement  `json:"charge_elements" validate:"dive"`
}

// AggregateOrDefault returns the aggregate factor, defaulting to 1
func (c ChargeReference) AggregateOrDefault() decimal.Decimal {
	if c.Aggregate == nil {
		return decimal.NewFromInt(1)
	}
	return *c.Aggregate
}

type ChargeElement struct {
	ID                 string             `json:"id" validate:"required"`
	AllocatedQuantity  decimal.Decimal    `json:"allocated_quantity"`
	ChargeDatesOverlap bool               `json:"charge_dates_overlap"`
	ReturnLogs         []MatchedReturnLog `json:"return_logs" validate:"dive"`
}

// MatchedReturnLog is a return log the allocation matched to a charge element
type MatchedReturnLog struct {
	ReturnID          string          `json:"return_id" validate:"required"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
}

// ReturnLog is one of the licence's return logs for the billing period
type ReturnLog struct {
	ReturnID                 string          `json:"return_id" validate:"required"`
	ReturnRequirement        string          `json:"return_requirement"`
	StartDate                time.Time       `json:"start_date"`
	EndDate                  time.Time       `json:"end_date"`
	DueDate                  *time.Time      `json:"due_date,omitempty"`
	ReceivedDate             *time.Time      `json:"received_date,omitempty"`
	Status                   ReturnStatus    `json:"status" validate:"required"`
	UnderQuery               bool            `json:"under_query"`
	NilReturn                bool            `json:"nil_return"`
	Description              string          `json:"description"`
	Purposes                 Purposes        `json:"purposes"`
	Quantity                 decimal.Decimal `json:"quantity"`
	AllocatedQuantity        decimal.Decimal `json:"allocated_quantity"`
	AbstractionOutsidePeriod bool            `json:"abstraction_outside_period"`
	Matched                  bool            `json:"matched"`
}
