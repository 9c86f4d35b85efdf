package models

import "time"

const EventReviewResultsPersisted = "review.results.persisted"

// ReviewResultsPersistedEvent is published once a bill run's allocation output has been stored.
type ReviewResultsPersistedEvent struct {
	Type                     string    `json:"type"`
	BillRunID                string    `json:"bill_run_id"`
	LicenceCount             int       `json:"licence_count"`
	ReviewResultCount        int       `json:"review_result_count"`
	ChargeElementResultCount int       `json:"charge_element_result_count"`
	ReturnResultCount        int       `json:"return_result_count"`
	Timestamp                time.Time `json:"timestamp"`
}
