package review

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/reed/pkg/models"
)

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func chargeElementResult() *models.ReviewChargeElementResult {
	return &models.ReviewChargeElementResult{
		ID:        "cer-1",
		Aggregate: decimal.NewFromInt(1),
		Allocated: decimal.NewFromInt(1),
	}
}

func returnResult() *models.ReviewReturnResult {
	return &models.ReviewReturnResult{
		ID:        "rr-1",
		Status:    models.ReturnStatusCompleted,
		Quantity:  decimal.NewFromInt(1),
		Allocated: decimal.NewFromInt(1),
	}
}

// matchedRow is a clean row with no issues
func matchedRow() models.ReviewResultDetail {
	return models.ReviewResultDetail{
		ReviewResult: models.ReviewResult{
			ID:                          "r-1",
			ChargeReferenceID:           strPtr("ref-1"),
			ReviewChargeElementResultID: strPtr("cer-1"),
			ReviewReturnResultID:        strPtr("rr-1"),
		},
		ReviewChargeElementResult: chargeElementResult(),
		ReviewReturnResult:        returnResult(),
	}
}

func TestDetermineIssues_NoRows(t *testing.T) {
	issues, status := DetermineIssues(nil)

	assert.Equal(t, []string{}, issues)
	assert.Equal(t, models.ReviewStatusReady, status)
}

func TestDetermineIssues_CleanRow(t *testing.T) {
	issues, status := DetermineIssues([]models.ReviewResultDetail{matchedRow()})

	assert.Empty(t, issues)
	assert.Equal(t, models.ReviewStatusReady, status)
}

func TestDetermineIssues_ReadyIssues(t *testing.T) {
	row := matchedRow()
	row.ReviewReturnResult.AbstractionOutsidePeriod = true
	row.ReviewReturnResult.Status = models.ReturnStatusDue
	row.ReviewReturnResult.Quantity = decimal.NewFromInt(1)
	row.ReviewReturnResult.Allocated = decimal.NewFromFloat(0.5)
	row.ReviewReturnResult.DueDate = timePtr(time.Date(2023, 4, 28, 0, 0, 0, 0, time.UTC))
	row.ReviewReturnResult.ReceivedDate = timePtr(time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC))

	issues, status := DetermineIssues([]models.ReviewResultDetail{row})

	assert.Equal(t, []string{
		IssueAbstractionOutsidePeriod,
		IssueNoReturnsReceived,
		IssueOverAbstraction,
		IssueReturnsReceivedLate,
		IssueSomeReturnsNotReceived,
	}, issues)
	assert.Equal(t, models.ReviewStatusReady, status)
}

func TestDetermineIssues_ReviewIssues(t *testing.T) {
	first := matchedRow()
	first.ReviewChargeElementResult.Aggregate = decimal.NewFromFloat(0.5)
	first.ReviewChargeElementResult.ChargeDatesOverlap = true
	first.ReviewReturnResult.UnderQuery = true
	first.ReviewReturnResult.Status = models.ReturnStatusReceived

	second := matchedRow()
	second.ID = "r-2"
	second.ChargeReferenceID = strPtr("ref-2")
	second.ReviewChargeElementResultID = strPtr("cer-2")
	second.ReviewChargeElementResult.ID = "cer-2"

	third := matchedRow()
	third.ID = "r-3"
	third.ReviewReturnResultID = nil
	third.ReviewReturnResult = nil

	issues, status := DetermineIssues([]models.ReviewResultDetail{first, second, third})

	assert.Equal(t, []string{
		IssueAggregateFactor,
		IssueCheckingQuery,
		IssueOverlapOfChargeDates,
		IssueReturnsNotProcessed,
		IssueReturnsSplitOverReference,
		IssueUnableToMatchReturns,
	}, issues)
	assert.Equal(t, models.ReviewStatusReview, status)
}

func TestDetermineIssues_OrderDoesNotDependOnRowOrder(t *testing.T) {
	late := matchedRow()
	late.ReviewReturnResult.DueDate = timePtr(time.Date(2023, 4, 28, 0, 0, 0, 0, time.UTC))
	late.ReviewReturnResult.ReceivedDate = timePtr(time.Date(2023, 4, 29, 0, 0, 0, 0, time.UTC))

	outside := matchedRow()
	outside.ID = "r-2"
	outside.ReviewReturnResultID = strPtr("rr-2")
	outside.ReviewReturnResult = returnResult()
	outside.ReviewReturnResult.ID = "rr-2"
	outside.ReviewReturnResult.AbstractionOutsidePeriod = true

	forwards, _ := DetermineIssues([]models.ReviewResultDetail{late, outside})
	backwards, _ := DetermineIssues([]models.ReviewResultDetail{outside, late})

	assert.Equal(t, []string{IssueAbstractionOutsidePeriod, IssueReturnsReceivedLate}, forwards)
	assert.Equal(t, forwards, backwards)
}

func TestDetermineIssues_UnableToMatchReturns(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(row *models.ReviewResultDetail)
		expected bool
	}{
		{
			name:     "both sides matched",
			mutate:   func(row *models.ReviewResultDetail) {},
			expected: false,
		},
		{
			name: "no return result",
			mutate: func(row *models.ReviewResultDetail) {
				row.ReviewReturnResultID = nil
				row.ReviewReturnResult = nil
			},
			expected: true,
		},
		{
			name: "no charge element result",
			mutate: func(row *models.ReviewResultDetail) {
				row.ChargeReferenceID = nil
				row.ReviewChargeElementResultID = nil
				row.ReviewChargeElementResult = nil
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := matchedRow()
			tt.mutate(&row)

			issues, status := DetermineIssues([]models.ReviewResultDetail{row})

			assert.Equal(t, tt.expected, contains(issues, IssueUnableToMatchReturns))
			if tt.expected {
				assert.Equal(t, models.ReviewStatusReview, status)
			}
		})
	}
}

func TestDetermineIssues_SomeReturnsNotReceivedNeedsBothSides(t *testing.T) {
	row := matchedRow()
	row.ChargeReferenceID = nil
	row.ReviewChargeElementResultID = nil
	row.ReviewChargeElementResult = nil
	row.ReviewReturnResult.Status = models.ReturnStatusOverdue

	issues, _ := DetermineIssues([]models.ReviewResultDetail{row})

	assert.Equal(t, []string{IssueNoReturnsReceived, IssueUnableToMatchReturns}, issues)
}

func TestDetermineIssues_ReturnsSplitChecksWholeSet(t *testing.T) {
	// the split shows up on the last row, after the first return was already seen twice
	first := matchedRow()
	second := matchedRow()
	second.ID = "r-2"
	third := matchedRow()
	third.ID = "r-3"
	third.ChargeReferenceID = strPtr("ref-9")

	issues, status := DetermineIssues([]models.ReviewResultDetail{first, second, third})

	assert.Equal(t, []string{IssueReturnsSplitOverReference}, issues)
	assert.Equal(t, models.ReviewStatusReview, status)
}

func TestDetermineIssues_ReceivedLateNeedsBothDates(t *testing.T) {
	row := matchedRow()
	row.ReviewReturnResult.ReceivedDate = timePtr(time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC))

	issues, _ := DetermineIssues([]models.ReviewResultDetail{row})

	assert.NotContains(t, issues, IssueReturnsReceivedLate)
}

func TestDetermineStatus(t *testing.T) {
	tests := []struct {
		issue    string
		expected models.ReviewStatus
	}{
		{IssueAbstractionOutsidePeriod, models.ReviewStatusReady},
		{IssueAggregateFactor, models.ReviewStatusReview},
		{IssueCheckingQuery, models.ReviewStatusReview},
		{IssueNoReturnsReceived, models.ReviewStatusReady},
		{IssueOverAbstraction, models.ReviewStatusReady},
		{IssueOverlapOfChargeDates, models.ReviewStatusReview},
		{IssueReturnsNotProcessed, models.ReviewStatusReview},
		{IssueReturnsReceivedLate, models.ReviewStatusReady},
		{IssueReturnsSplitOverReference, models.ReviewStatusReview},
		{IssueSomeReturnsNotReceived, models.ReviewStatusReady},
		{IssueUnableToMatchReturns, models.ReviewStatusReview},
	}

	for _, tt := range tests {
		t.Run(tt.issue, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineStatus([]string{tt.issue}))
		})
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
