// Package review determines two-part tariff review issues and builds the review result rows
// persisted for an allocated bill run.
package review

import (
	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/reed/pkg/models"
)

const (
	IssueAbstractionOutsidePeriod  = "Abstraction outside period"
	IssueAggregateFactor           = "Aggregate factor"
	IssueCheckingQuery             = "Checking query"
	IssueNoReturnsReceived         = "No returns received"
	IssueOverAbstraction           = "Over abstraction"
	IssueOverlapOfChargeDates      = "Overlap of charge dates"
	IssueReturnsNotProcessed       = "Returns received but not processed"
	IssueReturnsReceivedLate       = "Returns received late"
	IssueReturnsSplitOverReference = "Returns split over charge references"
	IssueSomeReturnsNotReceived    = "Some returns not received"
	IssueUnableToMatchReturns      = "Unable to match returns"
)

// reviewIssues put a licence into review when any of them are present
var reviewIssues = map[string]struct{}{
	IssueAggregateFactor:           {},
	IssueCheckingQuery:             {},
	IssueOverlapOfChargeDates:      {},
	IssueReturnsNotProcessed:       {},
	IssueReturnsSplitOverReference: {},
	IssueUnableToMatchReturns:      {},
}

type check struct {
	issue string
	found func(rows []models.ReviewResultDetail) bool
}

// checks are evaluated in display order
var checks = []check{
	{IssueAbstractionOutsidePeriod, anyReturn(func(r *models.ReviewReturnResult) bool { return r.AbstractionOutsidePeriod })},
	{IssueAggregateFactor, anyChargeElement(func(c *models.ReviewChargeElementResult) bool { return !c.Aggregate.Equal(decimal.NewFromInt(1)) })},
	{IssueCheckingQuery, anyReturn(func(r *models.ReviewReturnResult) bool { return r.UnderQuery })},
	{IssueNoReturnsReceived, anyReturn(func(r *models.ReviewReturnResult) bool { return r.Status.NotReceived() })},
	{IssueOverAbstraction, anyReturn(func(r *models.ReviewReturnResult) bool { return r.OverAbstracted() })},
	{IssueOverlapOfChargeDates, anyChargeElement(func(c *models.ReviewChargeElementResult) bool { return c.ChargeDatesOverlap })},
	{IssueReturnsNotProcessed, anyReturn(func(r *models.ReviewReturnResult) bool { return r.Status == models.ReturnStatusReceived })},
	{IssueReturnsReceivedLate, anyReturn(func(r *models.ReviewReturnResult) bool { return r.ReceivedLate() })},
	{IssueReturnsSplitOverReference, returnsSplitOverChargeReferences},
	{IssueSomeReturnsNotReceived, someReturnsNotReceived},
	{IssueUnableToMatchReturns, unableToMatchReturns},
}

// DetermineIssues works out the issues present in a licence's review results and whether
// the licence needs reviewing
func DetermineIssues(rows []models.ReviewResultDetail) ([]string, models.ReviewStatus) {
	issues := []string{}
	for _, c := range checks {
		if c.found(rows) {
			issues = append(issues, c.issue)
		}
	}

	return issues, DetermineStatus(issues)
}

// DetermineStatus returns review if any of the issues needs a person to check it
func DetermineStatus(issues []string) models.ReviewStatus {
	for _, issue := range issues {
		if _, ok := reviewIssues[issue]; ok {
			return models.ReviewStatusReview
		}
	}
	return models.ReviewStatusReady
}

func anyReturn(predicate func(r *models.ReviewReturnResult) bool) func([]models.ReviewResultDetail) bool {
	return func(rows []models.ReviewResultDetail) bool {
		for i := range rows {
			if rows[i].ReviewReturnResult != nil && predicate(rows[i].ReviewReturnResult) {
				return true
			}
		}
		return false
	}
}

func anyChargeElement(predicate func(c *models.ReviewChargeElementResult) bool) func([]models.ReviewResultDetail) bool {
	return func(rows []models.ReviewResultDetail) bool {
		for i := range rows {
			if rows[i].ReviewChargeElementResult != nil && predicate(rows[i].ReviewChargeElementResult) {
				return true
			}
		}
		return false
	}
}

// returnsSplitOverChargeReferences checks every row, comparing each return result against the
// charge reference it was first seen with
func returnsSplitOverChargeReferences(rows []models.ReviewResultDetail) bool {
	firstSeen := make(map[string]string, len(rows))
	split := false

	for _, row := range rows {
		if row.ReviewReturnResultID == nil {
			continue
		}

		chargeReferenceID := ""
		if row.ChargeReferenceID != nil {
			chargeReferenceID = *row.ChargeReferenceID
		}

		seen, ok := firstSeen[*row.ReviewReturnResultID]
		if !ok {
			firstSeen[*row.ReviewReturnResultID] = chargeReferenceID
			continue
		}
		if seen != chargeReferenceID {
			split = true
		}
	}

	return split
}

func someReturnsNotReceived(rows []models.ReviewResultDetail) bool {
	for i := range rows {
		if !rows[i].Matched() || rows[i].ReviewReturnResult == nil {
			continue
		}
		if rows[i].ReviewReturnResult.Status.NotReceived() {
			return true
		}
	}
	return false
}

func unableToMatchReturns(rows []models.ReviewResultDetail) bool {
	for i := range rows {
		if !rows[i].Matched() {
			return true
		}
	}
	return false
}
