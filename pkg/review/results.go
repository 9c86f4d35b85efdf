package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/reed/pkg/models"
)

// LicenceResults are the rows to write for one allocated licence
type LicenceResults struct {
	LicenceID                  string
	ReviewReturnResults        []models.ReviewReturnResult
	ReviewChargeElementResults []models.ReviewChargeElementResult
	ReviewResults              []models.ReviewResult
}

// Empty reports whether there is nothing to write
func (r LicenceResults) Empty() bool {
	return len(r.ReviewReturnResults) == 0 && len(r.ReviewChargeElementResults) == 0 && len(r.ReviewResults) == 0
}

// Builder turns allocated licences into review result rows. IDs are generated up front so
// that rows can be linked before they are written.
type Builder struct {
	newID func() string
	now   func() time.Time
}

// NewBuilder creates a builder that uses random UUIDs and the current time
func NewBuilder() *Builder {
	return &Builder{
		newID: func() string { return uuid.New().String() },
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// BuildLicenceResults builds the return, charge element and review result rows for a licence.
// Every return log gets one return result. Unmatched return logs get a review result of their
// own. Every charge element gets one charge element result and one review result per matched
// return log, or a single review result with no return when nothing matched.
func (b *Builder) BuildLicenceResults(billRunID string, licence models.AllocatedLicence) (LicenceResults, error) {
	now := b.now()
	results := LicenceResults{LicenceID: licence.ID}

	returnResultIDs := make(map[string]string, len(licence.ReturnLogs))
	for _, returnLog := range licence.ReturnLogs {
		if _, seen := returnResultIDs[returnLog.ReturnID]; seen {
			return LicenceResults{}, fmt.Errorf("return %s is listed more than once on licence %s", returnLog.ReturnID, licence.ID)
		}

		returnResult := b.returnResult(returnLog, now)
		results.ReviewReturnResults = append(results.ReviewReturnResults, returnResult)
		returnResultIDs[returnLog.ReturnID] = returnResult.ID

		if returnLog.Matched {
			continue
		}

		returnResultID := returnResult.ID
		results.ReviewResults = append(results.ReviewResults, models.ReviewResult{
			ID:                   b.newID(),
			BillRunID:            billRunID,
			LicenceID:            licence.ID,
			ReviewReturnResultID: &returnResultID,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	}

	for _, chargeVersion := range licence.ChargeVersions {
		if !chargeVersion.Chargeable() {
			continue
		}

		for _, chargeReference := range chargeVersion.ChargeReferences {
			for _, chargeElement := range chargeReference.ChargeElements {
				elementResult := models.ReviewChargeElementResult{
					ID:                 b.newID(),
					ChargeElementID:    chargeElement.ID,
					Allocated:          chargeElement.AllocatedQuantity,
					Aggregate:          chargeReference.AggregateOrDefault(),
					ChargeDatesOverlap: chargeElement.ChargeDatesOverlap,
					CreatedAt:          now,
					UpdatedAt:          now,
				}
				results.ReviewChargeElementResults = append(results.ReviewChargeElementResults, elementResult)

				if len(chargeElement.ReturnLogs) == 0 {
					results.ReviewResults = append(results.ReviewResults,
						b.chargeResult(billRunID, licence.ID, chargeVersion, chargeReference, elementResult.ID, nil, now))
					continue
				}

				for _, matched := range chargeElement.ReturnLogs {
					returnResultID, ok := returnResultIDs[matched.ReturnID]
					if !ok {
						return LicenceResults{}, fmt.Errorf("charge element %s is matched to return %s which is not one of licence %s's return logs",
							chargeElement.ID, matched.ReturnID, licence.ID)
					}
					results.ReviewResults = append(results.ReviewResults,
						b.chargeResult(billRunID, licence.ID, chargeVersion, chargeReference, elementResult.ID, &returnResultID, now))
				}
			}
		}
	}

	return results, nil
}

func (b *Builder) returnResult(returnLog models.ReturnLog, now time.Time) models.ReviewReturnResult {
	return models.ReviewReturnResult{
		ID:                       b.newID(),
		ReturnID:                 returnLog.ReturnID,
		ReturnReference:          returnLog.ReturnRequirement,
		StartDate:                returnLog.StartDate,
		EndDate:                  returnLog.EndDate,
		DueDate:                  returnLog.DueDate,
		ReceivedDate:             returnLog.ReceivedDate,
		Status:                   returnLog.Status,
		UnderQuery:               returnLog.UnderQuery,
		NilReturn:                returnLog.NilReturn,
		Description:              returnLog.Description,
		Purposes:                 returnLog.Purposes,
		Quantity:                 returnLog.Quantity,
		Allocated:                returnLog.AllocatedQuantity,
		AbstractionOutsidePeriod: returnLog.AbstractionOutsidePeriod,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

func (b *Builder) chargeResult(
	billRunID, licenceID string,
	chargeVersion models.ChargeVersion,
	chargeReference models.ChargeReference,
	elementResultID string,
	returnResultID *string,
	now time.Time,
) models.ReviewResult {
	chargeVersionID := chargeVersion.ID
	chargeReferenceID := chargeReference.ID
	startDate := chargeVersion.ChargePeriod.StartDate
	endDate := chargeVersion.ChargePeriod.EndDate

	return models.ReviewResult{
		ID:                          b.newID(),
		BillRunID:                   billRunID,
		LicenceID:                   licenceID,
		ChargeVersionID:             &chargeVersionID,
		ChargeReferenceID:           &chargeReferenceID,
		ChargePeriodStartDate:       &startDate,
		ChargePeriodEndDate:         &endDate,
		ChargeVersionChangeReason:   chargeVersion.ChangeReasonDescription(),
		ReviewChargeElementResultID: &elementResultID,
		ReviewReturnResultID:        returnResultID,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}
}
