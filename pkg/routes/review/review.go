package review

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	reviewservice "github.com/Ramsey-B/reed/internal/services/review"
	reqcontext "github.com/Ramsey-B/reed/pkg/context"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
	"github.com/Ramsey-B/reed/pkg/utils"
)

// Service is the review service the handlers call
type Service interface {
	PersistAllocatedLicences(ctx context.Context, billRunID string, licences []models.AllocatedLicence) (reviewservice.PersistSummary, error)
	ReviewBillRun(ctx context.Context, billRunID string) (*models.ReviewBillRun, error)
	ReviewLicence(ctx context.Context, billRunID, licenceID string) (*models.LicenceReview, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register registers the review routes on a /bill-runs group
func (h *Handler) Register(g *echo.Group) {
	g.GET("/:billRunId/review", h.GetBillRunReview)
	g.GET("/:billRunId/review/:licenceId", h.GetLicenceReview)
	g.POST("/:billRunId/review/results", h.PersistResults)
}

type BillRunRequest struct {
	BillRunID string `param:"billRunId" validate:"required,uuid"`
}

type LicenceRequest struct {
	BillRunID string `param:"billRunId" validate:"required,uuid"`
	LicenceID string `param:"licenceId" validate:"required,uuid"`
}

// PersistResultsRequest is the allocation output for a bill run
type PersistResultsRequest struct {
	BillRunID string                    `param:"billRunId" validate:"required,uuid"`
	Licences  []models.AllocatedLicence `json:"licences" validate:"dive"`
}

func (h *Handler) GetBillRunReview(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "review.GetBillRunReview")
	defer span.End()

	req, err := utils.BindRequest[BillRunRequest](c)
	if err != nil {
		return err
	}
	ctx = reqcontext.SetBillRunID(ctx, req.BillRunID)

	summary, err := h.service.ReviewBillRun(ctx, req.BillRunID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetLicenceReview(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "review.GetLicenceReview")
	defer span.End()

	req, err := utils.BindRequest[LicenceRequest](c)
	if err != nil {
		return err
	}
	ctx = reqcontext.SetBillRunID(ctx, req.BillRunID)

	result, err := h.service.ReviewLicence(ctx, req.BillRunID, req.LicenceID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) PersistResults(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "review.PersistResults")
	defer span.End()

	req, err := utils.BindRequest[PersistResultsRequest](c)
	if err != nil {
		return err
	}
	ctx = reqcontext.SetBillRunID(ctx, req.BillRunID)

	summary, err := h.service.PersistAllocatedLicences(ctx, req.BillRunID, req.Licences)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, summary)
}
