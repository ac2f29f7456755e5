package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// installmentHandler handles HTTP requests related to installments.
type installmentHandler struct {
	installmentSvc portssvc.InstallmentSvcFacade
}

func newInstallmentHandler(installmentSvc portssvc.InstallmentSvcFacade) *installmentHandler {
	return &installmentHandler{installmentSvc: installmentSvc}
}

// registerInstallmentRoutes registers routes related to installments.
func registerInstallmentRoutes(rg *gin.RouterGroup, installmentSvc portssvc.InstallmentSvcFacade) {
	h := newInstallmentHandler(installmentSvc)

	installments := rg.Group("/installments")
	{
		installments.GET("", h.listOverdue)
		installments.GET("/:id", h.getInstallment)
		installments.POST("/:id/pay", h.payInstallment)
		installments.POST("/:id/unpay", h.unpayInstallment)
		installments.DELETE("/:id", h.deleteInstallment)
	}
}

// listOverdue godoc
// @Summary List overdue installments
// @Description Retrieves unpaid installments already past due, optionally restricted to one account
// @Tags installments
// @Produce json
// @Param accountID query string false "Restrict to one account"
// @Param limit query int false "Page size" default(20)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.InstallmentPageResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /installments [get]
func (h *installmentHandler) listOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		logger.Warn("Failed to bind query for listOverdue", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var accountID *string
	if v := c.Query("accountID"); v != "" {
		accountID = &v
	}

	resp, err := h.installmentSvc.FindOverdue(c.Request.Context(), accountID, page)
	if err != nil {
		respondError(c, logger, err, "Failed to list overdue installments")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getInstallment godoc
// @Summary Get an installment
// @Tags installments
// @Produce json
// @Param id path string true "Installment ID"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 404 {object} map[string]string "Installment not found"
// @Security BearerAuth
// @Router /installments/{id} [get]
func (h *installmentHandler) getInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	installment, err := h.installmentSvc.GetInstallmentByID(c.Request.Context(), installmentID)
	if err != nil {
		respondError(c, logger.With(slog.String("installment_id", installmentID)), err, "Failed to retrieve installment")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

// payInstallment godoc
// @Summary Settle an installment
// @Description Creates the linked expense transaction, flips the paid state and refreshes the month's summary
// @Tags installments
// @Produce json
// @Param id path string true "Installment ID"
// @Success 200 {object} dto.InstallmentPaymentResponse
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 409 {object} map[string]string "Installment already paid or payment already exists"
// @Security BearerAuth
// @Router /installments/{id}/pay [post]
func (h *installmentHandler) payInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("installment_id", installmentID), slog.String("user_id", userID))
	resp, err := h.installmentSvc.MarkPaid(c.Request.Context(), installmentID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to settle installment")
		return
	}

	logger.Info("Installment settled")
	c.JSON(http.StatusOK, resp)
}

// unpayInstallment godoc
// @Summary Reopen an installment
// @Description Clears the paid state of one installment without transaction side effects
// @Tags installments
// @Produce json
// @Param id path string true "Installment ID"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 404 {object} map[string]string "Installment not found"
// @Security BearerAuth
// @Router /installments/{id}/unpay [post]
func (h *installmentHandler) unpayInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	logger = logger.With(slog.String("installment_id", installmentID))
	installment, err := h.installmentSvc.MarkUnpaid(c.Request.Context(), installmentID)
	if err != nil {
		respondError(c, logger, err, "Failed to reopen installment")
		return
	}

	logger.Info("Installment reopened")
	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

// deleteInstallment godoc
// @Summary Delete an installment
// @Description Always rejected: schedules are only replaced whole, never trimmed one installment at a time
// @Tags installments
// @Produce json
// @Param id path string true "Installment ID"
// @Failure 400 {object} map[string]string "Individual deletion not allowed"
// @Security BearerAuth
// @Router /installments/{id} [delete]
func (h *installmentHandler) deleteInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	err := h.installmentSvc.DeleteInstallment(c.Request.Context(), installmentID)
	respondError(c, logger.With(slog.String("installment_id", installmentID)), err, "Failed to delete installment")
}
