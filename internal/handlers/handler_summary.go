package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// summaryHandler handles HTTP requests for the derived monthly summaries.
type summaryHandler struct {
	summarySvc portssvc.SummarySvcFacade
}

func newSummaryHandler(summarySvc portssvc.SummarySvcFacade) *summaryHandler {
	return &summaryHandler{summarySvc: summarySvc}
}

// registerSummaryRoutes registers the monthly summary routes.
func registerSummaryRoutes(rg *gin.RouterGroup, summarySvc portssvc.SummarySvcFacade) {
	h := newSummaryHandler(summarySvc)

	summary := rg.Group("/summary")
	{
		summary.GET("/:year/:month", h.getSummary)
		summary.POST("/:year/:month/recalculate", h.recalculate)
	}
}

// getSummary godoc
// @Summary Monthly summary
// @Description Retrieves the stored summary for one billing period, recalculating it on a cache miss
// @Tags summary
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} domain.MonthlySummary
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /summary/{year}/{month} [get]
func (h *summaryHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, year, ok := pathPeriod(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year or month"})
		return
	}

	summary, err := h.summarySvc.GetSummary(c.Request.Context(), userID, month, year)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// recalculate godoc
// @Summary Rebuild a monthly summary
// @Description Rebuilds one period's summary from the user's transactions and unpaid installments. Idempotent.
// @Tags summary
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} domain.MonthlySummary
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /summary/{year}/{month}/recalculate [post]
func (h *summaryHandler) recalculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, year, ok := pathPeriod(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year or month"})
		return
	}

	logger = logger.With(slog.Int("month", month), slog.Int("year", year))
	summary, err := h.summarySvc.Recalculate(c.Request.Context(), userID, month, year)
	if err != nil {
		respondError(c, logger, err, "Failed to recalculate summary")
		return
	}

	logger.Info("Summary recalculated")
	c.JSON(http.StatusOK, summary)
}

// pathPeriod parses the :year/:month path pair.
func pathPeriod(c *gin.Context) (month, year int, ok bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 {
		return 0, 0, false
	}
	month, err = strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, year, true
}
