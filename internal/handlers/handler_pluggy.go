package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// pluggyHandler bridges the account-aggregation provider.
type pluggyHandler struct {
	aggregationSvc portssvc.AggregationProviderSvc
}

func newPluggyHandler(aggregationSvc portssvc.AggregationProviderSvc) *pluggyHandler {
	return &pluggyHandler{aggregationSvc: aggregationSvc}
}

// registerPluggyRoutes registers the aggregation provider routes.
func registerPluggyRoutes(rg *gin.RouterGroup, aggregationSvc portssvc.AggregationProviderSvc) {
	h := newPluggyHandler(aggregationSvc)

	pluggy := rg.Group("/pluggy")
	{
		pluggy.GET("/accounts", h.getProviderAccounts)
		pluggy.POST("/connect-token", h.createConnectToken)
	}
}

type connectTokenBody struct {
	ItemID *string `json:"itemId"`
}

// getProviderAccounts godoc
// @Summary List provider accounts
// @Description Lists the remote bank accounts connected under an aggregation item
// @Tags pluggy
// @Produce json
// @Param itemId query string true "Provider item ID"
// @Success 200 {object} dto.ProviderAccountsResponse
// @Failure 400 {object} map[string]string "Missing itemId"
// @Failure 502 {object} map[string]string "Provider error"
// @Security BearerAuth
// @Router /pluggy/accounts [get]
func (h *pluggyHandler) getProviderAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	itemID := c.Query("itemId")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId is required"})
		return
	}

	resp, err := h.aggregationSvc.GetAccounts(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, logger.With(slog.String("item_id", itemID)), err, "Failed to list provider accounts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// createConnectToken godoc
// @Summary Issue a connect token
// @Description Issues a short-lived widget token for the aggregation provider's connect flow
// @Tags pluggy
// @Accept json
// @Produce json
// @Param options body connectTokenBody false "Optional item to update"
// @Success 200 {object} dto.ProviderConnectTokenResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Provider error"
// @Security BearerAuth
// @Router /pluggy/connect-token [post]
func (h *pluggyHandler) createConnectToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body connectTokenBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for createConnectToken", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.aggregationSvc.CreateConnectToken(c.Request.Context(), userID, body.ItemID)
	if err != nil {
		respondError(c, logger, err, "Failed to create connect token")
		return
	}

	c.JSON(http.StatusOK, resp)
}
