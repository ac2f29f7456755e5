package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions and the
// derived reports.
type transactionHandler struct {
	transactionSvc portssvc.TransactionSvcFacade
	accountSvc     portssvc.AccountSvcFacade
}

func newTransactionHandler(transactionSvc portssvc.TransactionSvcFacade, accountSvc portssvc.AccountSvcFacade) *transactionHandler {
	return &transactionHandler{transactionSvc: transactionSvc, accountSvc: accountSvc}
}

// RegisterTransactionRoutes registers transaction and report routes.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionSvc portssvc.TransactionSvcFacade, accountSvc portssvc.AccountSvcFacade) {
	h := newTransactionHandler(transactionSvc, accountSvc)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/balance", h.getBalance)
		reports.GET("/expenses-by-category", h.expensesByCategory)
		reports.GET("/statistics", h.periodStatistics)
	}
}

// createTransaction godoc
// @Summary Record a cash movement
// @Description Records an INCOME or EXPENSE transaction. Expenses linked to an account must cover its full outstanding amount and settle it as a side effect.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Movement details in cents"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or insufficient payment"
// @Failure 409 {object} map[string]string "Account already paid or installment already settled"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID))

	var txn *domain.Transaction
	var err error
	switch req.Type {
	case domain.Income:
		txn, err = h.transactionSvc.CreateIncome(c.Request.Context(), userID, req)
	case domain.Expense, "":
		txn, err = h.transactionSvc.CreateExpense(c.Request.Context(), userID, req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction type"})
		return
	}
	if err != nil {
		respondError(c, logger, err, "Failed to record transaction")
		return
	}

	logger.Info("Transaction recorded", slog.String("transaction_id", txn.TransactionID), slog.String("type", string(txn.Type)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves the user's transactions, filtered and paginated, newest first
// @Tags transactions
// @Produce json
// @Param type query string false "INCOME or EXPENSE"
// @Param category query string false "Category filter"
// @Param accountID query string false "Account filter"
// @Param startDate query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.TransactionPageResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for listTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionSvc.ListTransactions(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.transactionSvc.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger.With(slog.String("transaction_id", transactionID)), err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes a transaction and reverses the paid state it caused on its linked installment or account
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	logger = logger.With(slog.String("transaction_id", transactionID))
	if err := h.transactionSvc.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted")
	c.Status(http.StatusNoContent)
}

// getBalance godoc
// @Summary Monthly balance
// @Description Computes the income/expense balance of one month, defaulting to the current one
// @Tags reports
// @Produce json
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Success 200 {object} domain.UserBalance
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/balance [get]
func (h *transactionHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, year, ok := optionalPeriod(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month or year"})
		return
	}

	balance, err := h.transactionSvc.UserBalance(c.Request.Context(), userID, month, year)
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, balance)
}

// expensesByCategory godoc
// @Summary Expenses grouped by category
// @Description Groups a period's expenses by account type or transaction category, with percentage shares
// @Tags reports
// @Produce json
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Success 200 {array} domain.ExpenseCategory
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/expenses-by-category [get]
func (h *transactionHandler) expensesByCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ExpensesByCategoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for expensesByCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	categories, err := h.transactionSvc.ExpensesByCategory(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to group expenses")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// periodStatistics godoc
// @Summary Billing period statistics
// @Description Aggregates paid/unpaid counts and amounts for the accounts of one billing period
// @Tags reports
// @Produce json
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} domain.PeriodStatistics
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/statistics [get]
func (h *transactionHandler) periodStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, year, ok := optionalPeriod(c)
	if !ok || month == nil || year == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month and year are required"})
		return
	}

	stats, err := h.accountSvc.PeriodStatistics(c.Request.Context(), userID, *month, *year)
	if err != nil {
		respondError(c, logger, err, "Failed to compute period statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// optionalPeriod parses the month/year query pair, both optional.
func optionalPeriod(c *gin.Context) (month, year *int, ok bool) {
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return nil, nil, false
		}
		month = &m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 {
			return nil, nil, false
		}
		year = &y
	}
	return month, year, true
}
