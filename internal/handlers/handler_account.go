package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/finledger/finance_ledger_app/internal/utils/accounting"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountSvc     portssvc.AccountSvcFacade
	installmentSvc portssvc.InstallmentSvcFacade
}

func newAccountHandler(accountSvc portssvc.AccountSvcFacade, installmentSvc portssvc.InstallmentSvcFacade) *accountHandler {
	return &accountHandler{accountSvc: accountSvc, installmentSvc: installmentSvc}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountSvc portssvc.AccountSvcFacade, installmentSvc portssvc.InstallmentSvcFacade) {
	h := newAccountHandler(accountSvc, installmentSvc)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.POST("/:id/pay", h.payAccount)
		accounts.GET("/:id/installments", h.listAccountInstallments)
		accounts.GET("/:id/loan-terms", h.getLoanTerms)
		accounts.POST("/:id/credit-card/:creditCardID", h.associateCreditCard)
		accounts.DELETE("/:id/credit-card/:creditCardID", h.disassociateCreditCard)
		accounts.GET("/:id/linked-accounts", h.linkedAccounts)
	}

	loans := rg.Group("/loans")
	{
		loans.POST("/simulate", h.simulateLoan)
	}
}

// createAccount godoc
// @Summary Declare a new obligation
// @Description Creates an account, materializes its installment schedule and refreshes the affected monthly summary
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
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
	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("account_type", string(req.Type)))

	account, err := h.accountSvc.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountWithScheduleResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Retrieves a paginated account list for the logged-in user, optionally filtered by type, paid state or billing period
// @Tags accounts
// @Produce json
// @Param type query string false "Account type filter"
// @Param isPaid query bool false "Paid state filter"
// @Param referenceMonth query int false "Billing period month"
// @Param referenceYear query int false "Billing period year"
// @Param limit query int false "Page size" default(20)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.AccountListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for listAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.accountSvc.ListAccounts(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getAccount godoc
// @Summary Get an account
// @Description Retrieves an account with its installment schedule and payment progress
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountWithScheduleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	account, err := h.accountSvc.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountWithScheduleResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Applies a partial update, regenerating the installment schedule when a schedule-affecting field changed
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} dto.AccountWithScheduleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	account, err := h.accountSvc.UpdateAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated")
	c.JSON(http.StatusOK, dto.ToAccountWithScheduleResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Removes the account with its installments, linked transactions and credit-card links in one atomic unit
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	logger = logger.With(slog.String("account_id", accountID))
	account, err := h.accountSvc.DeleteAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// payAccount godoc
// @Summary Settle an account
// @Description Settles every unpaid installment, marks the account paid and records one consolidated expense transaction
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param payment body dto.MarkAccountPaidRequest true "Payment amount in cents"
// @Success 200 {object} dto.MarkAccountPaidResponse
// @Failure 400 {object} map[string]string "Insufficient payment amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account already paid"
// @Security BearerAuth
// @Router /accounts/{id}/pay [post]
func (h *accountHandler) payAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.MarkAccountPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for payAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("account_id", accountID), slog.String("user_id", userID))
	resp, err := h.accountSvc.MarkAccountPaid(c.Request.Context(), accountID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to settle account")
		return
	}

	logger.Info("Account settled", slog.Int("paid_installments", resp.PaidInstallments))
	c.JSON(http.StatusOK, resp)
}

// listAccountInstallments godoc
// @Summary List an account's installments
// @Description Retrieves the account's installment schedule, paginated, optionally restricted to unpaid installments
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param unpaid query bool false "Only unpaid installments"
// @Param limit query int false "Page size" default(20)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.InstallmentPageResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/installments [get]
func (h *accountHandler) listAccountInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		logger.Warn("Failed to bind query for listAccountInstallments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var resp *dto.InstallmentPageResponse
	var err error
	if c.Query("unpaid") == "true" {
		resp, err = h.installmentSvc.FindUnpaidByAccount(c.Request.Context(), accountID, page)
	} else {
		resp, err = h.installmentSvc.FindByAccount(c.Request.Context(), accountID, page)
	}
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to list installments")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getLoanTerms godoc
// @Summary Loan terms of an account
// @Description Derives the implied monthly interest rate and total interest of a LOAN account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.LoanTermsResponse
// @Failure 400 {object} map[string]string "Not a loan or missing loan fields"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/loan-terms [get]
func (h *accountHandler) getLoanTerms(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	terms, err := h.accountSvc.LoanTerms(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to derive loan terms")
		return
	}

	c.JSON(http.StatusOK, terms)
}

// simulateLoan godoc
// @Summary Simulate a loan
// @Description Derives the implied interest of a principal repaid in fixed monthly payments, without persisting anything
// @Tags accounts
// @Accept json
// @Produce json
// @Param loan body dto.SimulateLoanRequest true "Loan parameters in cents"
// @Success 200 {object} dto.LoanTermsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /loans/simulate [post]
func (h *accountHandler) simulateLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SimulateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for simulateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	terms := accounting.CalculateLoanTerms(money.Cents(req.TotalAmount), req.Installments, money.Cents(req.InstallmentAmount))
	c.JSON(http.StatusOK, dto.LoanTermsResponse{
		TotalAmount:         int64(terms.TotalAmount),
		InstallmentAmount:   int64(terms.MonthlyPayment),
		Installments:        req.Installments,
		TotalInterest:       int64(terms.TotalInterest),
		MonthlyInterestRate: terms.MonthlyInterestRate.StringFixed(4),
	})
}

// associateCreditCard godoc
// @Summary Link an account to a credit card
// @Description Links the account to a CREDIT_CARD account and recomputes the card's installment breakdowns
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param creditCardID path string true "Credit card account ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Target is not a credit card"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Already linked"
// @Security BearerAuth
// @Router /accounts/{id}/credit-card/{creditCardID} [post]
func (h *accountHandler) associateCreditCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	creditCardID := c.Param("creditCardID")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("account_id", accountID), slog.String("credit_card_id", creditCardID))
	if err := h.accountSvc.AssociateToCreditCard(c.Request.Context(), userID, creditCardID, accountID); err != nil {
		respondError(c, logger, err, "Failed to link account to credit card")
		return
	}

	logger.Info("Account linked to credit card")
	c.Status(http.StatusNoContent)
}

// disassociateCreditCard godoc
// @Summary Unlink an account from a credit card
// @Description Removes the link and recomputes the card's installment breakdowns
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param creditCardID path string true "Credit card account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /accounts/{id}/credit-card/{creditCardID} [delete]
func (h *accountHandler) disassociateCreditCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	creditCardID := c.Param("creditCardID")

	logger = logger.With(slog.String("account_id", accountID), slog.String("credit_card_id", creditCardID))
	if err := h.accountSvc.DisassociateFromCreditCard(c.Request.Context(), creditCardID, accountID); err != nil {
		respondError(c, logger, err, "Failed to unlink account from credit card")
		return
	}

	logger.Info("Account unlinked from credit card")
	c.Status(http.StatusNoContent)
}

// linkedAccounts godoc
// @Summary List accounts billed through a card
// @Description Lists the logged-in user's accounts linked to the given credit card
// @Tags accounts
// @Produce json
// @Param id path string true "Credit card account ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} map[string]string "Credit card not found"
// @Security BearerAuth
// @Router /accounts/{id}/linked-accounts [get]
func (h *accountHandler) linkedAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditCardID := c.Param("id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	accounts, err := h.accountSvc.CreditCardAssociatedAccounts(c.Request.Context(), userID, creditCardID)
	if err != nil {
		respondError(c, logger.With(slog.String("credit_card_id", creditCardID)), err, "Failed to list linked accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}
