package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/finledger/finance_ledger_app/internal/utils/accounting"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// AccountService owns the account lifecycle: declaration, schedule
// materialization, settlement and cascade deletion. Installment generation,
// summary refresh and breakdown recomputation are best-effort trailing
// steps; the primary write never rolls back because of them.
type AccountService struct {
	accountRepo        portsrepo.AccountRepositoryWithTx
	installmentRepo    portsrepo.InstallmentRepositoryFacade
	transactionRepo    portsrepo.TransactionRepositoryFacade
	creditCardItemRepo portsrepo.CreditCardItemRepositoryFacade
	creditCardSvc      portssvc.CreditCardItemSvcFacade
	installmentSvc     portssvc.InstallmentSvcFacade
	transactionSvc     portssvc.TransactionWriterSvc
	summarySvc         portssvc.SummarySvcFacade
}

func NewAccountService(
	accountRepo portsrepo.AccountRepositoryWithTx,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	creditCardItemRepo portsrepo.CreditCardItemRepositoryFacade,
	creditCardSvc portssvc.CreditCardItemSvcFacade,
	installmentSvc portssvc.InstallmentSvcFacade,
	transactionSvc portssvc.TransactionWriterSvc,
	summarySvc portssvc.SummarySvcFacade,
) *AccountService {
	return &AccountService{
		accountRepo:        accountRepo,
		installmentRepo:    installmentRepo,
		transactionRepo:    transactionRepo,
		creditCardItemRepo: creditCardItemRepo,
		creditCardSvc:      creditCardSvc,
		installmentSvc:     installmentSvc,
		transactionSvc:     transactionSvc,
		summarySvc:         summarySvc,
	}
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.AccountWithSchedule, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.withSchedule(ctx, account)
}

func (s *AccountService) ListAccounts(ctx context.Context, userID string, req dto.ListAccountsRequest) (*dto.AccountListResponse, error) {
	req.Normalize()
	accounts, total, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountListFilter{
		UserID:         &userID,
		Type:           req.Type,
		IsPaid:         req.IsPaid,
		ReferenceMonth: req.ReferenceMonth,
		ReferenceYear:  req.ReferenceYear,
		Limit:          req.Limit,
		Offset:         req.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.AccountListResponse{
		Docs:     dto.ToListAccountResponse(accounts),
		PageMeta: dto.NewPageMeta(total, req.PageRequest),
	}, nil
}

func (s *AccountService) FindByPeriod(ctx context.Context, userID string, month, year int) ([]domain.Account, error) {
	accounts, _, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountListFilter{
		UserID:         &userID,
		ReferenceMonth: &month,
		ReferenceYear:  &year,
	})
	return accounts, err
}

func (s *AccountService) FindUnpaidByPeriod(ctx context.Context, userID string, month, year int) ([]domain.Account, error) {
	unpaid := false
	accounts, _, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountListFilter{
		UserID:         &userID,
		IsPaid:         &unpaid,
		ReferenceMonth: &month,
		ReferenceYear:  &year,
	})
	return accounts, err
}

func (s *AccountService) PeriodStatistics(ctx context.Context, userID string, month, year int) (*domain.PeriodStatistics, error) {
	accounts, err := s.FindByPeriod(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	stats := domain.PeriodStatistics{
		ReferenceMonth: month,
		ReferenceYear:  year,
		TotalAccounts:  len(accounts),
	}
	for i := range accounts {
		amount := monthlyObligation(&accounts[i])
		stats.TotalAmount += amount
		if accounts[i].IsPaid {
			stats.PaidAccounts++
			stats.PaidAmount += amount
		} else {
			stats.UnpaidAccounts++
			stats.UnpaidAmount += amount
		}
	}
	return &stats, nil
}

// LoanTerms derives the implied interest of a LOAN account from its
// principal, installment count and fixed payment.
func (s *AccountService) LoanTerms(ctx context.Context, accountID string) (*dto.LoanTermsResponse, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Type != domain.Loan {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeLoanFieldsRequired,
			"account %s is not a loan", accountID)
	}
	if account.TotalAmount == nil || account.InstallmentAmount == nil || account.Installments == nil {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeLoanFieldsRequired,
			"loan account %s is missing principal, installment amount or installment count", accountID)
	}

	terms := accounting.CalculateLoanTerms(*account.TotalAmount, *account.Installments, *account.InstallmentAmount)
	return &dto.LoanTermsResponse{
		AccountID:           account.AccountID,
		TotalAmount:         int64(terms.TotalAmount),
		InstallmentAmount:   int64(terms.MonthlyPayment),
		Installments:        *account.Installments,
		TotalInterest:       int64(terms.TotalInterest),
		MonthlyInterestRate: terms.MonthlyInterestRate.StringFixed(4),
	}, nil
}

// CreateAccount validates the declared obligation, persists it, then
// materializes the schedule and refreshes the affected summary as trailing
// best-effort steps.
func (s *AccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.AccountWithSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	plan, err := policyFor(req.Type).plan(accountInput{
		totalAmount:       centsFromPtr(req.TotalAmount),
		installmentAmount: centsFromPtr(req.InstallmentAmount),
		installments:      req.Installments,
	})
	if err != nil {
		return nil, err
	}

	startDate := req.ParsedStartDate()
	refMonth, refYear := referencePeriod(req.Type, req.ClosingDate, startDate, time.Now().UTC())

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:         uuid.NewString(),
		UserID:            userID,
		Name:              req.Name,
		Type:              req.Type,
		TotalAmount:       plan.totalAmount,
		InstallmentAmount: plan.installmentAmount,
		Installments:      req.Installments,
		StartDate:         startDate,
		DueDay:            req.DueDay,
		ClosingDate:       req.ClosingDate,
		IsPreview:         true,
		ReferenceMonth:    refMonth,
		ReferenceYear:     refYear,
		CreditLimit:       centsFromPtr(req.CreditLimit),
		CreditCardID:      req.CreditCardID,
		AuditFields:       domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}

	s.generateSchedule(ctx, &account, plan)
	s.recalcPeriods(ctx, userID, []domain.Period{{Month: refMonth, Year: refYear}})

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("type", string(account.Type)),
		slog.Int("reference_month", refMonth),
		slog.Int("reference_year", refYear),
	)
	return s.withSchedule(ctx, &account)
}

// UpdateAccount applies a partial update. When a schedule-affecting field
// changed the installment batch is regenerated and the summaries of both the
// previous and the new billing period are refreshed.
func (s *AccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.AccountWithSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	prevPeriod := domain.Period{Month: account.ReferenceMonth, Year: account.ReferenceYear}

	scheduleChanged := applyAccountUpdate(account, req)

	plan, err := policyFor(account.Type).plan(accountInput{
		totalAmount:       account.TotalAmount,
		installmentAmount: account.InstallmentAmount,
		installments:      account.Installments,
	})
	if err != nil {
		return nil, err
	}
	account.TotalAmount = plan.totalAmount
	account.InstallmentAmount = plan.installmentAmount

	if scheduleChanged {
		account.ReferenceMonth, account.ReferenceYear = referencePeriod(account.Type, account.ClosingDate, account.StartDate, time.Now().UTC())
	}
	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	if scheduleChanged {
		s.generateSchedule(ctx, account, plan)
	}

	periods := []domain.Period{{Month: account.ReferenceMonth, Year: account.ReferenceYear}}
	if prevPeriod.Month != account.ReferenceMonth || prevPeriod.Year != account.ReferenceYear {
		periods = append(periods, prevPeriod)
	}
	s.recalcPeriods(ctx, account.UserID, periods)

	logger.Info("Account updated", slog.String("account_id", accountID), slog.Bool("schedule_regenerated", scheduleChanged))
	return s.withSchedule(ctx, account)
}

// DeleteAccount removes the account with its installments, linked
// transactions and credit-card links in one atomic unit, then refreshes the
// affected summary.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = s.accountRepo.Rollback(ctx, tx)
		}
	}()

	if err = s.transactionRepo.DeleteTransactionsByAccountInTx(ctx, tx, accountID); err != nil {
		return nil, err
	}
	if err = s.installmentRepo.DeleteInstallmentsByAccountInTx(ctx, tx, accountID); err != nil {
		return nil, err
	}
	if err = s.creditCardItemRepo.DeleteLinksInvolvingAccountInTx(ctx, tx, accountID); err != nil {
		return nil, err
	}
	if err = s.accountRepo.DeleteAccountInTx(ctx, tx, accountID); err != nil {
		return nil, err
	}
	if err = s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.recalcPeriods(ctx, account.UserID, []domain.Period{{Month: account.ReferenceMonth, Year: account.ReferenceYear}})

	logger.Info("Account deleted with cascade", slog.String("account_id", accountID))
	return account, nil
}

// MarkAccountPaid settles every unpaid installment, marks the account paid
// and records one consolidated expense transaction.
func (s *AccountService) MarkAccountPaid(ctx context.Context, accountID, userID string, req dto.MarkAccountPaidRequest) (*dto.MarkAccountPaidResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsPaid {
		return nil, apperrors.New(apperrors.ErrConflict, apperrors.CodeAccountAlreadyPaid, "account %s is already paid", accountID)
	}

	unpaid, err := s.installmentRepo.FindUnpaidInstallmentsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var required money.Cents
	if len(unpaid) > 0 {
		for _, ins := range unpaid {
			required += ins.Amount
		}
	} else if account.TotalAmount != nil {
		required = *account.TotalAmount
	}

	payment := money.Cents(req.PaymentAmount)
	if payment < required {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeInsufficientPayment,
			"payment of %d cents does not cover the outstanding %d cents", int64(payment), int64(required))
	}

	if len(unpaid) > 0 {
		if err := s.installmentSvc.MarkAllUnpaidPaid(ctx, accountID); err != nil {
			return nil, err
		}
	}
	if err := s.accountRepo.SetAccountPaid(ctx, accountID, true); err != nil {
		return nil, err
	}
	account.IsPaid = true
	account.IsPreview = false

	var txnResp *dto.TransactionResponse
	txn, err := s.transactionSvc.CreateAccountPayment(ctx, accountID, userID, payment)
	if err != nil {
		logger.Error("Failed to record consolidated payment transaction", slog.String("error", err.Error()), slog.String("account_id", accountID))
	} else {
		resp := dto.ToTransactionResponse(txn)
		txnResp = &resp
	}

	s.recalcPeriods(ctx, account.UserID, []domain.Period{{Month: account.ReferenceMonth, Year: account.ReferenceYear}})

	logger.Info("Account settled",
		slog.String("account_id", accountID),
		slog.Int("paid_installments", len(unpaid)),
		slog.Int64("payment", int64(payment)),
	)
	return &dto.MarkAccountPaidResponse{
		Account:          dto.ToAccountResponse(account),
		PaidInstallments: len(unpaid),
		TotalPaid:        int64(payment),
		Transaction:      txnResp,
	}, nil
}

// AssociateToCreditCard links an account to a credit card and recomputes the
// card's installment breakdowns.
func (s *AccountService) AssociateToCreditCard(ctx context.Context, userID, creditCardID, accountID string) error {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.UserID != userID {
		return apperrors.New(apperrors.ErrNotFound, apperrors.CodeAccountNotFound, "account %s not found", accountID)
	}

	if _, err := s.creditCardSvc.Link(ctx, creditCardID, accountID); err != nil {
		return err
	}

	account.CreditCardID = &creditCardID
	account.LastUpdatedAt = time.Now().UTC()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return err
	}

	s.recomputeCardBreakdown(ctx, creditCardID)
	return nil
}

// DisassociateFromCreditCard removes the link and recomputes the card's
// installment breakdowns.
func (s *AccountService) DisassociateFromCreditCard(ctx context.Context, creditCardID, accountID string) error {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.creditCardSvc.Unlink(ctx, creditCardID, accountID); err != nil {
		return err
	}

	account.CreditCardID = nil
	account.LastUpdatedAt = time.Now().UTC()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return err
	}

	s.recomputeCardBreakdown(ctx, creditCardID)
	return nil
}

// CreditCardAssociatedAccounts lists the user's accounts billed through the
// given card.
func (s *AccountService) CreditCardAssociatedAccounts(ctx context.Context, userID, creditCardID string) ([]domain.Account, error) {
	accounts, err := s.creditCardSvc.LinkedAccounts(ctx, creditCardID)
	if err != nil {
		return nil, err
	}
	owned := accounts[:0]
	for _, acc := range accounts {
		if acc.UserID == userID {
			owned = append(owned, acc)
		}
	}
	return owned, nil
}

func (s *AccountService) findAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeAccountNotFound, "account %s not found", accountID)
		}
		return nil, err
	}
	return account, nil
}

// withSchedule loads the installment schedule and payment progress.
func (s *AccountService) withSchedule(ctx context.Context, account *domain.Account) (*domain.AccountWithSchedule, error) {
	installments, err := s.installmentRepo.FindInstallmentsByAccount(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}

	var paid, pending money.Cents
	for _, ins := range installments {
		if ins.IsPaid {
			paid += ins.Amount
		} else {
			pending += ins.Amount
		}
	}

	remaining := pending
	if len(installments) == 0 && account.TotalAmount != nil && !account.IsPaid {
		remaining = *account.TotalAmount
	}

	return &domain.AccountWithSchedule{
		Account:         *account,
		InstallmentList: installments,
		AmountPaid:      paid,
		RemainingAmount: remaining,
	}, nil
}

// generateSchedule runs the planned generation strategy. Failures are logged
// and never fail the primary write.
func (s *AccountService) generateSchedule(ctx context.Context, account *domain.Account, plan accountPlan) {
	if plan.strategy == genNone || account.Installments == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	input := portssvc.GenerateInstallmentsInput{
		AccountID: account.AccountID,
		Count:     *account.Installments,
		StartDate: account.StartDate,
		DueDay:    account.DueDay,
	}

	var err error
	switch plan.strategy {
	case genFromTotal:
		input.Amount = *plan.totalAmount
		_, err = s.installmentSvc.GenerateFromTotal(ctx, input)
	case genFromAmount:
		input.Amount = *plan.installmentAmount
		_, err = s.installmentSvc.GenerateFromAmount(ctx, input)
	}
	if err != nil {
		logger.Error("Installment generation failed, account kept without schedule",
			slog.String("account_id", account.AccountID),
			slog.String("error", err.Error()),
		)
	}
}

// recomputeCardBreakdown regenerates the schedules of every account linked
// to the card. Best-effort; failures surface in the log with the dedicated
// recalculation code.
func (s *AccountService) recomputeCardBreakdown(ctx context.Context, creditCardID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	linked, err := s.creditCardSvc.LinkedAccounts(ctx, creditCardID)
	if err != nil {
		logger.Error("Breakdown recomputation failed",
			slog.String("credit_card_id", creditCardID),
			slog.String("code", apperrors.CodeBreakdownRecalculation),
			slog.String("error", err.Error()),
		)
		return
	}

	for i := range linked {
		plan, err := policyFor(linked[i].Type).plan(accountInput{
			totalAmount:       linked[i].TotalAmount,
			installmentAmount: linked[i].InstallmentAmount,
			installments:      linked[i].Installments,
		})
		if err != nil {
			logger.Error("Breakdown recomputation skipped account",
				slog.String("account_id", linked[i].AccountID),
				slog.String("code", apperrors.CodeBreakdownRecalculation),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.generateSchedule(ctx, &linked[i], plan)
	}
}

// recalcPeriods refreshes summaries. Best-effort.
func (s *AccountService) recalcPeriods(ctx context.Context, userID string, periods []domain.Period) {
	if err := s.summarySvc.RecalculateMonths(ctx, userID, periods); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Summary recalculation failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// referencePeriod computes the billing period an account belongs to. Credit
// cards with a statement closing day bill into the current month until the
// closing day passes, then roll into the next month.
func referencePeriod(accType domain.AccountType, closingDate *int, startDate, now time.Time) (month, year int) {
	if accType == domain.CreditCard && closingDate != nil {
		month, year = int(now.Month()), now.Year()
		if now.Day() > *closingDate {
			month++
			if month > 12 {
				month = 1
				year++
			}
		}
		return month, year
	}
	return int(startDate.Month()), startDate.Year()
}

// applyAccountUpdate copies provided fields onto the account and reports
// whether any schedule-affecting field changed.
func applyAccountUpdate(account *domain.Account, req dto.UpdateAccountRequest) bool {
	changed := false

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.TotalAmount != nil {
		v := money.Cents(*req.TotalAmount)
		if account.TotalAmount == nil || *account.TotalAmount != v {
			changed = true
		}
		account.TotalAmount = &v
	}
	if req.InstallmentAmount != nil {
		v := money.Cents(*req.InstallmentAmount)
		if account.InstallmentAmount == nil || *account.InstallmentAmount != v {
			changed = true
		}
		account.InstallmentAmount = &v
	}
	if req.Installments != nil {
		if account.Installments == nil || *account.Installments != *req.Installments {
			changed = true
		}
		account.Installments = req.Installments
	}
	if req.StartDate != nil {
		t, err := time.Parse("2006-01-02", *req.StartDate)
		if err == nil && !t.Equal(account.StartDate) {
			account.StartDate = t
			changed = true
		}
	}
	if req.DueDay != nil {
		if account.DueDay != *req.DueDay {
			changed = true
		}
		account.DueDay = *req.DueDay
	}
	if req.ClosingDate != nil {
		account.ClosingDate = req.ClosingDate
		changed = true
	}
	if req.CreditLimit != nil {
		v := money.Cents(*req.CreditLimit)
		account.CreditLimit = &v
	}
	if req.IsPaid != nil {
		account.IsPaid = *req.IsPaid
	}
	return changed
}

func centsFromPtr(v *int64) *money.Cents {
	if v == nil {
		return nil
	}
	c := money.Cents(*v)
	return &c
}
