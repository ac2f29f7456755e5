package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
	"github.com/finledger/finance_ledger_app/internal/utils/schedule"
)

// accountTypeLabels maps account types to the display names used by the
// expenses-by-category report.
var accountTypeLabels = map[domain.AccountType]string{
	domain.Fixed:        "Contas Fixas",
	domain.Loan:         "Empréstimos",
	domain.CreditCard:   "Cartão de Crédito",
	domain.DebitCard:    "Cartão de Débito",
	domain.Subscription: "Assinaturas",
	domain.Insurance:    "Seguros",
	domain.Tax:          "Impostos",
	domain.Pension:      "Previdência",
	domain.Education:    "Educação",
	domain.Health:       "Saúde",
	domain.Other:        "Outros",
}

// TransactionService records cash movements and propagates their settlement
// side effects to installments and accounts.
type TransactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	summarySvc      portssvc.SummarySvcFacade
	categories      portssvc.CategoryValidator
}

func NewTransactionService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	summarySvc portssvc.SummarySvcFacade,
	categories portssvc.CategoryValidator,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		installmentRepo: installmentRepo,
		summarySvc:      summarySvc,
		categories:      categories,
	}
}

func (s *TransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

func (s *TransactionService) ListTransactions(ctx context.Context, userID string, req dto.ListTransactionsRequest) (*dto.TransactionPageResponse, error) {
	req.Normalize()
	filter := portsrepo.TransactionListFilter{
		Type:      req.Type,
		Category:  req.Category,
		AccountID: req.AccountID,
		Limit:     req.Limit,
		Offset:    req.Offset(),
	}
	if req.StartDate != nil {
		t, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeInvalidDateFormat, "invalid startDate %q", *req.StartDate)
		}
		filter.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeInvalidDateFormat, "invalid endDate %q", *req.EndDate)
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}

	txns, total, err := s.transactionRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionPageResponse{
		Docs:     dto.ToListTransactionResponse(txns),
		PageMeta: dto.NewPageMeta(total, req.PageRequest),
	}, nil
}

// CreateIncome records an income movement.
func (s *TransactionService) CreateIncome(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	return s.createMovement(ctx, userID, domain.Income, req)
}

// CreateExpense records an expense movement. When linked to an account the
// payment must cover the unpaid installments and the declared total amount;
// covered installments are settled as a side effect, and accounts that
// declare a total amount are marked paid.
func (s *TransactionService) CreateExpense(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var settledAccount *domain.Account
	if req.AccountID != nil {
		account, err := s.validateAccountPayment(ctx, *req.AccountID, money.Cents(req.Value))
		if err != nil {
			return nil, err
		}
		settledAccount = account
	}

	txn, err := s.createMovement(ctx, userID, domain.Expense, req)
	if err != nil {
		return nil, err
	}

	if settledAccount != nil {
		now := time.Now().UTC()
		if err := s.installmentRepo.MarkAllUnpaidPaid(ctx, settledAccount.AccountID, now); err != nil {
			logger.Error("Failed to settle installments after expense", slog.String("error", err.Error()), slog.String("account_id", settledAccount.AccountID))
		}
		if settledAccount.TotalAmount != nil {
			if err := s.accountRepo.SetAccountPaid(ctx, settledAccount.AccountID, true); err != nil {
				logger.Error("Failed to mark account paid after expense", slog.String("error", err.Error()), slog.String("account_id", settledAccount.AccountID))
			}
		}
	}
	return txn, nil
}

// CreateInstallmentPayment records the expense that settles one installment
// and flips its paid state. At most one payment may exist per installment.
func (s *TransactionService) CreateInstallmentPayment(ctx context.Context, installmentID, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeInstallmentNotFound, "installment %s not found", installmentID)
		}
		return nil, err
	}
	if installment.IsPaid {
		return nil, apperrors.New(apperrors.ErrConflict, apperrors.CodeInstallmentAlreadyPaid, "installment %s is already paid", installmentID)
	}

	count, err := s.transactionRepo.CountTransactionsByInstallment(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.New(apperrors.ErrDuplicate, apperrors.CodeInstallmentPaymentExists, "installment %s already has a payment transaction", installmentID)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     &installment.AccountID,
		InstallmentID: &installment.InstallmentID,
		Type:          domain.Expense,
		Category:      domain.CategoryInstallmentPayment,
		Description:   fmt.Sprintf("Pagamento da parcela %d", installment.Number),
		Value:         installment.Amount,
		Date:          now,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.installmentRepo.SetInstallmentPaid(ctx, installmentID, true, &now); err != nil {
		logger.Error("Failed to mark installment paid after payment", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
		return nil, err
	}

	s.settleAccountIfComplete(ctx, installment.AccountID)
	s.recalcPeriod(ctx, userID, now)

	logger.Info("Installment payment recorded", slog.String("installment_id", installmentID), slog.Int64("value", int64(txn.Value)))
	return &txn, nil
}

// CreateAccountPayment records the consolidated expense that settles a whole
// account. State flips are the caller's responsibility.
func (s *TransactionService) CreateAccountPayment(ctx context.Context, accountID, userID string, amount money.Cents) (*domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeAccountNotFound, "account %s not found", accountID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     &account.AccountID,
		Type:          domain.Expense,
		Category:      domain.CategoryAccountPayment,
		Description:   fmt.Sprintf("Pagamento da conta %s", account.Name),
		Value:         amount,
		Date:          now,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.recalcPeriod(ctx, userID, now)
	return &txn, nil
}

// DeleteTransaction removes a transaction and reverses the paid state it
// caused: the linked installment is reopened, and the linked account loses
// its settled state unless a fully paid schedule still covers it.
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.New(apperrors.ErrNotFound, apperrors.CodeTransactionNotFound, "transaction %s not found", transactionID)
		}
		return err
	}

	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}

	if txn.InstallmentID != nil {
		if err := s.installmentRepo.SetInstallmentPaid(ctx, *txn.InstallmentID, false, nil); err != nil {
			logger.Error("Failed to revert installment after transaction delete", slog.String("error", err.Error()), slog.String("installment_id", *txn.InstallmentID))
		}
	}
	if txn.AccountID != nil {
		s.revertAccountSettlement(ctx, *txn.AccountID)
	}

	s.recalcPeriod(ctx, txn.UserID, txn.Date)
	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// UserBalance computes the income/expense balance of one month together with
// the period's account totals.
func (s *TransactionService) UserBalance(ctx context.Context, userID string, month, year *int) (*domain.UserBalance, error) {
	now := time.Now().UTC()
	m, y := int(now.Month()), now.Year()
	if month != nil {
		m = *month
	}
	if year != nil {
		y = *year
	}
	start, end := schedule.MonthBounds(y, m)

	txns, err := s.transactionRepo.FindTransactionsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var income, expense, linked money.Cents
	for _, txn := range txns {
		switch txn.Type {
		case domain.Income:
			income += txn.Value
		case domain.Expense:
			expense += txn.Value
			if txn.AccountID != nil {
				linked += txn.Value
			}
		}
	}

	accounts, _, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountListFilter{
		UserID:         &userID,
		ReferenceMonth: &m,
		ReferenceYear:  &y,
	})
	if err != nil {
		return nil, err
	}

	var fixedTotal, loanTotal, accountsTotal money.Cents
	for i := range accounts {
		amount := monthlyObligation(&accounts[i])
		accountsTotal += amount
		switch accounts[i].Type {
		case domain.Fixed:
			fixedTotal += amount
		case domain.Loan:
			loanTotal += amount
		}
	}

	return &domain.UserBalance{
		Income:             income,
		Expense:            expense,
		LinkedExpenses:     linked,
		StandaloneExpenses: expense - linked,
		Balance:            income - expense,
		FixedAccountsTotal: fixedTotal,
		LoanAccountsTotal:  loanTotal,
		TotalAccounts:      accountsTotal,
		Period: domain.BalancePeriod{
			Year:           y,
			Month:          m,
			StartDate:      start.Format("2006-01-02"),
			EndDate:        end.Format("2006-01-02"),
			IsCurrentMonth: y == now.Year() && m == int(now.Month()),
		},
	}, nil
}

// ExpensesByCategory groups a period's expenses by the linked account's type
// or, for standalone expenses, the transaction category.
func (s *TransactionService) ExpensesByCategory(ctx context.Context, userID string, req dto.ExpensesByCategoryRequest) ([]domain.ExpenseCategory, error) {
	now := time.Now().UTC()
	m, y := int(now.Month()), now.Year()
	if req.Month != nil {
		m = *req.Month
	}
	if req.Year != nil {
		y = *req.Year
	}
	start, end := schedule.MonthBounds(y, m)

	txns, err := s.transactionRepo.FindTransactionsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		name   string
		source domain.ExpenseSource
		value  money.Cents
	}
	buckets := make(map[string]*bucket)
	accountTypes := make(map[string]domain.AccountType)
	var total money.Cents

	for _, txn := range txns {
		if txn.Type != domain.Expense {
			continue
		}
		total += txn.Value

		key := "OTHER"
		name := accountTypeLabels[domain.Other]
		source := domain.SourceTransaction

		if txn.AccountID != nil {
			accType, ok := accountTypes[*txn.AccountID]
			if !ok {
				account, err := s.accountRepo.FindAccountByID(ctx, *txn.AccountID)
				if err != nil {
					accType = domain.Other
				} else {
					accType = account.Type
				}
				accountTypes[*txn.AccountID] = accType
			}
			key = string(accType)
			name = accountTypeLabels[accType]
			source = domain.SourceAccount
		} else if txn.Category != "" {
			key = txn.Category
			name = txn.Category
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{name: name, source: source}
			buckets[key] = b
		}
		b.value += txn.Value
	}

	result := make([]domain.ExpenseCategory, 0, len(buckets))
	for key, b := range buckets {
		result = append(result, domain.ExpenseCategory{
			Category:   key,
			Name:       b.name,
			Value:      b.value,
			Percentage: money.Percentage(b.value, total).StringFixed(2),
			Source:     b.source,
		})
	}
	return result, nil
}

// createMovement validates the category and persists the transaction, then
// refreshes the affected month's summary.
func (s *TransactionService) createMovement(ctx context.Context, userID string, txnType domain.TransactionType, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Category != "" {
		if err := s.categories.ValidateCategoryExists(ctx, req.Category, txnType); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     req.AccountID,
		InstallmentID: req.InstallmentID,
		Type:          txnType,
		Category:      req.Category,
		Description:   req.Description,
		Value:         money.Cents(req.Value),
		Date:          req.ParsedDate(),
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.recalcPeriod(ctx, userID, txn.Date)
	return &txn, nil
}

// validateAccountPayment enforces full-coverage settlement: the payment must
// cover the unpaid installment total and, when the account declares one, its
// total amount. Both checks apply independently.
func (s *TransactionService) validateAccountPayment(ctx context.Context, accountID string, value money.Cents) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeAccountNotFound, "account %s not found", accountID)
		}
		return nil, err
	}
	if account.IsPaid {
		return nil, apperrors.New(apperrors.ErrConflict, apperrors.CodeAccountAlreadyPaid, "account %s is already paid", accountID)
	}

	unpaid, err := s.installmentRepo.FindUnpaidInstallmentsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var unpaidTotal money.Cents
	for _, ins := range unpaid {
		unpaidTotal += ins.Amount
	}
	if value < unpaidTotal {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeInsufficientPayment,
			"payment of %d cents does not cover the %d cents of unpaid installments", int64(value), int64(unpaidTotal))
	}
	if account.TotalAmount != nil && value < *account.TotalAmount {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeInsufficientPayment,
			"payment of %d cents does not cover the account total of %d cents", int64(value), int64(*account.TotalAmount))
	}
	return account, nil
}

// revertAccountSettlement clears a paid account's settled state when it has
// no installments, or when at least one installment remains unpaid. A fully
// paid schedule keeps the account settled. Best-effort.
func (s *TransactionService) revertAccountSettlement(ctx context.Context, accountID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		logger.Error("Failed to load account for settlement reversal", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return
	}
	if !account.IsPaid {
		return
	}

	installments, err := s.installmentRepo.FindInstallmentsByAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to load installments for settlement reversal", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return
	}
	if len(installments) > 0 {
		anyUnpaid := false
		for i := range installments {
			if !installments[i].IsPaid {
				anyUnpaid = true
				break
			}
		}
		if !anyUnpaid {
			return
		}
	}

	if err := s.accountRepo.SetAccountPaid(ctx, accountID, false); err != nil {
		logger.Error("Failed to revert account after transaction delete", slog.String("error", err.Error()), slog.String("account_id", accountID))
	}
}

// settleAccountIfComplete marks the account paid when no unpaid installments
// remain. Best-effort.
func (s *TransactionService) settleAccountIfComplete(ctx context.Context, accountID string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	unpaid, err := s.installmentRepo.FindUnpaidInstallmentsByAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check remaining installments", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return
	}
	if len(unpaid) == 0 {
		if err := s.accountRepo.SetAccountPaid(ctx, accountID, true); err != nil {
			logger.Error("Failed to mark account paid", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
	}
}

// recalcPeriod refreshes the summary of the month containing t. Best-effort.
func (s *TransactionService) recalcPeriod(ctx context.Context, userID string, t time.Time) {
	if _, err := s.summarySvc.Recalculate(ctx, userID, int(t.Month()), t.Year()); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Summary recalculation failed",
			slog.String("user_id", userID),
			slog.Int("month", int(t.Month())),
			slog.Int("year", t.Year()),
			slog.String("error", err.Error()),
		)
	}
}

func monthlyObligation(account *domain.Account) money.Cents {
	if account.InstallmentAmount != nil {
		return *account.InstallmentAmount
	}
	if account.TotalAmount != nil {
		return *account.TotalAmount
	}
	return 0
}
