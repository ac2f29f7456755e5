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
	"github.com/finledger/finance_ledger_app/internal/utils/money"
	"github.com/finledger/finance_ledger_app/internal/utils/schedule"
)

// InstallmentService materializes installment schedules and handles
// per-installment payment state.
type InstallmentService struct {
	installmentRepo portsrepo.InstallmentRepositoryWithTx
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionSvc  portssvc.TransactionWriterSvc
	summarySvc      portssvc.SummarySvcFacade
}

func NewInstallmentService(
	installmentRepo portsrepo.InstallmentRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	transactionSvc portssvc.TransactionWriterSvc,
	summarySvc portssvc.SummarySvcFacade,
) *InstallmentService {
	return &InstallmentService{
		installmentRepo: installmentRepo,
		accountRepo:     accountRepo,
		transactionSvc:  transactionSvc,
		summarySvc:      summarySvc,
	}
}

func (s *InstallmentService) GetInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeInstallmentNotFound, "installment %s not found", installmentID)
		}
		return nil, err
	}
	return installment, nil
}

func (s *InstallmentService) FindByAccount(ctx context.Context, accountID string, page dto.PageRequest) (*dto.InstallmentPageResponse, error) {
	installments, err := s.installmentRepo.FindInstallmentsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return paginateInstallments(installments, page), nil
}

func (s *InstallmentService) FindByAccountAll(ctx context.Context, accountID string) ([]domain.Installment, error) {
	return s.installmentRepo.FindInstallmentsByAccount(ctx, accountID)
}

func (s *InstallmentService) FindUnpaidByAccount(ctx context.Context, accountID string, page dto.PageRequest) (*dto.InstallmentPageResponse, error) {
	installments, err := s.installmentRepo.FindUnpaidInstallmentsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return paginateInstallments(installments, page), nil
}

func (s *InstallmentService) FindOverdue(ctx context.Context, accountID *string, page dto.PageRequest) (*dto.InstallmentPageResponse, error) {
	installments, err := s.installmentRepo.FindOverdueInstallments(ctx, accountID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return paginateInstallments(installments, page), nil
}

// GenerateFromTotal materializes the schedule by splitting a total evenly
// across the installments, the rounding remainder landing on the last one.
func (s *InstallmentService) GenerateFromTotal(ctx context.Context, input portssvc.GenerateInstallmentsInput) ([]domain.Installment, error) {
	amounts := money.SplitEvenly(input.Amount, input.Count)
	if amounts == nil {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeInstallmentAmountRequired, "installment count must be at least 1, got %d", input.Count)
	}
	return s.replaceSchedule(ctx, input, amounts)
}

// GenerateFromAmount materializes the schedule giving every installment
// exactly the declared amount.
func (s *InstallmentService) GenerateFromAmount(ctx context.Context, input portssvc.GenerateInstallmentsInput) ([]domain.Installment, error) {
	if input.Count < 1 {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeInstallmentAmountRequired, "installment count must be at least 1, got %d", input.Count)
	}
	amounts := make([]money.Cents, input.Count)
	for i := range amounts {
		amounts[i] = input.Amount
	}
	return s.replaceSchedule(ctx, input, amounts)
}

// MarkPaid settles one installment: records the linked expense, flips the
// paid state and refreshes the month's summary.
func (s *InstallmentService) MarkPaid(ctx context.Context, installmentID, userID string) (*dto.InstallmentPaymentResponse, error) {
	txn, err := s.transactionSvc.CreateInstallmentPayment(ctx, installmentID, userID)
	if err != nil {
		return nil, err
	}

	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	return &dto.InstallmentPaymentResponse{
		Installment: dto.ToInstallmentResponse(installment),
		Transaction: dto.ToTransactionResponse(txn),
	}, nil
}

// MarkUnpaid clears the paid state of one installment and reopens its
// account. No transaction side effects.
func (s *InstallmentService) MarkUnpaid(ctx context.Context, installmentID string) (*domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	installment, err := s.GetInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if !installment.IsPaid {
		return installment, nil
	}

	if err := s.installmentRepo.SetInstallmentPaid(ctx, installmentID, false, nil); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetAccountPaid(ctx, installment.AccountID, false); err != nil {
		logger.Error("Failed to reopen account after unpaying installment", slog.String("error", err.Error()), slog.String("account_id", installment.AccountID))
	}

	s.recalcInstallmentPeriod(ctx, installment)

	installment.IsPaid = false
	installment.PaidAt = nil
	return installment, nil
}

// MarkAllUnpaidPaid settles every unpaid installment of the account in one
// batch with a single timestamp.
func (s *InstallmentService) MarkAllUnpaidPaid(ctx context.Context, accountID string) error {
	return s.installmentRepo.MarkAllUnpaidPaid(ctx, accountID, time.Now().UTC())
}

// DeleteInstallment always fails: single installments are never removed,
// schedules are only replaced whole.
func (s *InstallmentService) DeleteInstallment(ctx context.Context, installmentID string) error {
	return apperrors.New(apperrors.ErrValidation, apperrors.CodeInstallmentDeletionForbidden,
		"installment %s cannot be deleted individually; regenerate the account schedule instead", installmentID)
}

// replaceSchedule builds the dated batch and swaps it in atomically.
func (s *InstallmentService) replaceSchedule(ctx context.Context, input portssvc.GenerateInstallmentsInput, amounts []money.Cents) ([]domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	base := schedule.Normalize(input.StartDate)
	now := time.Now().UTC()
	installments := make([]domain.Installment, len(amounts))
	for i, amount := range amounts {
		due, refMonth, refYear := schedule.StepDueDate(base, i+1, input.DueDay)
		installments[i] = domain.Installment{
			InstallmentID:  uuid.NewString(),
			AccountID:      input.AccountID,
			Number:         i + 1,
			DueDate:        due.Time(),
			Amount:         amount,
			ReferenceMonth: refMonth,
			ReferenceYear:  refYear,
			AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
	}

	if err := s.installmentRepo.ReplaceInstallments(ctx, input.AccountID, installments); err != nil {
		logger.Error("Failed to replace installment schedule", slog.String("error", err.Error()), slog.String("account_id", input.AccountID))
		return nil, err
	}

	logger.Info("Installment schedule materialized",
		slog.String("account_id", input.AccountID),
		slog.Int("count", len(installments)),
		slog.Int64("total", int64(money.Sum(amounts))),
	)
	return installments, nil
}

// recalcInstallmentPeriod refreshes the summary of the installment's billing
// period for the account owner. Best-effort.
func (s *InstallmentService) recalcInstallmentPeriod(ctx context.Context, installment *domain.Installment) {
	period := []domain.Period{{Month: installment.ReferenceMonth, Year: installment.ReferenceYear}}
	if err := s.summarySvc.RecalculateForAccount(ctx, installment.AccountID, period); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Summary recalculation failed",
			slog.String("account_id", installment.AccountID),
			slog.String("error", err.Error()),
		)
	}
}

func paginateInstallments(installments []domain.Installment, page dto.PageRequest) *dto.InstallmentPageResponse {
	page.Normalize()
	total := len(installments)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return &dto.InstallmentPageResponse{
		Docs:     dto.ToListInstallmentResponse(installments[start:end]),
		PageMeta: dto.NewPageMeta(total, page),
	}
}
