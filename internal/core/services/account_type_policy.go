package services

import (
	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// generationKind selects the installment-generation strategy an account type
// uses.
type generationKind int

const (
	genNone generationKind = iota
	genFromTotal
	genFromAmount
)

// accountPlan is the validated, type-specific outcome of account input:
// the derived amounts plus the generation strategy to run.
type accountPlan struct {
	totalAmount       *money.Cents
	installmentAmount *money.Cents
	strategy          generationKind
}

// accountInput is the type-agnostic view of a create or update request.
type accountInput struct {
	totalAmount       *money.Cents
	installmentAmount *money.Cents
	installments      *int
}

// accountTypePolicy bundles the per-type validation and amount derivation.
// Each account type resolves to exactly one policy; this is the single
// dispatch point for type-specific behavior.
type accountTypePolicy interface {
	plan(in accountInput) (accountPlan, error)
}

// policyFor resolves the policy for an account type. Unknown types fall back
// to the generic policy.
func policyFor(t domain.AccountType) accountTypePolicy {
	switch t {
	case domain.Fixed:
		return fixedPolicy{}
	case domain.Loan:
		return loanPolicy{}
	case domain.CreditCard:
		return creditCardPolicy{}
	default:
		return genericPolicy{}
	}
}

// fixedPolicy: a fixed bill may be split into installments, in which case
// the per-installment amount is required and the total is derived from it.
type fixedPolicy struct{}

func (fixedPolicy) plan(in accountInput) (accountPlan, error) {
	if in.installments == nil {
		return accountPlan{totalAmount: in.totalAmount, installmentAmount: in.installmentAmount}, nil
	}
	if in.installmentAmount == nil {
		return accountPlan{}, apperrors.New(apperrors.ErrValidation, apperrors.CodeInstallmentAmountRequired,
			"fixed accounts with installments require installmentAmount")
	}
	total := *in.installmentAmount * money.Cents(*in.installments)
	return accountPlan{
		totalAmount:       &total,
		installmentAmount: in.installmentAmount,
		strategy:          genFromAmount,
	}, nil
}

// loanPolicy: a loan requires the principal, the installment count and the
// payment amount. The principal is kept as declared; the difference to the
// repaid total is the implied interest.
type loanPolicy struct{}

func (loanPolicy) plan(in accountInput) (accountPlan, error) {
	if in.totalAmount == nil || in.installments == nil || in.installmentAmount == nil {
		return accountPlan{}, apperrors.New(apperrors.ErrValidation, apperrors.CodeLoanFieldsRequired,
			"loan accounts require totalAmount, installments and installmentAmount")
	}
	return accountPlan{
		totalAmount:       in.totalAmount,
		installmentAmount: in.installmentAmount,
		strategy:          genFromAmount,
	}, nil
}

// creditCardPolicy: a card carries no mandatory amounts; a declared total
// with a count is split evenly across the statement months.
type creditCardPolicy struct{}

func (creditCardPolicy) plan(in accountInput) (accountPlan, error) {
	plan := accountPlan{totalAmount: in.totalAmount, installmentAmount: in.installmentAmount}
	if in.installments != nil && in.totalAmount != nil {
		plan.strategy = genFromTotal
	}
	return plan, nil
}

// genericPolicy covers the remaining types: split a declared total when a
// count is present, otherwise use the declared per-installment amount, else
// no schedule.
type genericPolicy struct{}

func (genericPolicy) plan(in accountInput) (accountPlan, error) {
	plan := accountPlan{totalAmount: in.totalAmount, installmentAmount: in.installmentAmount}
	if in.installments == nil {
		return plan, nil
	}
	switch {
	case in.totalAmount != nil:
		plan.strategy = genFromTotal
	case in.installmentAmount != nil:
		plan.strategy = genFromAmount
	}
	return plan, nil
}
