package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrProvider indicates a failure in an external integration provider.
var ErrProvider = errors.New("provider error")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Machine-readable error codes surfaced to API clients.
const (
	CodeAccountNotFound              = "ACCOUNT_NOT_FOUND"
	CodeAccountAlreadyPaid           = "ACCOUNT_ALREADY_PAID"
	CodeInstallmentNotFound          = "INSTALLMENT_NOT_FOUND"
	CodeInstallmentAlreadyPaid       = "INSTALLMENT_ALREADY_PAID"
	CodeInstallmentDeletionForbidden = "INSTALLMENT_INDIVIDUAL_DELETION_NOT_ALLOWED"
	CodeTransactionNotFound          = "TRANSACTION_NOT_FOUND"
	CodeInstallmentPaymentExists     = "INSTALLMENT_PAYMENT_ALREADY_EXISTS"
	CodeInsufficientPayment          = "INSUFFICIENT_PAYMENT_AMOUNT"
	CodeLoanFieldsRequired           = "LOAN_FIELDS_REQUIRED"
	CodeInstallmentAmountRequired    = "INSTALLMENT_AMOUNT_REQUIRED"
	CodeUserNotFound                 = "USER_NOT_FOUND"
	CodeEmailAlreadyExists           = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials           = "INVALID_CREDENTIALS"
	CodeInvalidDateFormat            = "INVALID_DATE_FORMAT"
	CodeDuplicateCreditCardLink      = "CREDIT_CARD_LINK_ALREADY_EXISTS"
	CodeCreditCardLinkNotFound       = "CREDIT_CARD_LINK_NOT_FOUND"
	CodeNotACreditCard               = "NOT_A_CREDIT_CARD"
	CodeBreakdownRecalculation       = "CREDIT_CARD_INSTALLMENTS_RECALCULATION_ERROR"
	CodeProviderError                = "PROVIDER_ERROR"
)

// AppError carries a sentinel category together with a machine-readable code
// string for API clients. Use errors.Is against the sentinel to branch and
// CodeOf to extract the code at the HTTP edge.
type AppError struct {
	Code     string
	Message  string
	Sentinel error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the sentinel so errors.Is works across wrapping.
func (e *AppError) Unwrap() error {
	return e.Sentinel
}

// New builds an AppError with the given code and sentinel category.
func New(sentinel error, code, format string, args ...any) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Sentinel: sentinel,
	}
}

// CodeOf extracts the machine-readable code from err, if it carries one.
func CodeOf(err error) (string, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
