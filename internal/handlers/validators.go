package handlers

import (
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// init registers custom binding validations on gin's shared validator so
// request DTOs can reference the closed account type set instead of
// duplicating it in oneof tags.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
			return domain.AccountType(fl.Field().String()).IsValid()
		})
	}
}
