package services

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/dto"
)

// UserSvcFacade defines user management operations.
type UserSvcFacade interface {
	// CreateUser registers a new user with a bcrypt-hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// DeleteUser soft-deletes a user.
	DeleteUser(ctx context.Context, userID string) error
}

// AuthSvcFacade verifies credentials and issues access tokens.
type AuthSvcFacade interface {
	// Login verifies the email/password pair and returns a signed JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
