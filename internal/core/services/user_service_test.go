package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/core/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  *services.UserService
	auth     *services.AuthService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.userRepo)
	suite.auth = services.NewAuthService(suite.userRepo, "test-secret", time.Hour, "fla-test")
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "Maria", Email: "maria@example.com", Password: "s3cret-pass"}

	suite.userRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.userRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email &&
			u.PasswordHash != req.Password &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) == nil
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(req.Email, user.Email)
	suite.NotEmpty(user.UserID)
	suite.userRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmailRejected() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "Maria", Email: "maria@example.com", Password: "s3cret-pass"}
	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email}

	suite.userRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	_, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	code, _ := apperrors.CodeOf(err)
	suite.Equal(apperrors.CodeEmailAlreadyExists, code)
	suite.userRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	password := "correct-horse"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "joao@example.com", PasswordHash: string(hash)}

	suite.userRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.auth.Login(ctx, dto.LoginRequest{Email: user.Email, Password: password})

	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Equal(user.UserID, resp.User.UserID)
	suite.True(resp.ExpiresAt.After(time.Now()))
}

func (suite *UserServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "joao@example.com", PasswordHash: string(hash)}

	suite.userRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err = suite.auth.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "wrong"})

	suite.Require().Error(err)
	code, _ := apperrors.CodeOf(err)
	suite.Equal(apperrors.CodeInvalidCredentials, code)
}

func (suite *UserServiceTestSuite) TestLogin_UnknownEmailSameError() {
	ctx := context.Background()

	suite.userRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.auth.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	suite.Require().Error(err)
	code, _ := apperrors.CodeOf(err)
	suite.Equal(apperrors.CodeInvalidCredentials, code)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
