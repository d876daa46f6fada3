package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/finly-app/finly_backend/internal/apperrors"
	"github.com/finly-app/finly_backend/internal/core/domain"
	portssvc "github.com/finly-app/finly_backend/internal/core/ports/services"
	"github.com/finly-app/finly_backend/internal/core/services"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	userID   string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Everyday Checking",
		AccountType: domain.BankAccount,
		IsDefault:   true,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(suite.userID, created.UserID)
	suite.Equal(req.Name, created.Name)
	suite.Equal(domain.BankAccount, created.AccountType)
	suite.True(created.IsDefault)
	suite.True(created.IsActive)
	suite.True(created.Balance.IsZero(), "opening balance defaults to zero")
	suite.Equal("USD", created.CurrencyCode, "currency defaults to USD")
	suite.NotEmpty(created.Color, "server picks a color when none is given")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningBalance() {
	ctx := context.Background()
	opening := decimal.RequireFromString("1250.75")
	req := dto.CreateAccountRequest{
		Name:        "Savings",
		AccountType: domain.BankAccount,
		Balance:     &opening,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Balance.Equal(opening)
	})).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.True(created.Balance.Equal(opening))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Weird", AccountType: "cryptovault"}

	created, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, suite.userID, accountID).
		Return(nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)).Once()

	account, err := suite.service.GetAccountByID(ctx, suite.userID, accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_EmptyIsNotNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListActiveAccounts", ctx, suite.userID).Return([]domain.Account(nil), nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RefusesDirectDefaultUnset() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID: accountID,
		UserID:    suite.userID,
		Name:      "Main",
		IsDefault: true,
		IsActive:  true,
	}
	notDefault := false

	suite.mockRepo.On("FindAccountByID", ctx, suite.userID, accountID).Return(existing, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.userID, accountID, dto.UpdateAccountRequest{IsDefault: &notDefault})

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RefusesDefaultOnInactiveAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID: accountID,
		UserID:    suite.userID,
		Name:      "Retired",
		IsDefault: false,
		IsActive:  false,
	}
	makeDefault := true

	suite.mockRepo.On("FindAccountByID", ctx, suite.userID, accountID).Return(existing, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.userID, accountID, dto.UpdateAccountRequest{IsDefault: &makeDefault})

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_PatchesOnlyProvidedFields() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:    accountID,
		UserID:       suite.userID,
		Name:         "Old Name",
		AccountType:  domain.Cash,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	newName := "New Name"

	suite.mockRepo.On("FindAccountByID", ctx, suite.userID, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Name == newName && acc.AccountType == domain.Cash && acc.CurrencyCode == "USD"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.userID, accountID, dto.UpdateAccountRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_RefusesDefault() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, UserID: suite.userID, IsDefault: true, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, suite.userID, accountID).Return(existing, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.userID, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount")
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_RefusesDefault() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, UserID: suite.userID, IsDefault: true, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, suite.userID, accountID).Return(existing, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.userID, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount")
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, UserID: suite.userID, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, suite.userID, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, suite.userID, accountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.userID, accountID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestTotalBalance() {
	ctx := context.Background()
	total := decimal.RequireFromString("3210.40")

	suite.mockRepo.On("SumActiveBalances", ctx, suite.userID).Return(total, nil).Once()

	got, err := suite.service.TotalBalance(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.True(got.Equal(total))
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
