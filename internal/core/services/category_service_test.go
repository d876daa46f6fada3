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

type CategoryServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCategoryRepository
	service  portssvc.CategorySvcFacade
	userID   string
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCategoryRepository)
	suite.service = services.NewCategoryService(suite.mockRepo)
	suite.userID = uuid.NewString()
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_Success() {
	ctx := context.Background()
	limit := decimal.RequireFromString("300")
	req := dto.CreateCategoryRequest{
		Name:        "Groceries",
		Type:        domain.CategoryExpense,
		BudgetLimit: &limit,
	}

	suite.mockRepo.On("SaveCategory", ctx, mock.AnythingOfType("domain.Category")).Return(nil).Once()

	created, err := suite.service.CreateCategory(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.NotEmpty(created.CategoryID)
	suite.Equal(suite.userID, created.UserID)
	suite.NotEmpty(created.Color, "server picks a color when none is given")
	suite.Require().NotNil(created.BudgetLimit)
	suite.True(created.BudgetLimit.Equal(limit))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_BudgetOnIncomeRejected() {
	ctx := context.Background()
	limit := decimal.RequireFromString("300")
	req := dto.CreateCategoryRequest{
		Name:        "Salary",
		Type:        domain.CategoryIncome,
		BudgetLimit: &limit,
	}

	_, err := suite.service.CreateCategory(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCategory")
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_NegativeBudgetRejected() {
	ctx := context.Background()
	limit := decimal.RequireFromString("-5")
	req := dto.CreateCategoryRequest{
		Name:        "Groceries",
		Type:        domain.CategoryExpense,
		BudgetLimit: &limit,
	}

	_, err := suite.service.CreateCategory(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_ZeroBudgetClearsLimit() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	oldLimit := decimal.RequireFromString("100")
	existing := &domain.Category{
		CategoryID:  categoryID,
		UserID:      suite.userID,
		Name:        "Groceries",
		Type:        domain.CategoryExpense,
		BudgetLimit: &oldLimit,
	}
	zero := decimal.Zero

	suite.mockRepo.On("FindCategoryByID", ctx, suite.userID, categoryID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(cat domain.Category) bool {
		return cat.BudgetLimit == nil
	})).Return(nil).Once()

	updated, err := suite.service.UpdateCategory(ctx, suite.userID, categoryID, dto.UpdateCategoryRequest{BudgetLimit: &zero})

	suite.Require().NoError(err)
	suite.Nil(updated.BudgetLimit)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_StillReferenced() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockRepo.On("DeleteCategory", ctx, suite.userID, categoryID).
		Return(fmt.Errorf("%w: category still has transactions", apperrors.ErrValidation)).Once()

	err := suite.service.DeleteCategory(ctx, suite.userID, categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
