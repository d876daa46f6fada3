package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/finly-app/finly_backend/internal/apperrors"
	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTransactionWriter struct {
	mock.Mock
}

func (m *mockTransactionWriter) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockTransactionWriter) ImportTransaction(ctx context.Context, userID string, req dto.ImportTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockTransactionWriter) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockTransactionWriter) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	args := m.Called(ctx, userID, transactionID)
	return args.Error(0)
}

func feedMessage(userID string) *TransactionMessage {
	return &TransactionMessage{
		UserID:     userID,
		Amount:     decimal.RequireFromString("19.99"),
		Type:       domain.Expense,
		Source:     "bank_feed",
		ExternalID: "feed-001",
	}
}

func TestConsumerHandleImportsTransaction(t *testing.T) {
	ctx := context.Background()
	svc := new(mockTransactionWriter)
	consumer := NewConsumer(nil, svc)

	msg := feedMessage("user-1")
	svc.On("ImportTransaction", ctx, "user-1", mock.MatchedBy(func(req dto.ImportTransactionRequest) bool {
		return req.ExternalID == "feed-001" && req.Source == "bank_feed"
	})).Return(&domain.Transaction{TransactionID: "t1"}, nil).Once()

	err := consumer.handle(ctx, msg)
	assert.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestConsumerHandleTreatsDuplicateAsSuccess(t *testing.T) {
	ctx := context.Background()
	svc := new(mockTransactionWriter)
	consumer := NewConsumer(nil, svc)

	svc.On("ImportTransaction", ctx, "user-1", mock.Anything).
		Return(nil, fmt.Errorf("%w: external id", apperrors.ErrDuplicate)).Once()

	err := consumer.handle(ctx, feedMessage("user-1"))
	assert.NoError(t, err, "redelivery of an imported transaction must ack, not requeue")
}

func TestConsumerHandleDropsInvalidMessage(t *testing.T) {
	ctx := context.Background()
	svc := new(mockTransactionWriter)
	consumer := NewConsumer(nil, svc)

	svc.On("ImportTransaction", ctx, "user-1", mock.Anything).
		Return(nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)).Once()

	err := consumer.handle(ctx, feedMessage("user-1"))
	assert.NoError(t, err, "validation failures never heal on requeue")
}

func TestConsumerHandleRequeuesTransientError(t *testing.T) {
	ctx := context.Background()
	svc := new(mockTransactionWriter)
	consumer := NewConsumer(nil, svc)

	svc.On("ImportTransaction", ctx, "user-1", mock.Anything).
		Return(nil, fmt.Errorf("connection refused")).Once()

	err := consumer.handle(ctx, feedMessage("user-1"))
	assert.Error(t, err)
}

func TestConsumerHandleSkipsMissingUserID(t *testing.T) {
	ctx := context.Background()
	svc := new(mockTransactionWriter)
	consumer := NewConsumer(nil, svc)

	err := consumer.handle(ctx, feedMessage(""))
	assert.NoError(t, err)
	svc.AssertNotCalled(t, "ImportTransaction")
}

func TestTransactionMessageRoundTrip(t *testing.T) {
	msg := feedMessage("user-9")
	raw, err := msg.ToJSON()
	assert.NoError(t, err)

	decoded, err := TransactionMessageFromJSON(raw)
	assert.NoError(t, err)
	assert.Equal(t, msg.UserID, decoded.UserID)
	assert.Equal(t, msg.ExternalID, decoded.ExternalID)
	assert.True(t, msg.Amount.Equal(decoded.Amount))
}
