package dto

import (
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest defines the data needed to move funds between two of
// the user's own accounts.
type CreateTransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description   string          `json:"description"`
	Date          *time.Time      `json:"date"` // Defaults to now
}

// TransferResponse returns both legs of the created transfer.
type TransferResponse struct {
	TransferGroupID string                `json:"transferGroupID"`
	Legs            []TransactionResponse `json:"legs"`
}

// ToTransferResponse converts the two legs of a transfer group.
func ToTransferResponse(groupID string, legs []domain.Transaction) TransferResponse {
	return TransferResponse{
		TransferGroupID: groupID,
		Legs:            ToListTransactionResponse(legs),
	}
}
