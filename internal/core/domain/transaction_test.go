package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceDelta(t *testing.T) {
	amount := decimal.RequireFromString("25.50")

	tests := []struct {
		name string
		txn  Transaction
		want string
	}{
		{"completed income adds", Transaction{AccountID: "a", Type: Income, Status: StatusCompleted, Amount: amount}, "25.50"},
		{"completed expense subtracts", Transaction{AccountID: "a", Type: Expense, Status: StatusCompleted, Amount: amount}, "-25.50"},
		{"incoming transfer leg adds", Transaction{AccountID: "a", Type: TransferIn, Status: StatusCompleted, Amount: amount}, "25.50"},
		{"outgoing transfer leg subtracts", Transaction{AccountID: "a", Type: TransferOut, Status: StatusCompleted, Amount: amount}, "-25.50"},
		{"pending has no effect", Transaction{AccountID: "a", Type: Expense, Status: StatusPending, Amount: amount}, "0"},
		{"canceled has no effect", Transaction{AccountID: "a", Type: Income, Status: StatusCanceled, Amount: amount}, "0"},
		{"no account has no effect", Transaction{Type: Expense, Status: StatusCompleted, Amount: amount}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			assert.True(t, tt.txn.BalanceDelta().Equal(want), "got %s, want %s", tt.txn.BalanceDelta(), want)
		})
	}
}

func TestIsTransfer(t *testing.T) {
	assert.True(t, TransferOut.IsTransfer())
	assert.True(t, TransferIn.IsTransfer())
	assert.False(t, Income.IsTransfer())
	assert.False(t, Expense.IsTransfer())
}
