package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finly-app/finly_backend/internal/apperrors"
	portssvc "github.com/finly-app/finly_backend/internal/core/ports/services"
	"github.com/finly-app/finly_backend/internal/dto"
)

// Consumer turns feed messages into imported transactions.
type Consumer struct {
	client *Client
	txnSvc portssvc.TransactionWriterSvc
}

// NewConsumer creates a consumer on top of an already-connected client.
func NewConsumer(client *Client, txnSvc portssvc.TransactionWriterSvc) *Consumer {
	return &Consumer{client: client, txnSvc: txnSvc}
}

// Run consumes feed messages until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.client.ConsumeTransactions(ctx, c.handle)
}

func (c *Consumer) handle(ctx context.Context, msg *TransactionMessage) error {
	if msg.UserID == "" {
		// Unroutable without an owner; dropping beats requeue-forever, so
		// report success after logging.
		slog.WarnContext(ctx, "Feed message missing user id",
			"source", msg.Source,
			"external_id", msg.ExternalID)
		return nil
	}

	req := dto.ImportTransactionRequest{
		Amount:      msg.Amount,
		Type:        msg.Type,
		Description: msg.Description,
		CategoryID:  msg.CategoryID,
		AccountID:   msg.AccountID,
		Date:        msg.Date,
		Source:      msg.Source,
		ExternalID:  msg.ExternalID,
	}

	_, err := c.txnSvc.ImportTransaction(ctx, msg.UserID, req)
	if err != nil {
		// Redelivery of an already-imported transaction is the normal
		// at-least-once case, not a failure.
		if errors.Is(err, apperrors.ErrDuplicate) {
			slog.DebugContext(ctx, "Feed transaction already imported",
				"source", msg.Source,
				"external_id", msg.ExternalID)
			return nil
		}
		// Validation failures never heal on requeue.
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			slog.WarnContext(ctx, "Dropping invalid feed transaction",
				"error", err,
				"source", msg.Source,
				"external_id", msg.ExternalID)
			return nil
		}
		return fmt.Errorf("import feed transaction: %w", err)
	}

	return nil
}
