package feed

import (
	"encoding/json"
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionMessage is one externally-sourced transaction delivered on the
// feed queue. Source plus ExternalID identify it across redeliveries, so
// processing the same message twice is harmless.
type TransactionMessage struct {
	UserID      string                 `json:"userID"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Description string                 `json:"description,omitempty"`
	CategoryID  string                 `json:"categoryID,omitempty"`
	AccountID   string                 `json:"accountID,omitempty"`
	Date        *time.Time             `json:"date,omitempty"`
	Source      string                 `json:"source"`
	ExternalID  string                 `json:"externalID"`
	Timestamp   time.Time              `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON decodes a message from JSON bytes.
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
