package models

import (
	"errors"
	"fmt"
)

// TransactionType discriminates the three kinds of money movement.
type TransactionType string

const (
	// TransactionEvent is a flat per-head charge for an event fronted by a payer.
	TransactionEvent TransactionType = "event"
	// TransactionSplit is a bill with explicit per-participant splits.
	TransactionSplit TransactionType = "split"
	// TransactionP2P is a direct payment from one user to another.
	TransactionP2P TransactionType = "p2p"
)

var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrMissingGroup           = errors.New("group_id required")
	ErrMissingPayer           = errors.New("payer_id required")
	ErrMissingPayee           = errors.New("payee_id required for p2p transactions")
)

// Transaction represents money moving inside a group.
// Which fields are meaningful depends on Type:
//   - event: PayerID, Amount (flat per head), TotalAmount, Participants
//   - split: PayerID, TotalAmount, Participants, Splits
//   - p2p:   PayerID, PayeeID, TotalAmount, Note
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// Type selects the variant.
	Type TransactionType `json:"type"`

	// EventID optionally links the transaction to an event in the same group.
	EventID string `json:"eventId,omitempty"`

	// GroupID is the group that owns the transaction.
	GroupID string `json:"groupId"`

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64 `json:"createdAt,omitempty"`

	// PayerID is the user who paid.
	PayerID string `json:"payerId"`

	// PayeeID is the receiving user of a p2p payment.
	PayeeID string `json:"payeeId,omitempty"`

	// Amount is the flat per-head amount of an event transaction.
	Amount float64 `json:"amount,omitempty"`

	// TotalAmount is the full amount of the transaction.
	TotalAmount float64 `json:"totalAmount"`

	// Participants is the list of user IDs sharing the cost.
	Participants []string `json:"participants,omitempty"`

	// Splits holds the per-participant allocation of a split transaction.
	// Splits are expected to reconcile but readers must not rely on it.
	Splits []Split `json:"splits,omitempty"`

	// Note is free text attached to a p2p payment.
	Note string `json:"note,omitempty"`
}

// Split is one participant's share of a split transaction.
type Split struct {
	ParticipantID string  `json:"participantId"`
	Paid          float64 `json:"paid"`
	Owed          float64 `json:"owed"`
	Net           float64 `json:"net"` // Paid - Owed
}

// IsPayerFronted reports whether the payer fronted money for a group,
// which is the case for split and event transactions.
func (t *Transaction) IsPayerFronted() bool {
	return t.Type == TransactionSplit || t.Type == TransactionEvent
}

// SplitFor returns the split of userID, if any.
func (t *Transaction) SplitFor(userID string) (Split, bool) {
	for _, s := range t.Splits {
		if s.ParticipantID == userID {
			return s, true
		}
	}
	return Split{}, false
}

// ValidateTransaction checks the fields required to persist a transaction.
// Analysis code never calls this; it tolerates whatever the store returns.
func ValidateTransaction(t *Transaction) error {
	switch t.Type {
	case TransactionEvent, TransactionSplit, TransactionP2P:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, t.Type)
	}
	if t.GroupID == "" {
		return ErrMissingGroup
	}
	if t.PayerID == "" {
		return ErrMissingPayer
	}
	if t.Type == TransactionP2P && t.PayeeID == "" {
		return ErrMissingPayee
	}
	return nil
}
