package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/personas/internal/models"
	"github.com/mmynk/personas/internal/storage"
)

const transactionColumns = `id, type, COALESCE(event_id, ''), group_id, payer_id, COALESCE(payee_id, ''),
	amount, total_amount, COALESCE(note, ''), created_at`

// CreateTransaction persists a new transaction with participants and splits.
// The group must exist and a linked event must belong to the same group.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if err := models.ValidateTransaction(txn); err != nil {
		return err
	}
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireGroup(ctx, tx, txn.GroupID); err != nil {
		return err
	}
	if txn.EventID != "" {
		var eventGroup string
		err := tx.QueryRowContext(ctx, "SELECT group_id FROM events WHERE id = ?", txn.EventID).Scan(&eventGroup)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("event %s: %w", txn.EventID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check event: %w", err)
		}
		if eventGroup != txn.GroupID {
			return fmt.Errorf("event %s belongs to group %s, not %s: %w",
				txn.EventID, eventGroup, txn.GroupID, storage.ErrInvalidReference)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, type, event_id, group_id, payer_id, payee_id, amount, total_amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, string(txn.Type), nullString(txn.EventID), txn.GroupID, txn.PayerID, nullString(txn.PayeeID),
		txn.Amount, txn.TotalAmount, nullString(txn.Note), txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := insertIDs(ctx, tx, "transaction_participants", "transaction_id", "user_id", txn.ID, txn.Participants, 0); err != nil {
		return err
	}

	for i, split := range txn.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO splits (transaction_id, participant_id, paid, owed, net, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			txn.ID, split.ParticipantID, split.Paid, split.Owed, split.Net, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := scanTransaction(s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", txnID,
	), txn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", txnID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if err := s.loadTransactionDetails(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactionsByGroup retrieves a group's transactions in creation order.
func (s *SQLiteStore) ListTransactionsByGroup(ctx context.Context, groupID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE group_id = ? ORDER BY created_at, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by group: %w", err)
	}

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err := scanTransaction(rows, &txn); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	for i := range txns {
		if err := s.loadTransactionDetails(ctx, &txns[i]); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner, txn *models.Transaction) error {
	var typ string
	err := row.Scan(&txn.ID, &typ, &txn.EventID, &txn.GroupID, &txn.PayerID, &txn.PayeeID,
		&txn.Amount, &txn.TotalAmount, &txn.Note, &txn.CreatedAt)
	txn.Type = models.TransactionType(typ)
	return err
}

func (s *SQLiteStore) loadTransactionDetails(ctx context.Context, txn *models.Transaction) error {
	participants, err := listIDs(ctx, s.db, "transaction_participants", "transaction_id", "user_id", txn.ID)
	if err != nil {
		return err
	}
	txn.Participants = participants

	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, paid, owed, net FROM splits WHERE transaction_id = ? ORDER BY position",
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.ParticipantID, &split.Paid, &split.Owed, &split.Net); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		txn.Splits = append(txn.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
