package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"kassa/internal/storage"
)

// The account store: atomic increments on a named account, always executed
// inside the caller's transaction. The group account is just the row with
// id = models.GroupAccountID; there is no special-cased code path for it.

// creditAccount adjusts an account balance by cents, which may be negative.
func creditAccount(ctx context.Context, tx *sql.Tx, accountID string, cents int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE accounts SET balance = balance + ? WHERE id = ?",
		cents, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", accountID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check account update: %w", err)
	}
	if n == 0 {
		return storage.ErrAccountNotFound
	}
	return nil
}

// debitAccount subtracts cents from an account balance.
func debitAccount(ctx context.Context, tx *sql.Tx, accountID string, cents int64) error {
	return creditAccount(ctx, tx, accountID, -cents)
}

// accountBalance reads a point-in-time balance inside the transaction.
func accountBalance(ctx context.Context, tx *sql.Tx, accountID string) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE id = ?", accountID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, storage.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}
	return balance, nil
}

// personalAccountID resolves a participant's account inside the transaction.
func personalAccountID(ctx context.Context, tx *sql.Tx, participantID string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM accounts WHERE participant_id = ?", participantID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", storage.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve personal account: %w", err)
	}
	return id, nil
}
