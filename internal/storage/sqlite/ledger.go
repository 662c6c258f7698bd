package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kassa/internal/calculator"
	"kassa/internal/models"
	"kassa/internal/storage"
)

// ledgerRow is the slice of a transaction the engine needs to mutate it.
type ledgerRow struct {
	ID        string
	Type      string
	Amount    int64
	AccountID sql.NullString
	Status    sql.NullString
}

func loadForUpdate(ctx context.Context, tx *sql.Tx, transactionID string) (*ledgerRow, error) {
	row := &ledgerRow{}
	err := tx.QueryRowContext(ctx,
		"SELECT id, type, amount, account_id, status FROM transactions WHERE id = ?",
		transactionID,
	).Scan(&row.ID, &row.Type, &row.Amount, &row.AccountID, &row.Status)
	if err == sql.ErrNoRows {
		return nil, storage.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return row, nil
}

func (r *ledgerRow) cancelled() bool {
	return r.Status.Valid && r.Status.String == models.StatusCancelled
}

// eligibleTargets queries the CURRENT non-excluded participant set in stable
// order. Expenses and reapplies both call this inside their transaction, so
// exclusion changes take effect from the next distribution onward and never
// rewrite already-active historical distributions.
func eligibleTargets(ctx context.Context, tx *sql.Tx) ([]calculator.Target, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT p.id, a.id
		FROM participants p
		JOIN accounts a ON a.participant_id = p.id
		WHERE p.is_excluded = 0
		ORDER BY p.last_name, p.first_name, p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible participants: %w", err)
	}
	defer rows.Close()

	var targets []calculator.Target
	for rows.Next() {
		var t calculator.Target
		if err := rows.Scan(&t.ParticipantID, &t.AccountID); err != nil {
			return nil, fmt.Errorf("failed to scan eligible participant: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate eligible participants: %w", err)
	}
	return targets, nil
}

// distribute splits amount across targets and debits each personal account,
// recording one distribution row per share.
func distribute(ctx context.Context, tx *sql.Tx, transactionID string, amount int64, targets []calculator.Target) error {
	shares, err := calculator.Distribute(amount, targets)
	if err != nil {
		return err
	}
	for _, share := range shares {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expense_distributions (transaction_id, participant_id, account_id, amount)
			VALUES (?, ?, ?, ?)`,
			transactionID, share.ParticipantID, share.AccountID, share.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert distribution: %w", err)
		}
		if err := debitAccount(ctx, tx, share.AccountID, share.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ApplyContribution credits a participant's personal account and the group
// account and records the contribution. Returns the new transaction ID.
func (s *SQLiteStore) ApplyContribution(ctx context.Context, participantID string, amount models.Money, description, createdBy string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	accountID, err := personalAccountID(ctx, tx, participantID)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount, description, participant_id, account_id, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, models.TypeContribution, amount.Cents, description, participantID, accountID, createdBy, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert contribution: %w", err)
	}

	if err := creditAccount(ctx, tx, accountID, amount.Cents); err != nil {
		return "", err
	}
	if err := creditAccount(ctx, tx, models.GroupAccountID, amount.Cents); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit contribution: %w", err)
	}
	return id, nil
}

// ApplyExpense debits the group account and splits the amount across the
// current non-excluded participants. Returns the new transaction ID.
func (s *SQLiteStore) ApplyExpense(ctx context.Context, amount models.Money, description, createdBy string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := accountBalance(ctx, tx, models.GroupAccountID)
	if err != nil {
		return "", err
	}
	if balance < amount.Cents {
		return "", storage.ErrInsufficientFunds
	}

	targets, err := eligibleTargets(ctx, tx)
	if err != nil {
		return "", err
	}
	if len(targets) == 0 {
		return "", storage.ErrNoEligibleParticipants
	}

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount, description, account_id, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, models.TypeExpense, amount.Cents, description, models.GroupAccountID, createdBy, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := distribute(ctx, tx, id, amount.Cents, targets); err != nil {
		return "", err
	}
	if err := debitAccount(ctx, tx, models.GroupAccountID, amount.Cents); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit expense: %w", err)
	}
	return id, nil
}

// Cancel reverses an active transaction's financial effect and marks it
// cancelled. The row and its distribution rows remain for later reapply.
func (s *SQLiteStore) Cancel(ctx context.Context, transactionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := loadForUpdate(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if t.cancelled() {
		return storage.ErrTransactionCancelled
	}

	switch t.Type {
	case models.TypeContribution:
		if !t.AccountID.Valid {
			return storage.ErrAccountNotFound
		}
		if err := debitAccount(ctx, tx, t.AccountID.String, t.Amount); err != nil {
			return err
		}
		if err := debitAccount(ctx, tx, models.GroupAccountID, t.Amount); err != nil {
			return err
		}

	case models.TypeExpense:
		// Refund every share that was actually debited, then the group.
		rows, err := tx.QueryContext(ctx,
			"SELECT account_id, amount FROM expense_distributions WHERE transaction_id = ?",
			transactionID,
		)
		if err != nil {
			return fmt.Errorf("failed to query distributions: %w", err)
		}
		type refund struct {
			accountID string
			amount    int64
		}
		var refunds []refund
		for rows.Next() {
			var r refund
			if err := rows.Scan(&r.accountID, &r.amount); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan distribution: %w", err)
			}
			refunds = append(refunds, r)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate distributions: %w", err)
		}
		for _, r := range refunds {
			if err := creditAccount(ctx, tx, r.accountID, r.amount); err != nil {
				return err
			}
		}
		if err := creditAccount(ctx, tx, models.GroupAccountID, t.Amount); err != nil {
			return err
		}

	default:
		return storage.ErrUnsupportedType
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE transactions SET status = ? WHERE id = ?",
		models.StatusCancelled, transactionID,
	); err != nil {
		return fmt.Errorf("failed to mark transaction cancelled: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancel: %w", err)
	}
	return nil
}

// Reapply re-asserts a cancelled transaction. A contribution re-credits its
// original account; an expense is redistributed across the current eligible
// participant set, not the one it was originally split over. Contributions
// are an individual's money, expenses are shared cost.
func (s *SQLiteStore) Reapply(ctx context.Context, transactionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := loadForUpdate(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if !t.cancelled() {
		return storage.ErrTransactionActive
	}

	switch t.Type {
	case models.TypeContribution:
		if !t.AccountID.Valid {
			return storage.ErrAccountNotFound
		}
		// The account may have been removed while the contribution was
		// cancelled; surface that instead of silently crediting nothing.
		var one int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM accounts WHERE id = ?", t.AccountID.String,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return storage.ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if err := creditAccount(ctx, tx, t.AccountID.String, t.Amount); err != nil {
			return err
		}
		if err := creditAccount(ctx, tx, models.GroupAccountID, t.Amount); err != nil {
			return err
		}

	case models.TypeExpense:
		targets, err := eligibleTargets(ctx, tx)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return storage.ErrNoEligibleParticipants
		}
		// Membership may have drifted; the old split is replaced wholesale.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM expense_distributions WHERE transaction_id = ?",
			transactionID,
		); err != nil {
			return fmt.Errorf("failed to delete old distributions: %w", err)
		}
		if err := distribute(ctx, tx, transactionID, t.Amount, targets); err != nil {
			return err
		}
		if err := debitAccount(ctx, tx, models.GroupAccountID, t.Amount); err != nil {
			return err
		}

	default:
		return storage.ErrUnsupportedType
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE transactions SET status = NULL WHERE id = ?", transactionID,
	); err != nil {
		return fmt.Errorf("failed to clear cancelled status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reapply: %w", err)
	}
	return nil
}

// DeleteTransaction hard-deletes a contribution, reversing its credit first
// if it is still active. Expenses can only be cancelled: their distributions
// fan out to many accounts, and undoing an old distribution after membership
// has drifted is not well-defined.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := loadForUpdate(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if t.Type != models.TypeContribution {
		return storage.ErrUnsupportedType
	}

	// A cancelled contribution was already reversed; only an active one
	// still affects balances.
	if !t.cancelled() {
		if !t.AccountID.Valid {
			return storage.ErrAccountNotFound
		}
		if err := debitAccount(ctx, tx, t.AccountID.String, t.Amount); err != nil {
			return err
		}
		if err := debitAccount(ctx, tx, models.GroupAccountID, t.Amount); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ?", transactionID,
	); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// UpdateTransaction rewrites description and amount of a cancelled
// transaction. Balances are untouched: the new amount only takes effect if
// the transaction is later reapplied.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, transactionID, description string, amount models.Money) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := loadForUpdate(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if !t.cancelled() {
		return storage.ErrTransactionActive
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE transactions SET description = ?, amount = ? WHERE id = ?",
		description, amount.Cents, transactionID,
	); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}
	return nil
}
