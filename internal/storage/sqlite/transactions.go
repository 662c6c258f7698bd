package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"kassa/internal/models"
	"kassa/internal/storage"
)

// GetBalance returns a participant's personal account balance.
func (s *SQLiteStore) GetBalance(ctx context.Context, participantID string) (models.Money, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE participant_id = ?", participantID,
	).Scan(&cents)
	if err == sql.ErrNoRows {
		return models.Money{}, storage.ErrParticipantNotFound
	}
	if err != nil {
		return models.Money{}, fmt.Errorf("failed to get balance: %w", err)
	}
	return models.Money{Cents: cents}, nil
}

// GetStatistics aggregates the fund state. Only active transactions count;
// cancelled ones are financially inert until reapplied.
func (s *SQLiteStore) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT balance FROM accounts WHERE id = ?),
			(SELECT COUNT(*) FROM participants),
			(SELECT COUNT(*) FROM transactions WHERE type = 'contribution' AND status IS NULL),
			(SELECT COUNT(*) FROM transactions WHERE type = 'expense' AND status IS NULL),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = 'contribution' AND status IS NULL),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = 'expense' AND status IS NULL)`,
		models.GroupAccountID,
	).Scan(
		&stats.GroupBalance.Cents,
		&stats.TotalParticipants,
		&stats.TotalContributions,
		&stats.TotalExpenses,
		&stats.TotalContributed.Cents,
		&stats.TotalSpent.Cents,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return stats, nil
}

// GetDistribution lists an expense's per-participant shares with the
// participant names joined in, ordered by last name then first name.
func (s *SQLiteStore) GetDistribution(ctx context.Context, transactionID string) ([]models.ExpenseDistribution, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM transactions WHERE id = ?", transactionID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, storage.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check transaction: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ed.transaction_id, ed.participant_id, ed.account_id, ed.amount,
		       p.first_name, p.last_name, p.child_name
		FROM expense_distributions ed
		JOIN participants p ON p.id = ed.participant_id
		WHERE ed.transaction_id = ?
		ORDER BY p.last_name, p.first_name`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer rows.Close()

	distributions := []models.ExpenseDistribution{}
	for rows.Next() {
		var d models.ExpenseDistribution
		if err := rows.Scan(
			&d.TransactionID, &d.ParticipantID, &d.AccountID, &d.Amount.Cents,
			&d.FirstName, &d.LastName, &d.ChildName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		distributions = append(distributions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distribution: %w", err)
	}
	return distributions, nil
}

// ListTransactions returns the global feed, newest first, including
// cancelled rows (the feed is the audit surface) and file metadata.
func (s *SQLiteStore) ListTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.type, t.amount, t.description,
		       t.participant_id, t.account_id, t.created_by, t.created_at, t.status,
		       p.first_name, p.last_name, p.child_name
		FROM transactions t
		LEFT JOIN participants p ON p.id = t.participant_id
		ORDER BY t.created_at DESC, t.rowid DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	for i := range transactions {
		files, err := s.ListFiles(ctx, transactions[i].ID)
		if err != nil {
			return nil, err
		}
		transactions[i].Files = files
	}
	return transactions, nil
}

// ListByParticipant returns a participant's own view of the log: their
// active contributions plus the expense shares distributed to them.
// Cancelled rows are excluded; they do not affect the participant's balance.
func (s *SQLiteStore) ListByParticipant(ctx context.Context, participantID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.type, t.amount, t.description,
		       t.participant_id, t.account_id, t.created_by, t.created_at, t.status,
		       p.first_name, p.last_name, p.child_name,
		       COALESCE(ed.amount, 0)
		FROM transactions t
		LEFT JOIN participants p ON p.id = t.participant_id
		LEFT JOIN expense_distributions ed
		       ON ed.transaction_id = t.id AND ed.participant_id = ?
		WHERE t.status IS NULL
		  AND ((t.type = 'contribution' AND t.participant_id = ?)
		       OR (t.type = 'expense' AND ed.participant_id IS NOT NULL))
		ORDER BY t.created_at DESC, t.rowid DESC`,
		participantID, participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows, true)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	for i := range transactions {
		files, err := s.ListFiles(ctx, transactions[i].ID)
		if err != nil {
			return nil, err
		}
		transactions[i].Files = files
	}
	return transactions, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows, false)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(rows *sql.Rows, withShare bool) (*models.Transaction, error) {
	t := &models.Transaction{}
	var participantID, accountID, status sql.NullString
	var firstName, lastName, childName sql.NullString

	dest := []any{
		&t.ID, &t.Type, &t.Amount.Cents, &t.Description,
		&participantID, &accountID, &t.CreatedBy, &t.CreatedAt, &status,
		&firstName, &lastName, &childName,
	}
	if withShare {
		dest = append(dest, &t.ShareAmount.Cents)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	t.ParticipantID = participantID.String
	t.AccountID = accountID.String
	t.Status = status.String
	t.FirstName = firstName.String
	t.LastName = lastName.String
	t.ChildName = childName.String
	return t, nil
}
