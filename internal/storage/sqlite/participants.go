package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kassa/internal/models"
	"kassa/internal/storage"
)

const participantColumns = `
	p.id, p.first_name, p.last_name, p.phone, p.email, p.child_name,
	p.is_excluded, p.created_at, COALESCE(a.balance, 0)`

// CreateParticipant inserts the participant and their personal account in
// one transaction, keeping the 1:1 invariant from the first moment.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participants (id, first_name, last_name, phone, email, child_name, is_excluded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.Phone, p.Email, p.ChildName, p.IsExcluded, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO accounts (id, participant_id, balance) VALUES (?, ?, 0)",
		uuid.New().String(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to create personal account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant with their balance joined in.
func (s *SQLiteStore) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+participantColumns+`
		FROM participants p
		LEFT JOIN accounts a ON a.participant_id = p.id
		WHERE p.id = ?`, id,
	)
	return scanParticipant(row)
}

// GetParticipantByLogin resolves the parent login pair (phone + child name).
func (s *SQLiteStore) GetParticipantByLogin(ctx context.Context, phone, childName string) (*models.Participant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+participantColumns+`
		FROM participants p
		LEFT JOIN accounts a ON a.participant_id = p.id
		WHERE p.phone = ? AND p.child_name = ?`, phone, childName,
	)
	return scanParticipant(row)
}

// ListParticipants returns every participant with balance, ordered by last
// name then first name.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+participantColumns+`
		FROM participants p
		LEFT JOIN accounts a ON a.participant_id = p.id
		ORDER BY p.last_name, p.first_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		p := models.Participant{}
		if err := rows.Scan(
			&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.Email, &p.ChildName,
			&p.IsExcluded, &p.CreatedAt, &p.Balance.Cents,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// UpdateParticipant rewrites the identity fields and the exclusion flag.
// Toggling is_excluded affects only future distributions; active historical
// expenses keep their shares until cancelled and reapplied.
func (s *SQLiteStore) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE participants
		SET first_name = ?, last_name = ?, phone = ?, email = ?, child_name = ?, is_excluded = ?
		WHERE id = ?`,
		p.FirstName, p.LastName, p.Phone, p.Email, p.ChildName, p.IsExcluded, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check participant update: %w", err)
	}
	if n == 0 {
		return storage.ErrParticipantNotFound
	}
	return nil
}

// DeleteParticipant removes a participant; the personal account cascades.
// Refused while any ledger row still references the participant, either a
// contribution of theirs or an expense share. Those must be deleted first.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM transactions WHERE participant_id = ?)
		     + (SELECT COUNT(*) FROM expense_distributions WHERE participant_id = ?)`,
		id, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}
	if count > 0 {
		return storage.ErrParticipantHasTransactions
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check participant delete: %w", err)
	}
	if n == 0 {
		return storage.ErrParticipantNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit participant delete: %w", err)
	}
	return nil
}

func scanParticipant(row *sql.Row) (*models.Participant, error) {
	p := &models.Participant{}
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.Email, &p.ChildName,
		&p.IsExcluded, &p.CreatedAt, &p.Balance.Cents,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return p, nil
}
