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

// AddFile records attachment metadata for an existing transaction.
func (s *SQLiteStore) AddFile(ctx context.Context, f *models.TransactionFile) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM transactions WHERE id = ?", f.TransactionID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return storage.ErrTransactionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check transaction: %w", err)
	}

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt == 0 {
		f.CreatedAt = time.Now().Unix()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transaction_files (id, transaction_id, file_name, file_path, mime_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.TransactionID, f.FileName, f.FilePath, f.MimeType, f.Size, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

// GetFile retrieves attachment metadata by ID.
func (s *SQLiteStore) GetFile(ctx context.Context, id string) (*models.TransactionFile, error) {
	f := &models.TransactionFile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, transaction_id, file_name, file_path, mime_type, size, created_at
		FROM transaction_files WHERE id = ?`, id,
	).Scan(&f.ID, &f.TransactionID, &f.FileName, &f.FilePath, &f.MimeType, &f.Size, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

// ListFiles returns a transaction's attachment metadata, oldest first.
func (s *SQLiteStore) ListFiles(ctx context.Context, transactionID string) ([]models.TransactionFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, file_name, file_path, mime_type, size, created_at
		FROM transaction_files
		WHERE transaction_id = ?
		ORDER BY created_at, id`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []models.TransactionFile{}
	for rows.Next() {
		var f models.TransactionFile
		if err := rows.Scan(
			&f.ID, &f.TransactionID, &f.FileName, &f.FilePath, &f.MimeType, &f.Size, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}
	return files, nil
}

// DeleteFile removes the metadata row and returns it so the caller can
// remove the bytes on disk.
func (s *SQLiteStore) DeleteFile(ctx context.Context, id string) (*models.TransactionFile, error) {
	f, err := s.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM transaction_files WHERE id = ?", id,
	); err != nil {
		return nil, fmt.Errorf("failed to delete file: %w", err)
	}
	return f, nil
}
