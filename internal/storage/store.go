// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"kassa/internal/models"
)

// Ledger failure kinds. Every mutating operation either commits in full or
// rolls back and surfaces one of these (or a wrapped driver error) verbatim.
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAccountNotFound     = errors.New("personal account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrFileNotFound        = errors.New("file not found")

	// ErrTransactionActive rejects operations that demand a cancelled
	// transaction (reapply, edit); ErrTransactionCancelled rejects a second
	// cancel.
	ErrTransactionActive    = errors.New("transaction is active")
	ErrTransactionCancelled = errors.New("transaction is already cancelled")

	// ErrUnsupportedType covers deleting an expense (distributions fan out
	// to many accounts, so an expense can only be cancelled) and operating
	// on an unknown transaction type.
	ErrUnsupportedType = errors.New("operation not supported for this transaction type")

	ErrInsufficientFunds      = errors.New("insufficient funds on the group account")
	ErrNoEligibleParticipants = errors.New("no eligible participants to distribute to")

	// ErrParticipantHasTransactions blocks deleting a participant whose
	// contributions are still in the log.
	ErrParticipantHasTransactions = errors.New("participant has recorded transactions")
)

// Ledger is the ledger engine: money movements for contributions and
// expenses, executed as single atomic units against the backing store.
type Ledger interface {
	// ApplyContribution credits a participant's personal account and the
	// group account and records an active contribution transaction.
	// Returns the new transaction ID.
	ApplyContribution(ctx context.Context, participantID string, amount models.Money, description, createdBy string) (string, error)

	// ApplyExpense debits the group account by amount, splits it across the
	// current non-excluded participants and records an active expense
	// transaction with its distribution rows.
	ApplyExpense(ctx context.Context, amount models.Money, description, createdBy string) (string, error)

	// Cancel reverses an active transaction's financial effect and marks it
	// cancelled. The transaction row and its distribution rows remain.
	Cancel(ctx context.Context, transactionID string) error

	// Reapply re-asserts a cancelled transaction. Contributions re-credit
	// their original account; expenses are redistributed across the current
	// eligible participant set.
	Reapply(ctx context.Context, transactionID string) error

	// DeleteTransaction hard-deletes a contribution, reversing its credit
	// first if it is still active. Expenses are rejected.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// UpdateTransaction rewrites description and amount of a cancelled
	// transaction. The new amount takes financial effect only on reapply.
	UpdateTransaction(ctx context.Context, transactionID, description string, amount models.Money) error

	// GetBalance returns a participant's personal account balance.
	GetBalance(ctx context.Context, participantID string) (models.Money, error)

	// GetStatistics aggregates the fund state over active transactions.
	GetStatistics(ctx context.Context) (*models.Statistics, error)

	// GetDistribution lists an expense's per-participant shares.
	GetDistribution(ctx context.Context, transactionID string) ([]models.ExpenseDistribution, error)

	// ListTransactions returns the global feed, newest first, with file
	// metadata attached.
	ListTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, error)

	// ListByParticipant returns a participant's own active contributions
	// plus the expense shares distributed to them, newest first.
	ListByParticipant(ctx context.Context, participantID string) ([]models.Transaction, error)
}

// Participants manages participant records and their personal accounts.
type Participants interface {
	// CreateParticipant inserts the participant and their personal account
	// atomically, populating ID and CreatedAt.
	CreateParticipant(ctx context.Context, p *models.Participant) error

	GetParticipant(ctx context.Context, id string) (*models.Participant, error)

	// GetParticipantByLogin resolves the parent login pair (phone + child
	// name).
	GetParticipantByLogin(ctx context.Context, phone, childName string) (*models.Participant, error)

	// ListParticipants returns all participants with balances, ordered by
	// last name then first name.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	UpdateParticipant(ctx context.Context, p *models.Participant) error

	// DeleteParticipant removes a participant and cascades their account.
	// Fails with ErrParticipantHasTransactions while contribution rows
	// reference them.
	DeleteParticipant(ctx context.Context, id string) error
}

// Files manages transaction attachment metadata.
type Files interface {
	AddFile(ctx context.Context, f *models.TransactionFile) error
	GetFile(ctx context.Context, id string) (*models.TransactionFile, error)
	ListFiles(ctx context.Context, transactionID string) ([]models.TransactionFile, error)
	DeleteFile(ctx context.Context, id string) (*models.TransactionFile, error)
}

// Store is the full persistence surface consumed by the service layer.
type Store interface {
	Ledger
	Participants
	Files

	// Close releases any resources held by the store.
	Close() error
}
