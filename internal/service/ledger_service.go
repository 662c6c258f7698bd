package service

import (
	"context"
	"log/slog"
	"time"

	"kassa/internal/models"
	"kassa/internal/storage"
)

// LedgerService validates ledger requests and delegates to the store. All
// balance arithmetic lives below it, inside the store's transactions.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// RecordContribution credits a participant's personal account and the group
// account with the given amount.
func (s *LedgerService) RecordContribution(ctx context.Context, participantID string, amount models.Money, description, createdBy string) (id string, err error) {
	start := time.Now()
	defer func() { observe("record_contribution", start, err) }()
	slog.Info("RecordContribution request", "participant_id", participantID, "amount", amount)

	if err = amount.Validate(); err != nil {
		return "", err
	}
	if err = models.ValidateDescription(description); err != nil {
		return "", err
	}

	id, err = s.store.ApplyContribution(ctx, participantID, amount, description, createdBy)
	if err != nil {
		slog.Error("RecordContribution failed", "participant_id", participantID, "error", err)
		return "", err
	}

	slog.Info("Contribution recorded", "transaction_id", id, "participant_id", participantID, "amount", amount)
	return id, nil
}

// RecordExpense debits the group account and splits the amount equally over
// every non-excluded participant.
func (s *LedgerService) RecordExpense(ctx context.Context, amount models.Money, description, createdBy string) (id string, err error) {
	start := time.Now()
	defer func() { observe("record_expense", start, err) }()
	slog.Info("RecordExpense request", "amount", amount)

	if err = amount.Validate(); err != nil {
		return "", err
	}
	if err = models.ValidateDescription(description); err != nil {
		return "", err
	}

	id, err = s.store.ApplyExpense(ctx, amount, description, createdBy)
	if err != nil {
		slog.Error("RecordExpense failed", "amount", amount, "error", err)
		return "", err
	}

	slog.Info("Expense recorded", "transaction_id", id, "amount", amount)
	return id, nil
}

// Cancel reverses an active transaction's financial effect and marks it
// cancelled. The row stays in the history.
func (s *LedgerService) Cancel(ctx context.Context, transactionID string) (err error) {
	start := time.Now()
	defer func() { observe("cancel", start, err) }()
	slog.Info("Cancel request", "transaction_id", transactionID)

	if err = s.store.Cancel(ctx, transactionID); err != nil {
		slog.Error("Cancel failed", "transaction_id", transactionID, "error", err)
		return err
	}

	slog.Info("Transaction cancelled", "transaction_id", transactionID)
	return nil
}

// Reapply re-asserts a cancelled transaction. Expenses are redistributed
// over the participants eligible at reapply time.
func (s *LedgerService) Reapply(ctx context.Context, transactionID string) (err error) {
	start := time.Now()
	defer func() { observe("reapply", start, err) }()
	slog.Info("Reapply request", "transaction_id", transactionID)

	if err = s.store.Reapply(ctx, transactionID); err != nil {
		slog.Error("Reapply failed", "transaction_id", transactionID, "error", err)
		return err
	}

	slog.Info("Transaction reapplied", "transaction_id", transactionID)
	return nil
}

// Delete removes a contribution from the history entirely, reversing its
// effect first if it is still active. Expenses cannot be deleted.
func (s *LedgerService) Delete(ctx context.Context, transactionID string) (err error) {
	start := time.Now()
	defer func() { observe("delete", start, err) }()
	slog.Info("Delete request", "transaction_id", transactionID)

	if err = s.store.DeleteTransaction(ctx, transactionID); err != nil {
		slog.Error("Delete failed", "transaction_id", transactionID, "error", err)
		return err
	}

	slog.Info("Transaction deleted", "transaction_id", transactionID)
	return nil
}

// Update edits the description and amount of a cancelled transaction.
func (s *LedgerService) Update(ctx context.Context, transactionID, description string, amount models.Money) (err error) {
	start := time.Now()
	defer func() { observe("update", start, err) }()
	slog.Info("Update request", "transaction_id", transactionID, "amount", amount)

	if err = amount.Validate(); err != nil {
		return err
	}
	if err = models.ValidateDescription(description); err != nil {
		return err
	}

	if err = s.store.UpdateTransaction(ctx, transactionID, description, amount); err != nil {
		slog.Error("Update failed", "transaction_id", transactionID, "error", err)
		return err
	}

	slog.Info("Transaction updated", "transaction_id", transactionID)
	return nil
}

// Balance returns a participant's current personal balance.
func (s *LedgerService) Balance(ctx context.Context, participantID string) (models.Money, error) {
	balance, err := s.store.GetBalance(ctx, participantID)
	if err != nil {
		slog.Error("Balance failed", "participant_id", participantID, "error", err)
		return models.Money{}, err
	}
	return balance, nil
}

// Statistics returns the group-wide aggregate view.
func (s *LedgerService) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats, err := s.store.GetStatistics(ctx)
	if err != nil {
		slog.Error("Statistics failed", "error", err)
		return nil, err
	}
	return stats, nil
}

// Distribution returns the per-participant share breakdown of an expense.
func (s *LedgerService) Distribution(ctx context.Context, transactionID string) ([]models.ExpenseDistribution, error) {
	dist, err := s.store.GetDistribution(ctx, transactionID)
	if err != nil {
		slog.Error("Distribution failed", "transaction_id", transactionID, "error", err)
		return nil, err
	}
	return dist, nil
}

// History returns the global transaction feed, newest first.
func (s *LedgerService) History(ctx context.Context, limit, offset int) ([]models.Transaction, error) {
	feed, err := s.store.ListTransactions(ctx, limit, offset)
	if err != nil {
		slog.Error("History failed", "error", err)
		return nil, err
	}
	return feed, nil
}

// ParticipantHistory returns the active transactions visible to one
// participant: their own contributions plus their expense shares.
func (s *LedgerService) ParticipantHistory(ctx context.Context, participantID string) ([]models.Transaction, error) {
	feed, err := s.store.ListByParticipant(ctx, participantID)
	if err != nil {
		slog.Error("ParticipantHistory failed", "participant_id", participantID, "error", err)
		return nil, err
	}
	return feed, nil
}
