package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"kassa/internal/models"
	"kassa/internal/storage"
	"kassa/internal/storage/sqlite"
)

func setupServices(t *testing.T) (*LedgerService, *ParticipantService) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewLedgerService(store), NewParticipantService(store)
}

func createParticipant(t *testing.T, participants *ParticipantService, firstName, lastName string) *models.Participant {
	t.Helper()

	p := &models.Participant{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     "+7-900-000-00-00",
		ChildName: firstName + " Jr",
	}
	if err := participants.Create(context.Background(), p); err != nil {
		t.Fatalf("Create participant failed: %v", err)
	}
	return p
}

func TestRecordContributionValidation(t *testing.T) {
	ledger, participants := setupServices(t)
	ctx := context.Background()
	p := createParticipant(t, participants, "Ivan", "Ivanov")

	tests := []struct {
		name        string
		amount      models.Money
		description string
		wantErr     error
	}{
		{"zero amount", models.Money{}, "monthly fee", models.ErrInvalidAmount},
		{"negative amount", models.Money{Cents: -100}, "monthly fee", models.ErrInvalidAmount},
		{"short description", models.Money{Cents: 100}, "ab", models.ErrInvalidDescription},
		{"blank description", models.Money{Cents: 100}, "   ", models.ErrInvalidDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.RecordContribution(ctx, p.ID, tt.amount, tt.description, "admin")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Validation failures must not touch the ledger.
	if got, err := ledger.Balance(ctx, p.ID); err != nil || got.Cents != 0 {
		t.Errorf("balance = %v (%v), want 0", got, err)
	}
}

func TestFullLedgerFlow(t *testing.T) {
	ledger, participants := setupServices(t)
	ctx := context.Background()

	p1 := createParticipant(t, participants, "Ivan", "Ivanov")
	p2 := createParticipant(t, participants, "Petr", "Petrov")

	contributionID, err := ledger.RecordContribution(ctx, p1.ID, models.Money{Cents: 10000}, "monthly fee", "admin")
	if err != nil {
		t.Fatalf("RecordContribution failed: %v", err)
	}
	expenseID, err := ledger.RecordExpense(ctx, models.Money{Cents: 6000}, "snacks for the group", "admin")
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	b1, err := ledger.Balance(ctx, p1.ID)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if b1.Cents != 7000 {
		t.Errorf("P1 balance = %d, want 7000", b1.Cents)
	}
	b2, err := ledger.Balance(ctx, p2.ID)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if b2.Cents != -3000 {
		t.Errorf("P2 balance = %d, want -3000", b2.Cents)
	}

	stats, err := ledger.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.GroupBalance.Cents != 4000 {
		t.Errorf("group balance = %d, want 4000", stats.GroupBalance.Cents)
	}

	dist, err := ledger.Distribution(ctx, expenseID)
	if err != nil {
		t.Fatalf("Distribution failed: %v", err)
	}
	if len(dist) != 2 {
		t.Errorf("got %d shares, want 2", len(dist))
	}

	feed, err := ledger.History(ctx, 50, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(feed) != 2 {
		t.Errorf("got %d feed rows, want 2", len(feed))
	}

	own, err := ledger.ParticipantHistory(ctx, p1.ID)
	if err != nil {
		t.Fatalf("ParticipantHistory failed: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("got %d rows for P1, want 2", len(own))
	}

	if err := ledger.Cancel(ctx, expenseID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := ledger.Cancel(ctx, contributionID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := ledger.Delete(ctx, contributionID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := ledger.Delete(ctx, expenseID); !errors.Is(err, storage.ErrUnsupportedType) {
		t.Errorf("deleting expense: error = %v, want ErrUnsupportedType", err)
	}
}

func TestUpdateRequiresCancelled(t *testing.T) {
	ledger, participants := setupServices(t)
	ctx := context.Background()
	p := createParticipant(t, participants, "Ivan", "Ivanov")

	id, err := ledger.RecordContribution(ctx, p.ID, models.Money{Cents: 5000}, "monthly fee", "admin")
	if err != nil {
		t.Fatalf("RecordContribution failed: %v", err)
	}

	err = ledger.Update(ctx, id, "corrected fee", models.Money{Cents: 6000})
	if !errors.Is(err, storage.ErrTransactionActive) {
		t.Fatalf("error = %v, want ErrTransactionActive", err)
	}

	if err := ledger.Cancel(ctx, id); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := ledger.Update(ctx, id, "corrected fee", models.Money{Cents: 6000}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func TestParticipantServiceValidation(t *testing.T) {
	_, participants := setupServices(t)
	ctx := context.Background()

	err := participants.Create(ctx, &models.Participant{FirstName: "A", LastName: "Ivanov"})
	if !errors.Is(err, models.ErrEmptyFirstName) {
		t.Errorf("short first name: error = %v, want ErrEmptyFirstName", err)
	}
	err = participants.Create(ctx, &models.Participant{FirstName: "Ivan", LastName: " "})
	if !errors.Is(err, models.ErrEmptyLastName) {
		t.Errorf("blank last name: error = %v, want ErrEmptyLastName", err)
	}

	if err := participants.Delete(ctx, "nonexistent"); !errors.Is(err, storage.ErrParticipantNotFound) {
		t.Errorf("delete missing: error = %v, want ErrParticipantNotFound", err)
	}
}
