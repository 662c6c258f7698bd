package sqlite

import (
	"context"
	"errors"
	"testing"

	"kassa/internal/models"
	"kassa/internal/storage"
)

func TestParticipantCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &models.Participant{
		FirstName: "Ivan",
		LastName:  "Ivanov",
		Phone:     "+7-999-123-45-67",
		Email:     "ivanov@example.com",
		ChildName: "Masha",
	}
	if err := store.CreateParticipant(ctx, p); err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	if p.ID == "" {
		t.Fatal("Expected ID to be generated")
	}
	if p.CreatedAt == 0 {
		t.Error("Expected CreatedAt to be set")
	}

	t.Run("get", func(t *testing.T) {
		got, err := store.GetParticipant(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if got.FirstName != "Ivan" || got.LastName != "Ivanov" {
			t.Errorf("got %s %s, want Ivan Ivanov", got.FirstName, got.LastName)
		}
		if got.Balance.Cents != 0 {
			t.Errorf("new participant balance = %d, want 0", got.Balance.Cents)
		}
	})

	t.Run("get by login", func(t *testing.T) {
		got, err := store.GetParticipantByLogin(ctx, "+7-999-123-45-67", "Masha")
		if err != nil {
			t.Fatalf("GetParticipantByLogin failed: %v", err)
		}
		if got.ID != p.ID {
			t.Errorf("got %s, want %s", got.ID, p.ID)
		}

		if _, err := store.GetParticipantByLogin(ctx, "+7-999-123-45-67", "Wrong"); !errors.Is(err, storage.ErrParticipantNotFound) {
			t.Errorf("wrong child name: error = %v, want ErrParticipantNotFound", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		p.Email = "new@example.com"
		p.IsExcluded = true
		if err := store.UpdateParticipant(ctx, p); err != nil {
			t.Fatalf("UpdateParticipant failed: %v", err)
		}
		got, err := store.GetParticipant(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if got.Email != "new@example.com" || !got.IsExcluded {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.DeleteParticipant(ctx, p.ID); err != nil {
			t.Fatalf("DeleteParticipant failed: %v", err)
		}
		if _, err := store.GetParticipant(ctx, p.ID); !errors.Is(err, storage.ErrParticipantNotFound) {
			t.Errorf("error = %v, want ErrParticipantNotFound", err)
		}
	})
}

func TestParticipantNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetParticipant(ctx, "nonexistent"); !errors.Is(err, storage.ErrParticipantNotFound) {
		t.Errorf("Get: error = %v, want ErrParticipantNotFound", err)
	}
	if err := store.UpdateParticipant(ctx, &models.Participant{ID: "nonexistent", FirstName: "A", LastName: "B"}); !errors.Is(err, storage.ErrParticipantNotFound) {
		t.Errorf("Update: error = %v, want ErrParticipantNotFound", err)
	}
	if err := store.DeleteParticipant(ctx, "nonexistent"); !errors.Is(err, storage.ErrParticipantNotFound) {
		t.Errorf("Delete: error = %v, want ErrParticipantNotFound", err)
	}
	if _, err := store.GetBalance(ctx, "nonexistent"); !errors.Is(err, storage.ErrParticipantNotFound) {
		t.Errorf("GetBalance: error = %v, want ErrParticipantNotFound", err)
	}
}

func TestListParticipantsOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	addParticipant(t, store, "Petr", "Petrov", false)
	addParticipant(t, store, "Anna", "Sidorova", false)
	addParticipant(t, store, "Ivan", "Ivanov", false)

	list, err := store.ListParticipants(ctx)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d participants, want 3", len(list))
	}
	if list[0].LastName != "Ivanov" || list[1].LastName != "Petrov" || list[2].LastName != "Sidorova" {
		t.Errorf("unexpected order: %s, %s, %s", list[0].LastName, list[1].LastName, list[2].LastName)
	}
}

func TestDeleteParticipantWithHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := addParticipant(t, store, "Ivan", "Ivanov", false)

	id, err := store.ApplyContribution(ctx, p.ID, money(5000), "monthly fee", "admin")
	if err != nil {
		t.Fatalf("ApplyContribution failed: %v", err)
	}

	// A participant with ledger history cannot be removed, even after the
	// rows are cancelled.
	if err := store.DeleteParticipant(ctx, p.ID); !errors.Is(err, storage.ErrParticipantHasTransactions) {
		t.Errorf("error = %v, want ErrParticipantHasTransactions", err)
	}
	if err := store.Cancel(ctx, id); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := store.DeleteParticipant(ctx, p.ID); !errors.Is(err, storage.ErrParticipantHasTransactions) {
		t.Errorf("after cancel: error = %v, want ErrParticipantHasTransactions", err)
	}

	// Deleting the contribution row clears the way.
	if err := store.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if err := store.DeleteParticipant(ctx, p.ID); err != nil {
		t.Errorf("DeleteParticipant after history removal failed: %v", err)
	}
}
