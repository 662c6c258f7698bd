package sqlite

import (
	"context"
	"errors"
	"testing"

	"kassa/internal/models"
	"kassa/internal/storage"
)

func TestFileLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := addParticipant(t, store, "Ivan", "Ivanov", false)
	if _, err := store.ApplyContribution(ctx, p.ID, money(10000), "monthly fee", "admin"); err != nil {
		t.Fatalf("ApplyContribution failed: %v", err)
	}
	expenseID, err := store.ApplyExpense(ctx, money(2000), "snacks", "admin")
	if err != nil {
		t.Fatalf("ApplyExpense failed: %v", err)
	}

	f := &models.TransactionFile{
		TransactionID: expenseID,
		FileName:      "receipt.jpg",
		FilePath:      "/uploads/abc123.jpg",
		Size:          2048,
		MimeType:      "image/jpeg",
	}
	if err := store.AddFile(ctx, f); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if f.ID == "" {
		t.Fatal("Expected file ID to be generated")
	}

	t.Run("get", func(t *testing.T) {
		got, err := store.GetFile(ctx, f.ID)
		if err != nil {
			t.Fatalf("GetFile failed: %v", err)
		}
		if got.FileName != "receipt.jpg" || got.FilePath != "/uploads/abc123.jpg" {
			t.Errorf("unexpected file: %+v", got)
		}
	})

	t.Run("list", func(t *testing.T) {
		files, err := store.ListFiles(ctx, expenseID)
		if err != nil {
			t.Fatalf("ListFiles failed: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("got %d files, want 1", len(files))
		}
	})

	t.Run("feed carries attachments", func(t *testing.T) {
		feed, err := store.ListTransactions(ctx, 50, 0)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		for _, tr := range feed {
			if tr.ID == expenseID {
				if len(tr.Files) != 1 || tr.Files[0].FileName != "receipt.jpg" {
					t.Errorf("expense files = %+v, want receipt.jpg", tr.Files)
				}
				return
			}
		}
		t.Fatal("expense not found in feed")
	})

	t.Run("delete returns metadata for disk cleanup", func(t *testing.T) {
		deleted, err := store.DeleteFile(ctx, f.ID)
		if err != nil {
			t.Fatalf("DeleteFile failed: %v", err)
		}
		if deleted.FilePath != "/uploads/abc123.jpg" {
			t.Errorf("path = %q, want /uploads/abc123.jpg", deleted.FilePath)
		}
		if _, err := store.GetFile(ctx, f.ID); !errors.Is(err, storage.ErrFileNotFound) {
			t.Errorf("error = %v, want ErrFileNotFound", err)
		}
	})
}

func TestAddFileUnknownTransaction(t *testing.T) {
	store := newTestStore(t)

	err := store.AddFile(context.Background(), &models.TransactionFile{
		TransactionID: "nonexistent",
		FileName:      "receipt.jpg",
		FilePath:      "/uploads/x.jpg",
	})
	if !errors.Is(err, storage.ErrTransactionNotFound) {
		t.Errorf("error = %v, want ErrTransactionNotFound", err)
	}
}

func TestFilesCascadeWithTransaction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := addParticipant(t, store, "Ivan", "Ivanov", false)
	id, err := store.ApplyContribution(ctx, p.ID, money(5000), "monthly fee", "admin")
	if err != nil {
		t.Fatalf("ApplyContribution failed: %v", err)
	}

	f := &models.TransactionFile{TransactionID: id, FileName: "slip.pdf", FilePath: "/uploads/slip.pdf"}
	if err := store.AddFile(ctx, f); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}

	if err := store.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := store.GetFile(ctx, f.ID); !errors.Is(err, storage.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}
