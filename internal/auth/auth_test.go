package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"kassa/internal/models"
	"kassa/internal/storage"
)

type fakeParticipantStorage struct {
	participant *models.Participant
}

func (f *fakeParticipantStorage) GetParticipantByLogin(ctx context.Context, phone, childName string) (*models.Participant, error) {
	if f.participant != nil && f.participant.Phone == phone && f.participant.ChildName == childName {
		return f.participant, nil
	}
	return nil, storage.ErrParticipantNotFound
}

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret-key-for-testing-only", time.Hour)

	token, err := manager.Generate(RoleParent, "participant-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Role != RoleParent {
		t.Errorf("role = %q, want %q", claims.Role, RoleParent)
	}
	if claims.ParticipantID != "participant-1" {
		t.Errorf("participant_id = %q, want participant-1", claims.ParticipantID)
	}
}

func TestJWTRejectsTampering(t *testing.T) {
	manager := NewJWTManager("test-secret-key-for-testing-only", time.Hour)
	other := NewJWTManager("a-different-secret-entirely", time.Hour)

	token, err := manager.Generate(RoleAdmin, "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong key: error = %v, want ErrInvalidToken", err)
	}
	if _, err := manager.Validate(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("mangled token: error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTExpiry(t *testing.T) {
	manager := NewJWTManager("test-secret-key-for-testing-only", -time.Minute)

	token, err := manager.Generate(RoleAdmin, "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	a, err := NewAuthenticator(&fakeParticipantStorage{}, "admin", "s3cret-password")
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}

	if err := a.AuthenticateAdmin("admin", "s3cret-password"); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
	if err := a.AuthenticateAdmin("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if err := a.AuthenticateAdmin("root", "s3cret-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong login: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateParent(t *testing.T) {
	p := &models.Participant{ID: "p1", Phone: "+7-999-111-22-33", ChildName: "Masha"}
	a, err := NewAuthenticator(&fakeParticipantStorage{participant: p}, "admin", "s3cret-password")
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	ctx := context.Background()

	got, err := a.AuthenticateParent(ctx, "+7-999-111-22-33", "Masha")
	if err != nil {
		t.Fatalf("AuthenticateParent failed: %v", err)
	}
	if got.ID != "p1" {
		t.Errorf("participant = %q, want p1", got.ID)
	}

	if _, err := a.AuthenticateParent(ctx, "+7-999-111-22-33", "Wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong child name: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := a.AuthenticateParent(ctx, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty credentials: error = %v, want ErrInvalidCredentials", err)
	}
}
