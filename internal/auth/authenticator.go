package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"kassa/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ParticipantStorage defines the lookup the authenticator needs for parent
// logins. This keeps it independent of the storage implementation.
type ParticipantStorage interface {
	GetParticipantByLogin(ctx context.Context, phone, childName string) (*models.Participant, error)
}

// Authenticator verifies both kinds of logins: the single admin account
// configured through the environment, and parents identified by their phone
// number plus child name.
type Authenticator struct {
	storage       ParticipantStorage
	adminLogin    string
	adminPassHash []byte
}

// NewAuthenticator creates an authenticator. The admin password is hashed
// once here so the plaintext is not kept around.
func NewAuthenticator(storage ParticipantStorage, adminLogin, adminPassword string) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &Authenticator{
		storage:       storage,
		adminLogin:    adminLogin,
		adminPassHash: hash,
	}, nil
}

// AuthenticateAdmin verifies the admin login and password.
func (a *Authenticator) AuthenticateAdmin(login, password string) error {
	if login != a.adminLogin {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.adminPassHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// AuthenticateParent resolves a parent by phone and child name.
func (a *Authenticator) AuthenticateParent(ctx context.Context, phone, childName string) (*models.Participant, error) {
	if phone == "" || childName == "" {
		return nil, ErrInvalidCredentials
	}
	p, err := a.storage.GetParticipantByLogin(ctx, phone, childName)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}
