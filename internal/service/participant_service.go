package service

import (
	"context"
	"log/slog"
	"time"

	"kassa/internal/models"
	"kassa/internal/storage"
)

// ParticipantService manages the group roster.
type ParticipantService struct {
	store storage.Store
}

// NewParticipantService creates a new ParticipantService with the given
// storage backend.
func NewParticipantService(store storage.Store) *ParticipantService {
	return &ParticipantService{store: store}
}

// Create registers a new participant; their personal account is created
// alongside.
func (s *ParticipantService) Create(ctx context.Context, p *models.Participant) (err error) {
	start := time.Now()
	defer func() { observe("create_participant", start, err) }()
	slog.Info("Create participant request", "first_name", p.FirstName, "last_name", p.LastName)

	if err = p.Validate(); err != nil {
		return err
	}

	if err = s.store.CreateParticipant(ctx, p); err != nil {
		slog.Error("Create participant failed", "error", err)
		return err
	}

	slog.Info("Participant created", "participant_id", p.ID)
	return nil
}

// Get retrieves one participant with their current balance.
func (s *ParticipantService) Get(ctx context.Context, id string) (*models.Participant, error) {
	p, err := s.store.GetParticipant(ctx, id)
	if err != nil {
		slog.Error("Get participant failed", "participant_id", id, "error", err)
		return nil, err
	}
	return p, nil
}

// List returns the full roster ordered by last name then first name.
func (s *ParticipantService) List(ctx context.Context) ([]models.Participant, error) {
	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		slog.Error("List participants failed", "error", err)
		return nil, err
	}
	return participants, nil
}

// Update rewrites a participant's identity fields and exclusion flag.
func (s *ParticipantService) Update(ctx context.Context, p *models.Participant) (err error) {
	start := time.Now()
	defer func() { observe("update_participant", start, err) }()
	slog.Info("Update participant request", "participant_id", p.ID)

	if err = p.Validate(); err != nil {
		return err
	}

	if err = s.store.UpdateParticipant(ctx, p); err != nil {
		slog.Error("Update participant failed", "participant_id", p.ID, "error", err)
		return err
	}

	slog.Info("Participant updated", "participant_id", p.ID)
	return nil
}

// Delete removes a participant without ledger history.
func (s *ParticipantService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe("delete_participant", start, err) }()
	slog.Info("Delete participant request", "participant_id", id)

	if err = s.store.DeleteParticipant(ctx, id); err != nil {
		slog.Error("Delete participant failed", "participant_id", id, "error", err)
		return err
	}

	slog.Info("Participant deleted", "participant_id", id)
	return nil
}
