package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kassa/internal/auth"
	"kassa/internal/middleware"
	"kassa/internal/models"
)

type participantRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	ChildName  string `json:"child_name"`
	IsExcluded bool   `json:"is_excluded"`
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.participants.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, participants)
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.canAccessParticipant(r, id) {
		writeError(w, errForbidden)
		return
	}

	p, err := s.participants.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.canAccessParticipant(r, id) {
		writeError(w, errForbidden)
		return
	}

	balance, err := s.ledger.Balance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]models.Money{"balance": balance})
}

func (s *Server) handleParticipantTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.canAccessParticipant(r, id) {
		writeError(w, errForbidden)
		return
	}

	transactions, err := s.ledger.ParticipantHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p := &models.Participant{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Email:      req.Email,
		ChildName:  req.ChildName,
		IsExcluded: req.IsExcluded,
	}
	if err := s.participants.Create(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p := &models.Participant{
		ID:         chi.URLParam(r, "id"),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Email:      req.Email,
		ChildName:  req.ChildName,
		IsExcluded: req.IsExcluded,
	}
	if err := s.participants.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.participants.Get(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.participants.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// canAccessParticipant allows admins everywhere and parents only their own
// records.
func (s *Server) canAccessParticipant(r *http.Request, participantID string) bool {
	ctx := r.Context()
	if middleware.GetRole(ctx) == auth.RoleAdmin {
		return true
	}
	return middleware.GetParticipantID(ctx) == participantID
}
