package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kassa/internal/auth"
	"kassa/internal/middleware"
	"kassa/internal/models"
)

type contributionRequest struct {
	ParticipantID string       `json:"participant_id"`
	Amount        models.Money `json:"amount"`
	Description   string       `json:"description"`
}

type expenseRequest struct {
	Amount      models.Money `json:"amount"`
	Description string       `json:"description"`
}

type updateTransactionRequest struct {
	Amount      models.Money `json:"amount"`
	Description string       `json:"description"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	transactions, err := s.ledger.History(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, transactions)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ledger.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := s.ledger.Distribution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, dist)
}

// handleContribution records a contribution. Admins may record one for any
// participant; parents only for themselves.
func (s *Server) handleContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	createdBy := "admin"
	if middleware.GetRole(ctx) != auth.RoleAdmin {
		selfID := middleware.GetParticipantID(ctx)
		if req.ParticipantID != selfID {
			writeError(w, errForbidden)
			return
		}
		createdBy = selfID
	}

	id, err := s.ledger.RecordContribution(ctx, req.ParticipantID, req.Amount, req.Description, createdBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.ledger.RecordExpense(r.Context(), req.Amount, req.Description, "admin")
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleReapply(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reapply(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Metadata cascades with the transaction row; grab the paths first so
	// the bytes can be removed once the delete commits.
	files, _ := s.files.ListFiles(r.Context(), id)

	if err := s.ledger.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	for _, f := range files {
		removeFileBytes(f.FilePath)
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.ledger.Update(r.Context(), chi.URLParam(r, "id"), req.Description, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
