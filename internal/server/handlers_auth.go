package server

import (
	"log/slog"
	"net/http"

	"kassa/internal/auth"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token         string `json:"token"`
	Role          string `json:"role"`
	ParticipantID string `json:"participant_id,omitempty"`
}

// handleLogin authenticates either the admin (login + password) or a parent
// (phone number as login, child name as password) and returns a JWT.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.authenticator.AuthenticateAdmin(req.Login, req.Password); err == nil {
		token, err := s.jwtManager.Generate(auth.RoleAdmin, "")
		if err != nil {
			slog.Error("Failed to generate admin token", "error", err)
			writeError(w, err)
			return
		}
		slog.Info("Admin logged in")
		writeData(w, http.StatusOK, loginResponse{Token: token, Role: auth.RoleAdmin})
		return
	}

	p, err := s.authenticator.AuthenticateParent(r.Context(), req.Login, req.Password)
	if err != nil {
		slog.Warn("Login failed", "login", req.Login)
		writeError(w, auth.ErrInvalidCredentials)
		return
	}

	token, err := s.jwtManager.Generate(auth.RoleParent, p.ID)
	if err != nil {
		slog.Error("Failed to generate parent token", "participant_id", p.ID, "error", err)
		writeError(w, err)
		return
	}

	slog.Info("Parent logged in", "participant_id", p.ID)
	writeData(w, http.StatusOK, loginResponse{Token: token, Role: auth.RoleParent, ParticipantID: p.ID})
}
