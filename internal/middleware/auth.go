package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"kassa/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// RoleKey is the context key for the authenticated session's role.
	RoleKey contextKey = "role"
	// ParticipantIDKey is the context key for the parent's participant ID.
	ParticipantIDKey contextKey = "participant_id"
)

// GetRole extracts the session role from the context.
// Returns empty string if not found.
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

// GetParticipantID extracts the parent's participant ID from the context.
// Returns empty string for admin sessions or if not found.
func GetParticipantID(ctx context.Context) string {
	id, _ := ctx.Value(ParticipantIDKey).(string)
	return id
}

// RequireAuth validates the Bearer token and adds the role and participant
// ID to the request context. Requests without a valid token get 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(jwtManager, r)
			if err != nil {
				unauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), RoleKey, claims.Role)
			ctx = context.WithValue(ctx, ParticipantIDKey, claims.ParticipantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin allows only admin sessions through. It must be mounted after
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRole(r.Context()) != auth.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromRequest(jwtManager *auth.JWTManager, r *http.Request) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}
	return jwtManager.Validate(parts[1])
}

func unauthorized(w http.ResponseWriter, err error) {
	writeAuthError(w, http.StatusUnauthorized, err.Error())
}

// writeAuthError mirrors the API's response envelope without importing the
// server package.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Success: false, Error: msg})
}
