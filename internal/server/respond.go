package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kassa/internal/auth"
	"kassa/internal/models"
	"kassa/internal/storage"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response{Success: true, Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	if encErr := json.NewEncoder(w).Encode(response{Success: false, Error: err.Error()}); encErr != nil {
		slog.Error("Failed to encode error response", "error", encErr)
	}
}

// statusFor maps domain errors onto HTTP status codes. Unknown errors are
// treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrParticipantNotFound),
		errors.Is(err, storage.ErrTransactionNotFound),
		errors.Is(err, storage.ErrFileNotFound),
		errors.Is(err, storage.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrTransactionActive),
		errors.Is(err, storage.ErrTransactionCancelled),
		errors.Is(err, storage.ErrParticipantHasTransactions):
		return http.StatusConflict
	case errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrInsufficientFunds),
		errors.Is(err, storage.ErrNoEligibleParticipants),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidDescription),
		errors.Is(err, models.ErrEmptyFirstName),
		errors.Is(err, models.ErrEmptyLastName),
		errors.Is(err, models.ErrEmptyChildName),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

var (
	errBadRequest = errors.New("invalid request body")
	errForbidden  = errors.New("access denied")
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}
