package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/auth"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/service"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/storage"
)

// maxBodyBytes caps request bodies; no legitimate payload comes close.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP status codes. Anything
// unrecognized is an infrastructure failure surfaced as a 500 with the
// detail kept out of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotInvolved):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnknownUser),
		errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, service.ErrNothingOwed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("Request failed with internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
