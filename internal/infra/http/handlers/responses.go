package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arpitk/portfolio-backend/internal/entity"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeRepoError maps lead-store outcomes onto the response taxonomy:
// enum/range violations are the caller's fault, absence is 404, anything
// else is an unexpected storage failure.
func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		writeError(w, http.StatusNotFound, "Lead not found")
	case errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidPriority),
		errors.Is(err, entity.ErrScoreOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Storage operation failed")
	}
}
