package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"order-management/internal/domain"
)

// errorBody is the wire shape for every non-2xx response.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string, fields map[string][]string) {
	writeJSON(w, code, errorBody{Message: message, Errors: fields})
}

// respondError translates domain errors into the API error taxonomy:
// validation and business-rule violations are 422, missing records 404,
// bad credentials 401, everything else 500.
func respondError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", ve.Fields)
		return
	}

	var se *domain.StateError
	if errors.As(err, &se) {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed",
			map[string][]string{"status": {se.Error()}})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found.", nil)
		return
	}

	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Authentication failed",
			map[string][]string{"email": {"The provided credentials are incorrect."}})
		return
	}

	writeError(w, http.StatusInternalServerError, "Internal server error", nil)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return false
	}
	return true
}

// idParam parses the {id} route parameter. Non-numeric ids behave like
// missing records.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Resource not found.", nil)
		return 0, false
	}
	return id, true
}
