package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/domain"
)

// decodeAndValidate reads the JSON body into v and validates it. On failure
// it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		if err != shared.ErrEmptyBody {
			err = fmt.Errorf("%w: %v", errInvalidJSON, err)
		}
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// decodeOptional behaves like decodeAndValidate but accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := shared.DecodeJSON(r, v); err != nil {
		if err == shared.ErrEmptyBody {
			return true
		}
		HandleAPIError(w, r, fmt.Errorf("%w: %v", errInvalidJSON, err), "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// pathID extracts a non-empty path parameter, writing a 400 when it is missing.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		HandleAPIError(w, r, fmt.Errorf("%w: %s is required", domain.ErrValidation, name), "")
		return "", false
	}
	return id, true
}

// queryTime parses the optional "date" query parameter as RFC 3339 or as a
// calendar date (YYYY-MM-DD, taken at noon UTC). It returns now when absent.
func queryTime(r *http.Request, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be RFC 3339 or YYYY-MM-DD", domain.ErrValidation)
	}
	return d.Add(12 * time.Hour), nil
}
