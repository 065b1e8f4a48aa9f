package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/export"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/processor"
	"github.com/mauv0809/kendo-tally/internal/recorder"
)

var errBadRequest = errors.New("bad request")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, kendo.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, export.ErrInvalidSnapshot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, recorder.ErrInvalidInput),
		errors.Is(err, kendo.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrDuplicateID),
		errors.Is(err, processor.ErrNoSession),
		errors.Is(err, processor.ErrSessionActive),
		errors.Is(err, processor.ErrWrongSession),
		errors.Is(err, recorder.ErrThresholdReached),
		errors.Is(err, recorder.ErrEntryInProgress),
		errors.Is(err, recorder.ErrNoPendingEntry),
		errors.Is(err, recorder.ErrNotAwaitingTechnique),
		errors.Is(err, recorder.ErrNothingToUndo),
		errors.Is(err, recorder.ErrTeamMatchComplete),
		errors.Is(err, recorder.ErrTeamMatchIncomplete):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Debug("Request rejected", "error", err, "status", status)
	}
	respondWithJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
