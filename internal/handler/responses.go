package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
)

// ErrorResponse is the body of every error response
type ErrorResponse = rewardservice.ErrorResponse

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	// Headers are already sent, so encoding failures can only be logged
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response carrying a wire code
func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError logs a failed service call and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", op, "error", err)
	} else {
		log.Info(LogMsgServiceRejection, "operation", op, "status", status, "error", err)
	}
	respondError(w, status, msg, rewardservice.ErrorCode(err))
}

// mapServiceErrorToUserMessage maps domain errors to an HTTP status and a message.
// Client errors carry the error text; server errors carry a generic message.
func mapServiceErrorToUserMessage(err error) (int, string) {
	status := statusForError(err)
	switch {
	case status == http.StatusServiceUnavailable:
		return status, ErrMsgUnavailableError
	case status >= http.StatusInternalServerError:
		return status, ErrMsgGenericServerError
	case status == http.StatusTooManyRequests:
		return status, ErrMsgOnCooldownError
	}
	return status, err.Error()
}

func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrConfigConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSpinNotFound),
		errors.Is(err, domain.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrWheelInactive),
		errors.Is(err, domain.ErrNoActiveRewards),
		errors.Is(err, domain.ErrNoSpinsAvailable):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUserRequired),
		errors.Is(err, domain.ErrUnknownTrigger),
		errors.Is(err, domain.ErrNotClaimable):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrServiceUnavailable),
		errors.Is(err, domain.ErrConnectionTimeout),
		errors.Is(err, domain.ErrDatabaseError):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
