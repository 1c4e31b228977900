package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body and validates its struct tags.
//
// If this function returns an error, the HTTP response has already been written and the
// handler should return.
//
//	var req domain.SpinContext
//	if err := DecodeAndValidateRequest(r, w, &req, OpRequestSpin); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	if err := decodeRequest(r, w, req, actionName); err != nil {
		return err
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Code:   rewardservice.CodeInvalidInput,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// decodeRequest decodes a JSON request body without struct validation
func decodeRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn(fmt.Sprintf(LogMsgDecodeFailed, actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest, rewardservice.CodeInvalidInput)
		return err
	}

	log.Debug(fmt.Sprintf(LogMsgRequestDecoded, actionName))
	return nil
}

// userIDFromRequest returns the acting user from the X-User-ID header.
// A missing header is left to the service, which reports it as ErrUserRequired.
func userIDFromRequest(r *http.Request, w http.ResponseWriter) (string, bool) {
	userID := r.Header.Get(rewardservice.HeaderUserID)
	if len(userID) > MaxUserIDLength {
		respondError(w, http.StatusBadRequest, ErrMsgUserIDTooLong, rewardservice.CodeInvalidInput)
		return "", false
	}
	return userID, true
}
