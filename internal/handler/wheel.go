package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
)

// URLParamSpinID is the chi route parameter holding the spin id
const URLParamSpinID = "spinID"

// WheelHandler serves the authority API over any rewardservice.Service
type WheelHandler struct {
	service rewardservice.Service
}

// NewWheelHandler creates a new WheelHandler
func NewWheelHandler(service rewardservice.Service) *WheelHandler {
	return &WheelHandler{service: service}
}

// HandleGetConfig returns the stored wheel configuration
func (h *WheelHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetConfig(r.Context())
	if err != nil {
		respondServiceError(w, r, OpGetConfig, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// HandleUpdateConfig replaces the configuration. Invalid documents are stored and
// returned together with their validation report.
func (h *WheelHandler) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.Config
	if err := decodeRequest(r, w, &cfg, OpUpdateConfig); err != nil {
		return
	}

	res, err := h.service.UpdateConfig(r.Context(), cfg)
	if err != nil {
		respondServiceError(w, r, OpUpdateConfig, err)
		return
	}

	logger.FromContext(r.Context()).Info("Wheel config updated",
		"version", res.Config.Version,
		"valid", res.Validation.Valid)
	respondJSON(w, http.StatusOK, res)
}

// HandleValidateConfig validates the stored configuration
func (h *WheelHandler) HandleValidateConfig(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ValidateConfig(r.Context())
	if err != nil {
		respondServiceError(w, r, OpValidateConfig, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleGetSpinState returns the acting user's eligibility summary
func (h *WheelHandler) HandleGetSpinState(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r, w)
	if !ok {
		return
	}

	view, err := h.service.GetSpinState(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetSpinState, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// HandleRequestSpin asks the service for an outcome
func (h *WheelHandler) HandleRequestSpin(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r, w)
	if !ok {
		return
	}

	var req domain.SpinContext
	if err := DecodeAndValidateRequest(r, w, &req, OpRequestSpin); err != nil {
		return
	}

	res, err := h.service.RequestSpin(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, r, OpRequestSpin, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

// HandleClaimSpin finalizes an outcome
func (h *WheelHandler) HandleClaimSpin(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r, w)
	if !ok {
		return
	}

	spinID := chi.URLParam(r, URLParamSpinID)
	if spinID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingSpinID, rewardservice.CodeInvalidInput)
		return
	}

	ack, err := h.service.ClaimSpin(r.Context(), userID, spinID)
	if err != nil {
		respondServiceError(w, r, OpClaimSpin, err)
		return
	}
	respondJSON(w, http.StatusOK, ack)
}

// HandleRecordSpend reports spend toward the threshold trigger
func (h *WheelHandler) HandleRecordSpend(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r, w)
	if !ok {
		return
	}

	var req domain.SpendRequest
	if err := decodeRequest(r, w, &req, OpRecordSpend); err != nil {
		return
	}

	res, err := h.service.RecordSpend(r.Context(), userID, req.Amount)
	if err != nil {
		respondServiceError(w, r, OpRecordSpend, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleGetWallet returns the acting user's balances
func (h *WheelHandler) HandleGetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r, w)
	if !ok {
		return
	}

	balances, err := h.service.GetWallet(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetWallet, err)
		return
	}
	respondJSON(w, http.StatusOK, balances)
}
