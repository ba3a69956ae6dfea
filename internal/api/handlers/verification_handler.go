package handlers

import (
	"net/http"

	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

// VerificationHandler exposes the simulated phone verification
type VerificationHandler struct {
	verification *services.PhoneVerification
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verification *services.PhoneVerification) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type verifyResponse struct {
	Message string                     `json:"message"`
	State   entities.VerificationState `json:"state"`
}

// State handles GET /api/verification
func (h *VerificationHandler) State(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.verification.State())
}

// SendCode handles POST /api/verification/send
func (h *VerificationHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	delivery, err := h.verification.SendCode(r.Context(), req.Phone)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, delivery)
}

// Verify handles POST /api/verification/verify
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	state, err := h.verification.Verify(r.Context(), req.Code)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, verifyResponse{Message: services.MsgPhoneVerified, State: state})
}

// PhoneChanged handles POST /api/verification/phone
func (h *VerificationHandler) PhoneChanged(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.verification.PhoneChanged(r.Context(), req.Phone))
}
