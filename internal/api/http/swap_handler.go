package http

import (
	"encoding/json"
	"net/http"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/service"
)

// SwapHandler exposes the swap request lifecycle over HTTP.
type SwapHandler struct {
	swaps service.SwapService
}

func NewSwapHandler(swaps service.SwapService) *SwapHandler {
	return &SwapHandler{swaps: swaps}
}

type submitSwapRequest struct {
	ProductID        int64  `json:"product_id"`
	OfferedItemID    *int64 `json:"offered_item_id,omitempty"`
	OfferDescription string `json:"offer_description"`
	OfferNote        string `json:"offer_note,omitempty"`
	OfferImage       string `json:"offer_image,omitempty"`
}

type swapResponse struct {
	Request      *domain.SwapRequest  `json:"request"`
	RatingPrompt *domain.RatingPrompt `json:"rating_prompt,omitempty"`
}

// Submit handles POST /api/swaps/requests.
func (h *SwapHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requesterID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req submitSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sr, err := h.swaps.SubmitSwapRequest(r.Context(), requesterID, req.ProductID, req.OfferedItemID, req.OfferDescription, req.OfferNote, req.OfferImage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, swapResponse{Request: sr})
}

// Transition handles PUT /api/swaps/requests/{id}/status.
func (h *SwapHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actorID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sr, prompt, err := h.swaps.TransitionSwap(r.Context(), requestID, actorID, domain.SwapStatus(req.Status), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, swapResponse{Request: sr, RatingPrompt: prompt})
}

// Get handles GET /api/swaps/requests/{id}.
func (h *SwapHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request id")
		return
	}

	sr, err := h.swaps.GetSwapRequest(r.Context(), userID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, swapResponse{Request: sr})
}

// List handles GET /api/swaps/requests.
func (h *SwapHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	requests, err := h.swaps.ListSwapRequests(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}
