package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/service"
)

// RentalHandler exposes the rental request lifecycle over HTTP.
type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type submitRentalRequest struct {
	ProductID int64  `json:"product_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type transitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type rentalResponse struct {
	Request      *domain.RentalRequest `json:"request"`
	RatingPrompt *domain.RatingPrompt  `json:"rating_prompt,omitempty"`
}

// Submit handles POST /api/rentals/requests.
func (h *RentalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	renterID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req submitRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rr, err := h.rentals.SubmitRentalRequest(r.Context(), renterID, req.ProductID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rentalResponse{Request: rr})
}

// Transition handles PUT /api/rentals/requests/{id}/status.
func (h *RentalHandler) Transition(w http.ResponseWriter, r *http.Request) {
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

	rr, prompt, err := h.rentals.TransitionRental(r.Context(), requestID, actorID, domain.RentalStatus(req.Status), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rentalResponse{Request: rr, RatingPrompt: prompt})
}

// Get handles GET /api/rentals/requests/{id}.
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	rr, err := h.rentals.GetRentalRequest(r.Context(), userID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rentalResponse{Request: rr})
}

// List handles GET /api/rentals/requests.
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	requests, err := h.rentals.ListRentalRequests(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
