package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/http/middleware"
	"github.com/casaphilia/rentals-api/internal/http/response"
	"github.com/casaphilia/rentals-api/internal/service"
)

type ReviewsHandler struct {
	reviews service.ReviewService
}

func NewReviewsHandler(reviews service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews}
}

func (h *ReviewsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	return r
}

func (h *ReviewsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.ReviewReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	review, err := h.reviews.Create(r.Context(), middleware.Identity(r), &in)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, review)
}
