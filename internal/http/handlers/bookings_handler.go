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

type BookingsHandler struct {
	bookings service.BookingService
}

func NewBookingsHandler(bookings service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

func (h *BookingsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.listMine)
	r.Get("/managed", h.listManaged)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	return r
}

func (h *BookingsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingCreateReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	booking, err := h.bookings.Create(r.Context(), middleware.Identity(r), &in)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, booking)
}

func (h *BookingsHandler) listMine(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	bookings, err := h.bookings.ListForUser(r.Context(), middleware.Identity(r), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

func (h *BookingsHandler) listManaged(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	bookings, err := h.bookings.ListForManager(r.Context(), middleware.Identity(r), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

func (h *BookingsHandler) get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.Get(r.Context(), middleware.Identity(r), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, booking)
}

func (h *BookingsHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingStatusReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	status, ok := domain.ParseBookingStatus(in.Status)
	if !ok {
		response.BadRequest(w, "status must be PENDING, CONFIRMED or CANCELLED")
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), middleware.Identity(r), chi.URLParam(r, "id"), status)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, booking)
}
