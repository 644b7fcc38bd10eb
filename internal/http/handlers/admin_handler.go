package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/http/middleware"
	"github.com/casaphilia/rentals-api/internal/http/response"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/internal/service"
)

// AdminHandler groups the SUPER_ADMIN surface: user management, application
// review, marketplace-wide booking views, the audit trail and the contact
// inbox.
type AdminHandler struct {
	auth         service.AuthService
	bookings     service.BookingService
	applications service.ApplicationService
	contacts     service.ContactService
	activity     postgres.ActivityRepo
}

func NewAdminHandler(
	auth service.AuthService,
	bookings service.BookingService,
	applications service.ApplicationService,
	contacts service.ContactService,
	activity postgres.ActivityRepo,
) *AdminHandler {
	return &AdminHandler{
		auth:         auth,
		bookings:     bookings,
		applications: applications,
		contacts:     contacts,
		activity:     activity,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.listUsers)
	r.Patch("/users/role", h.updateRole)
	r.Get("/bookings", h.listBookings)
	r.Get("/applications", h.listApplications)
	r.Patch("/applications/{id}", h.reviewApplication)
	r.Get("/activity", h.listActivity)
	r.Get("/contact", h.listContact)
	return r
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	users, err := h.auth.ListUsers(r.Context(), middleware.Identity(r), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, users)
}

type roleUpdateReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AdminHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	var in roleUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		response.BadRequest(w, "unknown role")
		return
	}

	if err := h.auth.UpdateUserRole(r.Context(), middleware.Identity(r), in.Email, role); err != nil {
		response.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	var status *domain.BookingStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s, ok := domain.ParseBookingStatus(v)
		if !ok {
			response.BadRequest(w, "unknown booking status")
			return
		}
		status = &s
	}

	bookings, err := h.bookings.ListAll(r.Context(), middleware.Identity(r), status, limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) listApplications(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	apps, err := h.applications.ListPending(r.Context(), middleware.Identity(r), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, apps)
}

func (h *AdminHandler) reviewApplication(w http.ResponseWriter, r *http.Request) {
	var in domain.ApplicationReviewReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	app, err := h.applications.Review(r.Context(), middleware.Identity(r), chi.URLParam(r, "id"), &in)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, app)
}

func (h *AdminHandler) listActivity(w http.ResponseWriter, r *http.Request) {
	// Route-level role gating already restricts this to admins.
	limit, offset := pageParams(r)
	logs, err := h.activity.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "failed to load activity log")
		return
	}
	response.WriteJSON(w, http.StatusOK, logs)
}

func (h *AdminHandler) listContact(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	msgs, err := h.contacts.List(r.Context(), middleware.Identity(r), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, msgs)
}
