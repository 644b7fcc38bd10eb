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

type ApplicationsHandler struct {
	applications service.ApplicationService
}

func NewApplicationsHandler(applications service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications}
}

func (h *ApplicationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.submit)
	r.Get("/{id}", h.get)
	return r
}

func (h *ApplicationsHandler) submit(w http.ResponseWriter, r *http.Request) {
	var in domain.ApplicationReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	app, err := h.applications.Submit(r.Context(), middleware.Identity(r), &in)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, app)
}

func (h *ApplicationsHandler) get(w http.ResponseWriter, r *http.Request) {
	app, err := h.applications.Get(r.Context(), middleware.Identity(r), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, app)
}
