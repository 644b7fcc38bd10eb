package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/http/middleware"
	"github.com/casaphilia/rentals-api/internal/http/response"
	"github.com/casaphilia/rentals-api/internal/service"
)

type PropertiesHandler struct {
	properties service.PropertyService
	bookings   service.BookingService
	reviews    service.ReviewService
}

func NewPropertiesHandler(properties service.PropertyService, bookings service.BookingService, reviews service.ReviewService) *PropertiesHandler {
	return &PropertiesHandler{properties: properties, bookings: bookings, reviews: reviews}
}

// PublicRoutes are browseable without a session.
func (h *PropertiesHandler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.search)
	r.Get("/featured", h.featured)
	r.Get("/slug/{slug}", h.getBySlug)
	r.Get("/{id}", h.get)
	r.Get("/{id}/calendar", h.calendar)
	r.Get("/{id}/reviews", h.listReviews)
	return r
}

// ManageRoutes require a property manager or admin session.
func (h *PropertiesHandler) ManageRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/mine", h.listMine)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *PropertiesHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pageParams(r)
	search := domain.PropertySearch{
		City:   q.Get("city"),
		Limit:  limit,
		Offset: offset,
	}
	if v := q.Get("type"); v != "" {
		t, ok := domain.ParsePropertyType(v)
		if !ok {
			response.BadRequest(w, "unknown property type")
			return
		}
		search.Type = &t
	}
	if v := q.Get("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.BadRequest(w, "min_price must be a number")
			return
		}
		search.MinPrice = &p
	}
	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.BadRequest(w, "max_price must be a number")
			return
		}
		search.MaxPrice = &p
	}
	if v := q.Get("min_bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "min_bedrooms must be a number")
			return
		}
		search.MinBedrooms = &n
	}

	properties, err := h.properties.Search(r.Context(), search)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, properties)
}

func (h *PropertiesHandler) featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := pageParams(r)
	properties, err := h.properties.Featured(r.Context(), limit)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, properties)
}

func (h *PropertiesHandler) get(w http.ResponseWriter, r *http.Request) {
	property, err := h.properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, property)
}

func (h *PropertiesHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	property, err := h.properties.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, property)
}

func (h *PropertiesHandler) calendar(w http.ResponseWriter, r *http.Request) {
	windows, err := h.bookings.PropertyCalendar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, windows)
}

func (h *PropertiesHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	reviews, err := h.reviews.ListByProperty(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, reviews)
}

func (h *PropertiesHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.PropertyReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	property, err := h.properties.Create(r.Context(), middleware.Identity(r), &in)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, property)
}

func (h *PropertiesHandler) update(w http.ResponseWriter, r *http.Request) {
	var in domain.PropertyReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	property, err := h.properties.Update(r.Context(), middleware.Identity(r), chi.URLParam(r, "id"), &in)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, property)
}

func (h *PropertiesHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.properties.Delete(r.Context(), middleware.Identity(r), chi.URLParam(r, "id")); err != nil {
		response.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PropertiesHandler) listMine(w http.ResponseWriter, r *http.Request) {
	properties, err := h.properties.ListMine(r.Context(), middleware.Identity(r))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, properties)
}
