package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casaphilia/rentals-api/internal/http/middleware"
	"github.com/casaphilia/rentals-api/internal/http/response"
	"github.com/casaphilia/rentals-api/internal/service"
)

type FavoritesHandler struct {
	favorites service.FavoriteService
}

func NewFavoritesHandler(favorites service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

func (h *FavoritesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{propertyID}", h.toggle)
	r.Get("/", h.list)
	return r
}

func (h *FavoritesHandler) toggle(w http.ResponseWriter, r *http.Request) {
	res, err := h.favorites.Toggle(r.Context(), middleware.Identity(r), chi.URLParam(r, "propertyID"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

func (h *FavoritesHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	properties, err := h.favorites.List(r.Context(), middleware.Identity(r), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, properties)
}
