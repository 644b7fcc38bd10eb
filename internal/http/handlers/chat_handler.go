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

type ChatHandler struct {
	chat service.ChatService
}

func NewChatHandler(chat service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.send)
	r.Get("/", h.recent)
	r.Get("/{userID}", h.conversation)
	return r
}

func (h *ChatHandler) send(w http.ResponseWriter, r *http.Request) {
	var in domain.ChatSendReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	msg, err := h.chat.Send(r.Context(), middleware.Identity(r), &in)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	heads, err := h.chat.Recent(r.Context(), middleware.Identity(r), limit)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, heads)
}

func (h *ChatHandler) conversation(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	msgs, err := h.chat.Conversation(r.Context(), middleware.Identity(r), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, msgs)
}
