package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casaphilia/rentals-api/internal/http/middleware"
	"github.com/casaphilia/rentals-api/internal/http/response"
	"github.com/casaphilia/rentals-api/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

func (h *CheckoutHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{bookingID}", h.start)
	r.Get("/{bookingID}/attempts", h.attempts)
	return r
}

// VerifyRoutes serves the gateway redirect target. It is mounted outside the
// JWT wall because the processor redirects the browser here without our token.
func (h *CheckoutHandler) VerifyRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/verify", h.verify)
	return r
}

func (h *CheckoutHandler) start(w http.ResponseWriter, r *http.Request) {
	res, err := h.checkout.Start(r.Context(), middleware.Identity(r), chi.URLParam(r, "bookingID"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

func (h *CheckoutHandler) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookingID := q.Get("bookingId")
	reference := q.Get("reference")
	if reference == "" {
		// Paystack redirects with trxref as well.
		reference = q.Get("trxref")
	}
	status := q.Get("status")

	confirmed, err := h.checkout.CompleteCallback(r.Context(), bookingID, reference, status)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"booking_id": bookingID,
		"confirmed":  confirmed,
	})
}

func (h *CheckoutHandler) attempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.checkout.Attempts(r.Context(), middleware.Identity(r), chi.URLParam(r, "bookingID"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, attempts)
}
