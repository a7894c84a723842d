package transport

import (
	"net/http"

	"liwamenu-be/internal/reservation"
	"liwamenu-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type ReservationHandler struct {
	svc reservation.Service
}

func NewReservationHandler(svc reservation.Service) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/reservations/code", h.RequestCode)
	r.Post("/reservations", h.Submit)
}

type submitReservationRequest struct {
	reservation.Request
	Code string `json:"code"`
}

// RequestCode handles POST /reservations/code.
func (h *ReservationHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req reservation.Request
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	channel, err := h.svc.RequestCode(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, map[string]string{"channel": string(channel)})
}

// Submit handles POST /reservations: the same form plus the code.
func (h *ReservationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReservationRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	conf, err := h.svc.Submit(r.Context(), req.Request, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, conf)
}
