package transport

import (
	"net/http"

	"liwamenu-be/internal/order"
	"liwamenu-be/internal/pricing"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes mounts the diner order routes; r must require a session.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout/quote", h.Quote)
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
}

// RegisterInternalRoutes mounts the routes used by the restaurant side;
// r must be guarded by the service secret.
func (h *OrderHandler) RegisterInternalRoutes(r chi.Router) {
	r.Patch("/orders/{orderID}/status", h.UpdateStatus)
}

type quoteRequest struct {
	OrderType pricing.OrderType `json:"orderType"`
}

type orderListResponse struct {
	Orders []*order.Order `json:"orders"`
}

type updateStatusRequest struct {
	Status order.Status `json:"status"`
}

// Quote handles POST /checkout/quote: a priced preview with the reason
// ordering is blocked, if it is.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req quoteRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.svc.Quote(r.Context(), sess, req.OrderType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, q)
}

// Create handles POST /orders: checkout and submission of the session cart.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req order.CheckoutRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.Checkout(r.Context(), sess, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.svc.History(r.Context(), sess.SessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orderListResponse{Orders: orders})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if err := h.svc.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"id": orderID, "status": string(req.Status)})
}
