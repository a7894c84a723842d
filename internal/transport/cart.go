package transport

import (
	"net/http"

	"liwamenu-be/internal/cart"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

// RegisterRoutes mounts the cart routes; r must require a session.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Delete("/cart", h.Clear)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{lineID}", h.UpdateQuantity)
	r.Delete("/cart/items/{lineID}", h.RemoveItem)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.svc.Summary(r.Context(), sess.SessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

// AddItem handles POST /cart/items and answers with the new line and the
// updated cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var params cart.AddItemParams
	if err := decode(r, &params, false); err != nil {
		writeError(w, r, err)
		return
	}
	params.SessionID = sess.SessionID
	if params.Quantity == 0 {
		params.Quantity = 1
	}

	line, err := h.svc.AddItem(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respondWithCart(w, r, sess.SessionID, http.StatusCreated, map[string]any{"line": line})
}

// UpdateQuantity handles PATCH /cart/items/{lineID}. Zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateQuantityRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Quantity == nil {
		writeError(w, r, cart.ErrInvalidQuantity)
		return
	}

	if err := h.svc.UpdateQuantity(r.Context(), sess.SessionID, chi.URLParam(r, "lineID"), *req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithCart(w, r, sess.SessionID, http.StatusOK, nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.RemoveItem(r.Context(), sess.SessionID, chi.URLParam(r, "lineID")); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithCart(w, r, sess.SessionID, http.StatusOK, nil)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Clear(r.Context(), sess.SessionID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, sessionID string, status int, extra map[string]any) {
	summary, err := h.svc.Summary(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := map[string]any{"cart": summary}
	for k, v := range extra {
		body[k] = v
	}
	utils.WriteJSON(w, status, body)
}
