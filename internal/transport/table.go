package transport

import (
	"net/http"

	"liwamenu-be/internal/session"
	"liwamenu-be/internal/table"
	"liwamenu-be/internal/utils"
	"liwamenu-be/internal/waiter"

	"github.com/go-chi/chi/v5"
)

// TableHandler serves the table-side actions of a seated diner.
type TableHandler struct {
	tables       table.Service
	waiters      waiter.Service
	secureCookie bool
}

func NewTableHandler(tables table.Service, waiters waiter.Service, secureCookie bool) *TableHandler {
	return &TableHandler{tables: tables, waiters: waiters, secureCookie: secureCookie}
}

// RegisterRoutes mounts the table routes; r must require a session.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Post("/table", h.Change)
	r.Post("/waiter", h.CallWaiter)
}

type changeTableRequest struct {
	ScannedText string `json:"scannedText"`
}

type callWaiterRequest struct {
	Reason string `json:"reason"`
}

// Change handles POST /table with the text of a scanned QR code and sets
// the re-issued session cookie.
func (h *TableHandler) Change(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req changeTableRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	token, claims, err := h.tables.Change(r.Context(), sess, req.ScannedText)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setSessionCookie(w, token, claims, h.secureCookie)
	utils.WriteJSON(w, http.StatusOK, newSessionResponse(token, claims))
}

// CallWaiter handles POST /waiter for the session's table.
func (h *TableHandler) CallWaiter(w http.ResponseWriter, r *http.Request) {
	sess, err := session.MustFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req callWaiterRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	call, err := h.waiters.Call(r.Context(), sess.TableNumber, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, call)
}
