package transport

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionIssuer signs diner session tokens.
type SessionIssuer interface {
	Issue(tableNumber *int) (string, *session.Claims, error)
	Reissue(sessionID string, tableNumber *int) (string, *session.Claims, error)
}

type SessionHandler struct {
	issuer       SessionIssuer
	secureCookie bool
}

func NewSessionHandler(issuer SessionIssuer, secureCookie bool) *SessionHandler {
	return &SessionHandler{issuer: issuer, secureCookie: secureCookie}
}

func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.Start)
}

type startSessionRequest struct {
	TableNumber *int `json:"tableNumber"`
}

type sessionResponse struct {
	SessionID   string    `json:"sessionId"`
	TableNumber *int      `json:"tableNumber,omitempty"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Start handles POST /session. The table comes from the body or from the
// QR landing URL's ?tableNumber=. A diner who already has a session keeps
// its id, so the cart survives a re-scan.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	if req.TableNumber == nil {
		if raw := strings.TrimSpace(r.URL.Query().Get("tableNumber")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, r, errInvalidTable)
				return
			}
			req.TableNumber = &n
		}
	}

	var (
		token  string
		claims *session.Claims
		err    error
	)
	if current, ok := session.FromContext(r.Context()); ok {
		table := req.TableNumber
		if table == nil {
			table = current.TableNumber
		}
		token, claims, err = h.issuer.Reissue(current.SessionID, table)
	} else {
		token, claims, err = h.issuer.Issue(req.TableNumber)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromCtx(r.Context()).Info("session started",
		zap.String("layer", "transport"),
		zap.String("session_id", claims.SessionID),
	)

	setSessionCookie(w, token, claims, h.secureCookie)
	utils.WriteJSON(w, http.StatusCreated, newSessionResponse(token, claims))
}

func newSessionResponse(token string, c *session.Claims) sessionResponse {
	res := sessionResponse{SessionID: c.SessionID, TableNumber: c.TableNumber, Token: token}
	if c.ExpiresAt != nil {
		res.ExpiresAt = c.ExpiresAt.Time
	}
	return res
}

func setSessionCookie(w http.ResponseWriter, token string, c *session.Claims, secure bool) {
	cookie := &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.ExpiresAt != nil {
		cookie.Expires = c.ExpiresAt.Time
	}
	http.SetCookie(w, cookie)
}
