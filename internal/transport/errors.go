package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"liwamenu-be/internal/cart"
	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/order"
	"liwamenu-be/internal/reservation"
	"liwamenu-be/internal/session"
	"liwamenu-be/internal/table"
	"liwamenu-be/internal/utils"
	"liwamenu-be/internal/waiter"

	"go.uber.org/zap"
)

var (
	errInvalidBody  = errors.New("invalid request body")
	errInvalidTable = errors.New("table number must be a positive integer")
)

type errorStatus struct {
	target error
	status int
}

// statusTable is matched in order with errors.Is; the first hit wins.
var statusTable = []errorStatus{
	// -- Validation & Input --
	{errInvalidBody, http.StatusBadRequest},
	{errInvalidTable, http.StatusBadRequest},
	{session.ErrInvalidTable, http.StatusBadRequest},
	{cart.ErrInvalidQuantity, http.StatusBadRequest},
	{cart.ErrInvalidSelection, http.StatusBadRequest},
	{cart.ErrPortionMismatch, http.StatusBadRequest},
	{order.ErrInvalidOrderType, http.StatusBadRequest},
	{order.ErrInvalidStatus, http.StatusBadRequest},
	{table.ErrNoTableInCode, http.StatusBadRequest},
	{waiter.ErrReasonTooLong, http.StatusBadRequest},

	// -- Checkout Rules --
	{order.ErrCartEmpty, http.StatusUnprocessableEntity},
	{order.ErrMinimumOrderNotMet, http.StatusUnprocessableEntity},
	{order.ErrCustomerInfoRequired, http.StatusUnprocessableEntity},
	{order.ErrInvalidPhone, http.StatusUnprocessableEntity},
	{order.ErrPaymentMethodRequired, http.StatusUnprocessableEntity},
	{order.ErrTableRequired, http.StatusUnprocessableEntity},
	{order.ErrOutOfRange, http.StatusUnprocessableEntity},
	{order.ErrLocationRequired, http.StatusUnprocessableEntity},
	{waiter.ErrTableRequired, http.StatusUnprocessableEntity},
	{reservation.ErrCodeNotRequested, http.StatusUnprocessableEntity},
	{reservation.ErrCodeMismatch, http.StatusUnprocessableEntity},
	{reservation.ErrTooManyAttempts, http.StatusTooManyRequests},

	// -- Eligibility --
	{order.ErrOrderingClosed, http.StatusForbidden},

	// -- Resource State --
	{session.ErrNoSession, http.StatusUnauthorized},
	{cart.ErrMissingSession, http.StatusUnauthorized},
	{cart.ErrProductNotFound, http.StatusNotFound},
	{cart.ErrPortionNotFound, http.StatusNotFound},
	{cart.ErrCartItemNotFound, http.StatusNotFound},
	{order.ErrOrderNotFound, http.StatusNotFound},
	{order.ErrSubmissionInProgress, http.StatusConflict},
	{order.ErrInvalidStatusTransition, http.StatusConflict},
	{table.ErrSameTable, http.StatusConflict},

	// -- Upstream --
	{order.ErrSubmissionFailed, http.StatusBadGateway},
	{reservation.ErrCodeDeliveryFailed, http.StatusBadGateway},
	{reservation.ErrSubmissionFailed, http.StatusBadGateway},
	{waiter.ErrCallFailed, http.StatusBadGateway},
}

// statusFor returns the HTTP status for err and the sentinel it matched.
func statusFor(err error) (int, error) {
	if reservation.IsValidationError(err) {
		return http.StatusBadRequest, nil
	}
	for _, e := range statusTable {
		if errors.Is(err, e.target) {
			return e.status, e.target
		}
	}
	return http.StatusInternalServerError, nil
}

// writeError maps err to a JSON error response. Client errors carry the
// full message; server side failures only the matched sentinel so
// upstream bodies never reach the diner.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, target := statusFor(err)

	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "transport"),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
		msg := http.StatusText(status)
		if target != nil {
			msg = target.Error()
		}
		utils.WriteJSONError(w, msg, status)
		return
	}

	utils.WriteJSONError(w, err.Error(), status)
}

// decode reads a JSON body. With allowEmpty an empty body leaves v
// untouched.
func decode(r *http.Request, v any, allowEmpty bool) error {
	if err := utils.DecodeJSON(r, v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
