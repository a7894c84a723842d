package utils

import "context"

type ctxKey string

const internalRequestKey ctxKey = "internal_request"

// WithInternalRequest marks ctx as coming from a trusted service, such as
// the restaurant panel pushing order status updates.
func WithInternalRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalRequestKey, true)
}

func IsInternalRequest(ctx context.Context) bool {
	v, _ := ctx.Value(internalRequestKey).(bool)
	return v
}
