package session

import "context"

type ctxKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok && c != nil
}

// MustFromContext is for handlers mounted behind the session middleware.
func MustFromContext(ctx context.Context) (*Claims, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return c, nil
}
