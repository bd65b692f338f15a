package auth

import "context"

type ctxKey int

const userIDKey ctxKey = 0

// UserID returns the authenticated user's id carried by the context,
// or "" when the request never passed the auth guard.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID returns a context carrying the given user id, as the auth
// guard injects it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
