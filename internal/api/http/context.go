package http

import (
	"context"
	"errors"
)

type contextKey string

const userIDKey contextKey = "user_id"

var errNoUser = errors.New("no authenticated user in context")

// ContextWithUserID attaches the authenticated actor id to the request
// context. Only the auth middleware should call this.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the actor id placed by the auth middleware.
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, errNoUser
	}
	return userID, nil
}
