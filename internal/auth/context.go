package auth

import (
	"context"

	"github.com/rogerio-castellano/stockly/internal/models"
)

type contextKey string

const sessionKey = contextKey("session")

func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the session stored by the auth middleware, if any.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(models.Session)
	return s, ok
}
