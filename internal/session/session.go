// ABOUTME: Session identity for tracking the authorized user through operation calls
// ABOUTME: Provides WithSession/FromContext instead of process-wide current-user state

package session

import (
	"context"
	"time"
)

// Session holds the authenticated identity for one interactive session.
// It is attached to the context by the shell after login and read by
// anything that needs to know who is acting.
type Session struct {
	Login     string    // normalized login of the authorized user
	Token     string    // session token minted at login
	StartedAt time.Time // when the login happened
}

// sessionKey is the key type for storing Session in context.Context.
type sessionKey struct{}

// WithSession returns a new context with the Session attached.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext retrieves the Session from the context, returning nil if not present.
func FromContext(ctx context.Context) *Session {
	val := ctx.Value(sessionKey{})
	if val == nil {
		return nil
	}
	s, ok := val.(*Session)
	if !ok {
		return nil
	}
	return s
}

// MustFromContext retrieves the Session from the context, panicking if not present.
func MustFromContext(ctx context.Context) *Session {
	s := FromContext(ctx)
	if s == nil {
		panic("session: Session not found in context")
	}
	return s
}
