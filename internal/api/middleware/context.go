package middleware

import (
	"context"
	"net/http"

	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/events"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	eventKey     contextKey = "event"
)

// ContextWithPrincipal attaches a principal to ctx. The gates use it on
// success; handler tests use it to simulate an authenticated request.
func ContextWithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFrom returns the principal the gate attached to the request.
// Handlers must treat it as the sole authorization fact; they never re-derive
// identity or role from request input.
func PrincipalFrom(r *http.Request) (auth.Principal, bool) {
	if r == nil {
		return auth.Principal{}, false
	}
	principal, ok := r.Context().Value(principalKey).(auth.Principal)
	return principal, ok
}

// ContextWithEvent attaches the loaded event to ctx.
func ContextWithEvent(ctx context.Context, event *events.Event) context.Context {
	return context.WithValue(ctx, eventKey, event)
}

// EventFrom returns the event loaded by the ownership guard, saving handlers
// a second lookup.
func EventFrom(r *http.Request) (*events.Event, bool) {
	if r == nil {
		return nil, false
	}
	event, ok := r.Context().Value(eventKey).(*events.Event)
	return event, ok
}
