package middleware

import (
	"errors"
	"net/http"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/metrics"
	"github.com/rs/zerolog"
)

// Gate is the composed authentication pipeline: bearer extraction, token
// verification, then principal resolution. Every variant shares the same
// pipeline and differs only in the predicate applied to the resolved
// principal and in how a missing credential is treated.
type Gate struct {
	codec    *auth.Codec
	resolver *auth.Resolver
	env      string
}

func NewGate(codec *auth.Codec, resolver *auth.Resolver, env string) *Gate {
	return &Gate{codec: codec, resolver: resolver, env: env}
}

// RequireUser admits end users of any role. Organizers are rejected with 403.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return g.guarded("require_user", func(p auth.Principal) bool {
		return p.IsEndUser()
	})(next)
}

// RequireAdmin admits only end users with the admin role. Administrators are
// strictly a role flag on end users; an organizer can never pass.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return g.guarded("require_admin", func(p auth.Principal) bool {
		return p.IsAdmin()
	})(next)
}

// RequireOrganizer admits only organizers.
func (g *Gate) RequireOrganizer(next http.Handler) http.Handler {
	return g.guarded("require_organizer", func(p auth.Principal) bool {
		return p.IsOrganizer()
	})(next)
}

// RequireUserOrAdmin admits end users with the user or admin role, which is
// every end user; it exists as a distinct route-facing name so intent reads
// at the call site.
func (g *Gate) RequireUserOrAdmin(next http.Handler) http.Handler {
	return g.guarded("require_user_or_admin", func(p auth.Principal) bool {
		return p.IsEndUser() && (p.Role == auth.RoleUser || p.Role == auth.RoleAdmin)
	})(next)
}

// RequireAnyAuthenticated admits any resolved principal, end user or
// organizer.
func (g *Gate) RequireAnyAuthenticated(next http.Handler) http.Handler {
	return g.guarded("require_any", func(p auth.Principal) bool {
		return p.IsEndUser() || p.IsOrganizer()
	})(next)
}

// OptionalAuth resolves a principal when a credential is present and
// proceeds anonymously when none is. Malformed or expired tokens are still
// terminal 401s: a bad credential is never silently downgraded to anonymous.
// A subject that no longer resolves degrades to anonymous.
func (g *Gate) OptionalAuth(next http.Handler) http.Handler {
	const variant = "optional"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			metrics.AuthDecisions.WithLabelValues(variant, "anonymous").Inc()
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), auth.Anonymous())))
			return
		}

		claims, err := g.codec.Verify(token)
		if err != nil {
			g.reject(w, r, variant, err)
			return
		}

		principal, err := g.resolver.Resolve(r.Context(), claims.Subject)
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("optional auth degraded to anonymous")
			metrics.AuthDecisions.WithLabelValues(variant, "anonymous").Inc()
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), auth.Anonymous())))
			return
		}

		metrics.AuthDecisions.WithLabelValues(variant, "allowed").Inc()
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// guarded builds the strict pipeline shared by every rejecting variant.
func (g *Gate) guarded(variant string, allow func(auth.Principal) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				g.reject(w, r, variant, err)
				return
			}

			claims, err := g.codec.Verify(token)
			if err != nil {
				g.reject(w, r, variant, err)
				return
			}

			principal, err := g.resolver.Resolve(r.Context(), claims.Subject)
			if err != nil {
				g.reject(w, r, variant, err)
				return
			}

			if !allow(principal) {
				metrics.AuthDecisions.WithLabelValues(variant, "forbidden").Inc()
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden,
					"Insufficient permissions", problem.ErrForbidden, g.env)
				return
			}

			metrics.AuthDecisions.WithLabelValues(variant, "allowed").Inc()
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// reject maps pipeline failures to HTTP statuses. Credential problems and
// unresolved subjects are 401; only store-side failures surface as 500, and
// those are the only ones logged as errors rather than authorization
// decisions.
func (g *Gate) reject(w http.ResponseWriter, r *http.Request, variant string, err error) {
	switch {
	case errors.Is(err, auth.ErrNoCredential):
		metrics.AuthDecisions.WithLabelValues(variant, "unauthorized").Inc()
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized,
			"Authentication required", err, g.env)
	case errors.Is(err, auth.ErrTokenExpired):
		metrics.AuthDecisions.WithLabelValues(variant, "unauthorized").Inc()
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized,
			"Token expired", err, g.env)
	case errors.Is(err, auth.ErrTokenMalformed):
		metrics.AuthDecisions.WithLabelValues(variant, "unauthorized").Inc()
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized,
			"Invalid token", err, g.env)
	case errors.Is(err, auth.ErrSubjectNotFound):
		metrics.AuthDecisions.WithLabelValues(variant, "unauthorized").Inc()
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized,
			"Unknown subject", err, g.env)
	default:
		metrics.AuthDecisions.WithLabelValues(variant, "error").Inc()
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError,
			"Server error", err, g.env)
	}
}
