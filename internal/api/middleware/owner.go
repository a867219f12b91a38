package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/metrics"
)

// EventOwner guards organizer-scoped event routes. It runs after a policy
// gate has attached a non-anonymous principal: the identifier is shape
// checked before any store access, the event is loaded once and attached to
// the context, and the request proceeds only for an administrator or the
// event's recorded owner. A 404 is only issued for true absence; every other
// denial is a plain 403 that reveals nothing further.
func EventOwner(store events.Repository, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r)
			if !ok || principal.IsAnonymous() {
				metrics.OwnershipChecks.WithLabelValues("error").Inc()
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized,
					"Authentication required", problem.ErrUnauthorized, env)
				return
			}

			eventID := strings.TrimSpace(r.PathValue("id"))
			if eventID == "" {
				eventID = strings.TrimSpace(r.PathValue("eventId"))
			}
			if err := ids.ValidateULID(eventID); err != nil {
				metrics.OwnershipChecks.WithLabelValues("invalid_id").Inc()
				problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation,
					"Invalid event id", err, env)
				return
			}

			event, err := store.GetByID(r.Context(), ids.Normalize(eventID))
			if err != nil {
				if errors.Is(err, events.ErrNotFound) {
					metrics.OwnershipChecks.WithLabelValues("not_found").Inc()
					problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound,
						"Event not found", err, env)
					return
				}
				metrics.OwnershipChecks.WithLabelValues("error").Inc()
				problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError,
					"Server error", err, env)
				return
			}

			if !principal.IsAdmin() && principal.ID != event.OrganizerID {
				metrics.OwnershipChecks.WithLabelValues("forbidden").Inc()
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden,
					"Access denied, event organizer only", problem.ErrForbidden, env)
				return
			}

			metrics.OwnershipChecks.WithLabelValues("allowed").Inc()
			next.ServeHTTP(w, r.WithContext(ContextWithEvent(r.Context(), event)))
		})
	}
}
