package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gatherly/server/internal/api/handlers"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/config"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/organizers"
	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/gatherly/server/internal/domain/reviews"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/metrics"
	"github.com/gatherly/server/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	codec := auth.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer)
	resolver := auth.NewResolver(postgres.NewUserDirectory(pool), postgres.NewOrganizerDirectory(pool))
	gate := middleware.NewGate(codec, resolver, cfg.Environment)
	eventOwner := middleware.EventOwner(repo.Events(), cfg.Environment)

	usersService := users.NewService(repo.Users(), logger)
	organizersService := organizers.NewService(repo.Organizers(), logger)
	eventsService := events.NewService(repo.Events(), logger)
	registrationsService := registrations.NewService(repo.Registrations(), repo.Events(), logger)
	reviewsService := reviews.NewService(repo.Reviews(), repo.Events(), repo.Registrations(), logger)

	authHandler := handlers.NewAuthHandler(usersService, organizersService, codec, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)
	profileHandler := handlers.NewProfileHandler(usersService, organizersService, cfg.Environment)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationsService, cfg.Environment)
	reviewsHandler := handlers.NewReviewsHandler(reviewsService, cfg.Environment)
	adminUsersHandler := handlers.NewAdminUsersHandler(usersService, cfg.Environment)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/api/v1/auth/register", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Register),
	}))
	mux.Handle("/api/v1/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	mux.Handle("/api/v1/auth/organizer/register", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.RegisterOrganizer),
	}))
	mux.Handle("/api/v1/auth/organizer/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.OrganizerLogin),
	}))

	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet:  gate.OptionalAuth(http.HandlerFunc(eventsHandler.List)),
		http.MethodPost: gate.RequireOrganizer(http.HandlerFunc(eventsHandler.Create)),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(eventsHandler.Get),
		http.MethodPatch:  gate.RequireAnyAuthenticated(eventOwner(http.HandlerFunc(eventsHandler.Update))),
		http.MethodDelete: gate.RequireAnyAuthenticated(eventOwner(http.HandlerFunc(eventsHandler.Delete))),
	}))

	mux.Handle("/api/v1/events/{id}/registrations", methodMux(map[string]http.Handler{
		http.MethodPost:   gate.RequireUser(http.HandlerFunc(registrationsHandler.Create)),
		http.MethodDelete: gate.RequireUser(http.HandlerFunc(registrationsHandler.Cancel)),
		http.MethodGet:    gate.RequireOrganizer(eventOwner(http.HandlerFunc(registrationsHandler.ListForEvent))),
	}))
	mux.Handle("/api/v1/registrations", methodMux(map[string]http.Handler{
		http.MethodGet: gate.RequireUserOrAdmin(http.HandlerFunc(registrationsHandler.ListMine)),
	}))

	mux.Handle("/api/v1/events/{id}/reviews", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(reviewsHandler.ListForEvent),
		http.MethodPost: gate.RequireUser(http.HandlerFunc(reviewsHandler.Create)),
	}))
	mux.Handle("/api/v1/reviews/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: gate.RequireAdmin(http.HandlerFunc(reviewsHandler.Delete)),
	}))

	mux.Handle("/api/v1/profile", methodMux(map[string]http.Handler{
		http.MethodGet:    gate.RequireAnyAuthenticated(http.HandlerFunc(profileHandler.Get)),
		http.MethodPatch:  gate.RequireAnyAuthenticated(http.HandlerFunc(profileHandler.Update)),
		http.MethodDelete: gate.RequireUserOrAdmin(http.HandlerFunc(profileHandler.Delete)),
	}))
	mux.Handle("/api/v1/profile/password", methodMux(map[string]http.Handler{
		http.MethodPost: gate.RequireUserOrAdmin(http.HandlerFunc(profileHandler.ChangePassword)),
	}))

	mux.Handle("/api/v1/admin/users", methodMux(map[string]http.Handler{
		http.MethodGet: gate.RequireAdmin(http.HandlerFunc(adminUsersHandler.List)),
	}))
	mux.Handle("/api/v1/admin/users/{id}/role", methodMux(map[string]http.Handler{
		http.MethodPut: gate.RequireAdmin(http.HandlerFunc(adminUsersHandler.ChangeRole)),
	}))
	mux.Handle("/api/v1/admin/users/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: gate.RequireAdmin(http.HandlerFunc(adminUsersHandler.Delete)),
	}))

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	handler = middleware.SecurityHeaders(cfg.Environment == "production")(handler)
	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
