package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/ids"
)

type fakeEventStore struct {
	events map[string]*events.Event
	err    error
	calls  int
}

func (s *fakeEventStore) List(ctx context.Context, filters events.Filters, pagination events.Pagination) (events.ListResult, error) {
	return events.ListResult{}, nil
}

func (s *fakeEventStore) GetByID(ctx context.Context, id string) (*events.Event, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if event, ok := s.events[id]; ok {
		return event, nil
	}
	return nil, events.ErrNotFound
}

func (s *fakeEventStore) Create(ctx context.Context, event *events.Event) error { return nil }
func (s *fakeEventStore) Update(ctx context.Context, event *events.Event) error { return nil }
func (s *fakeEventStore) Delete(ctx context.Context, id string) error           { return nil }

func ownedRequest(t *testing.T, eventID string, principal *auth.Principal) *http.Request {
	t.Helper()
	request := httptest.NewRequest(http.MethodPatch, "/api/v1/events/"+eventID, nil)
	request.SetPathValue("id", eventID)
	if principal != nil {
		request = request.WithContext(ContextWithPrincipal(request.Context(), *principal))
	}
	return request
}

func TestEventOwnerAllowsOwner(t *testing.T) {
	eventID := mustULID(t)
	store := &fakeEventStore{events: map[string]*events.Event{
		eventID: {ID: eventID, Name: "Launch Party", OrganizerID: "o1"},
	}}
	organizer := auth.Principal{ID: "o1", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}

	var attached *events.Event
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attached, _ = EventFrom(r)
		w.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	EventOwner(store, "test")(inner).ServeHTTP(recorder, ownedRequest(t, eventID, &organizer))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", recorder.Code)
	}
	if attached == nil || attached.ID != eventID {
		t.Fatalf("expected loaded event on context, got %#v", attached)
	}
}

func TestEventOwnerAllowsAdmin(t *testing.T) {
	eventID := mustULID(t)
	store := &fakeEventStore{events: map[string]*events.Event{
		eventID: {ID: eventID, OrganizerID: "o1"},
	}}
	admin := auth.Principal{ID: "a1", Kind: auth.KindEndUser, Role: auth.RoleAdmin}

	recorder := httptest.NewRecorder()
	EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(recorder, ownedRequest(t, eventID, &admin))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", recorder.Code)
	}
}

func TestEventOwnerRejectsNonOwner(t *testing.T) {
	eventID := mustULID(t)
	store := &fakeEventStore{events: map[string]*events.Event{
		eventID: {ID: eventID, OrganizerID: "o1"},
	}}

	cases := []struct {
		name      string
		principal auth.Principal
	}{
		{"other organizer", auth.Principal{ID: "o2", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}},
		{"regular user", auth.Principal{ID: "u1", Kind: auth.KindEndUser, Role: auth.RoleUser}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			recorder := httptest.NewRecorder()
			EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})).ServeHTTP(recorder, ownedRequest(t, eventID, &tc.principal))

			if recorder.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", recorder.Code)
			}
			if called {
				t.Fatal("handler ran for non-owner")
			}
		})
	}
}

func TestEventOwnerInvalidIDSkipsStore(t *testing.T) {
	store := &fakeEventStore{}
	organizer := auth.Principal{ID: "o1", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}

	for _, badID := range []string{"not-a-ulid", "12345", ""} {
		recorder := httptest.NewRecorder()
		EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler ran for invalid id")
		})).ServeHTTP(recorder, ownedRequest(t, badID, &organizer))

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", badID, recorder.Code)
		}
	}
	if store.calls != 0 {
		t.Fatalf("store queried %d times for invalid ids", store.calls)
	}
}

func TestEventOwnerAbsentEvent(t *testing.T) {
	store := &fakeEventStore{}
	organizer := auth.Principal{ID: "o1", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}

	recorder := httptest.NewRecorder()
	EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler ran for absent event")
	})).ServeHTTP(recorder, ownedRequest(t, mustULID(t), &organizer))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestEventOwnerStoreFailure(t *testing.T) {
	store := &fakeEventStore{err: errors.New("pool exhausted")}
	organizer := auth.Principal{ID: "o1", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}

	recorder := httptest.NewRecorder()
	EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler ran despite store failure")
	})).ServeHTTP(recorder, ownedRequest(t, mustULID(t), &organizer))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestEventOwnerMissingPrincipal(t *testing.T) {
	store := &fakeEventStore{}

	recorder := httptest.NewRecorder()
	EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler ran without principal")
	})).ServeHTTP(recorder, ownedRequest(t, mustULID(t), nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if store.calls != 0 {
		t.Fatal("store queried without principal")
	}
}

func TestEventOwnerLowercaseIDNormalized(t *testing.T) {
	eventID := mustULID(t)
	store := &fakeEventStore{events: map[string]*events.Event{
		eventID: {ID: eventID, OrganizerID: "o1"},
	}}
	organizer := auth.Principal{ID: "o1", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}

	recorder := httptest.NewRecorder()
	EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(recorder, ownedRequest(t, strings.ToLower(eventID), &organizer))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected lowercase id to resolve after normalization, got %d", recorder.Code)
	}
}

func TestEventOwnerDecisionIsRepeatable(t *testing.T) {
	eventID := mustULID(t)
	store := &fakeEventStore{events: map[string]*events.Event{
		eventID: {ID: eventID, OrganizerID: "o1"},
	}}

	cases := []struct {
		name      string
		principal auth.Principal
		status    int
	}{
		{"owner", auth.Principal{ID: "o1", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}, http.StatusOK},
		{"non-owner", auth.Principal{ID: "o2", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store.calls = 0
			for run := 0; run < 2; run++ {
				recorder := httptest.NewRecorder()
				EventOwner(store, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				})).ServeHTTP(recorder, ownedRequest(t, eventID, &tc.principal))

				if recorder.Code != tc.status {
					t.Fatalf("run %d: expected %d, got %d", run, tc.status, recorder.Code)
				}
			}
			if store.calls != 2 {
				t.Fatalf("expected a fresh load per invocation, store queried %d times", store.calls)
			}
		})
	}
}

func mustULID(t *testing.T) string {
	t.Helper()
	id, err := ids.NewULID()
	if err != nil {
		t.Fatalf("mint ulid: %v", err)
	}
	return id
}
