package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	byID map[string]*events.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: map[string]*events.Event{}}
}

func (r *fakeEventRepo) List(ctx context.Context, filters events.Filters, pagination events.Pagination) (events.ListResult, error) {
	var items []events.Event
	for _, event := range r.byID {
		if filters.Status != "" && event.Status != filters.Status {
			continue
		}
		items = append(items, *event)
	}
	return events.ListResult{Events: items}, nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*events.Event, error) {
	if event, ok := r.byID[id]; ok {
		return event, nil
	}
	return nil, events.ErrNotFound
}

func (r *fakeEventRepo) Create(ctx context.Context, event *events.Event) error {
	r.byID[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *events.Event) error {
	if _, ok := r.byID[event.ID]; !ok {
		return events.ErrNotFound
	}
	r.byID[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return events.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

const testEventID = "01HZXYA6B8K9M2N3P4Q5R6S7T8"

func testEventsHandler(t *testing.T) (*EventsHandler, *fakeEventRepo) {
	t.Helper()
	repo := newFakeEventRepo()
	service := events.NewService(repo, zerolog.Nop())
	return NewEventsHandler(service, "test"), repo
}

func TestEventGetInvalidID(t *testing.T) {
	handler, _ := testEventsHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/events/not-a-ulid", nil)
	request.SetPathValue("id", "not-a-ulid")
	recorder := httptest.NewRecorder()

	handler.Get(recorder, request)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestEventGetNotFound(t *testing.T) {
	handler, _ := testEventsHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+testEventID, nil)
	request.SetPathValue("id", testEventID)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, request)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestEventGetFound(t *testing.T) {
	handler, repo := testEventsHandler(t)
	repo.byID[testEventID] = &events.Event{
		ID:        testEventID,
		Name:      "Jazz Night",
		Status:    events.StatusPublished,
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(26 * time.Hour),
	}

	request := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+testEventID, nil)
	request.SetPathValue("id", testEventID)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response eventResponse
	require.NoError(t, decodeBody(recorder, &response))
	require.Equal(t, "Jazz Night", response.Name)
}

func TestEventCreateRequiresOrganizerPrincipal(t *testing.T) {
	handler, _ := testEventsHandler(t)

	body := strings.NewReader(`{"name":"Jazz Night"}`)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
	recorder := httptest.NewRecorder()

	handler.Create(recorder, request)
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestEventCreateAsOrganizer(t *testing.T) {
	handler, repo := testEventsHandler(t)

	start := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(26 * time.Hour).UTC().Format(time.RFC3339)
	body := strings.NewReader(`{"name":"Jazz Night","city":"Toronto","start_time":"` + start + `","end_time":"` + end + `","capacity":100}`)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
	request = request.WithContext(middleware.ContextWithPrincipal(request.Context(), auth.Principal{
		ID: "01HZXYA6B8K9M2N3P4Q5R6S7T9", Kind: auth.KindOrganizer, Role: auth.RoleOrganizer,
	}))
	recorder := httptest.NewRecorder()

	handler.Create(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var response eventResponse
	require.NoError(t, decodeBody(recorder, &response))
	require.Equal(t, "01HZXYA6B8K9M2N3P4Q5R6S7T9", response.OrganizerID)
	require.Len(t, repo.byID, 1)
}

func TestAnonymousListSeesPublishedOnly(t *testing.T) {
	handler, repo := testEventsHandler(t)
	repo.byID["A"] = &events.Event{ID: "A", Name: "Published", Status: events.StatusPublished}
	repo.byID["B"] = &events.Event{ID: "B", Name: "Draft", Status: events.StatusDraft}

	request := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	recorder := httptest.NewRecorder()

	handler.List(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response eventListResponse
	require.NoError(t, decodeBody(recorder, &response))
	require.Len(t, response.Items, 1)
	require.Equal(t, "Published", response.Items[0].Name)
}
