package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*users.User{}, byID: map[string]*users.User{}}
}

func (r *fakeUserRepo) add(user *users.User) {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, users.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, users.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *users.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return users.ErrEmailTaken
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *users.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id string, role string) error {
	user, ok := r.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	user, ok := r.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, user.Email)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filters users.ListFilters) ([]users.User, error) {
	var result []users.User
	for _, user := range r.byID {
		if filters.Role != "" && user.Role != filters.Role {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

func testAuthHandler(t *testing.T) (*AuthHandler, *auth.Codec, *users.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newFakeUserRepo()
	user := &users.User{
		ID:           "01HZXYA6B8K9M2N3P4Q5R6S7T8",
		Name:         "Ada",
		Email:        "ada@example.com",
		Role:         users.RoleUser,
		PasswordHash: string(hash),
	}
	repo.add(user)

	codec := auth.NewCodec("handler-test-secret", time.Hour, "gatherly")
	service := users.NewService(repo, zerolog.Nop())
	return NewAuthHandler(service, nil, codec, "test"), codec, user
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	handler, codec, user := testAuthHandler(t)

	body := strings.NewReader(`{"email":"ada@example.com","password":"secret123"}`)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	recorder := httptest.NewRecorder()

	handler.Login(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response loginResponse
	require.NoError(t, decodeBody(recorder, &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, user.ID, response.Account.ID)
	require.Equal(t, "user", response.Account.Kind)

	claims, err := codec.Verify(response.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	handler, _, _ := testAuthHandler(t)

	body := strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	recorder := httptest.NewRecorder()

	handler.Login(recorder, request)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, "application/problem+json", recorder.Header().Get("Content-Type"))
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	handler, _, _ := testAuthHandler(t)

	body := strings.NewReader(`{"email":"ghost@example.com","password":"secret123"}`)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	recorder := httptest.NewRecorder()

	handler.Login(recorder, request)
	// indistinguishable from a bad password
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLoginRequiresCredentials(t *testing.T) {
	handler, _, _ := testAuthHandler(t)

	body := strings.NewReader(`{"email":"","password":""}`)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	recorder := httptest.NewRecorder()

	handler.Login(recorder, request)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRegisterThenLogin(t *testing.T) {
	handler, _, _ := testAuthHandler(t)

	body := strings.NewReader(`{"name":"Bob","email":"bob@example.com","password":"hunter2hunter2"}`)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	recorder := httptest.NewRecorder()

	handler.Register(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)

	login := strings.NewReader(`{"email":"bob@example.com","password":"hunter2hunter2"}`)
	request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", login)
	recorder = httptest.NewRecorder()

	handler.Login(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	handler, _, _ := testAuthHandler(t)

	body := strings.NewReader(`{"name":"Imposter","email":"ada@example.com","password":"hunter2hunter2"}`)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	recorder := httptest.NewRecorder()

	handler.Register(recorder, request)
	require.Equal(t, http.StatusConflict, recorder.Code)
}
