package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/platform/httpx"
)

type stubRepo struct {
	users  map[int64]*auth.User
	emails map[string]*auth.User
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[int64]*auth.User{}, emails: map[string]*auth.User{}, nextID: 1}
}

func (s *stubRepo) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	if _, ok := s.emails[user.Email]; ok {
		return nil, httpx.ErrDuplicate
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	s.emails[user.Email] = user
	return user, nil
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return user, nil
}

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()
	service := auth.NewService(newStubRepo(), auth.NewTokenIssuer("test-secret", time.Hour))
	handler := auth.NewHandler(nil, service)

	r := chi.NewRouter()
	handler.MountPublicRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(auth.Require(service))
		handler.MountProtectedRoutes(r)
	})
	return r
}

func TestSignupLoginMeFlow(t *testing.T) {
	router := newAuthRouter(t)

	body := `{"email":"alice@example.com","password":"p@ss1234","fullName":"Alice Doe"}`
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if res.Code != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var session struct {
		User  auth.PublicUser `json:"user"`
		Token string          `json:"token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token in signup response")
	}
	if strings.Contains(res.Body.String(), "p@ss1234") {
		t.Fatalf("signup response leaks the password")
	}

	meReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+session.Token)
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, meReq)
	if meRes.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", meRes.Code)
	}
	if !strings.Contains(meRes.Body.String(), "alice@example.com") {
		t.Fatalf("me: expected user email in body")
	}
}

func TestMeWithoutToken(t *testing.T) {
	router := newAuthRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/me", nil))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestMeWithMangledHeader(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abcdef")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestSignupValidationFailureListsAllFields(t *testing.T) {
	router := newAuthRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"email":"not-an-email","password":"p","fullName":"x"}`)))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}

	var problem httpx.ProblemDetail
	if err := json.Unmarshal(res.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if len(problem.Fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %+v", len(problem.Fields), problem.Fields)
	}
}

func TestSignupConflict(t *testing.T) {
	router := newAuthRouter(t)

	body := `{"email":"alice@example.com","password":"p@ss1234","fullName":"Alice Doe"}`
	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if first.Code != http.StatusOK {
		t.Fatalf("first signup: expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if second.Code != http.StatusConflict {
		t.Fatalf("second signup: expected 409, got %d", second.Code)
	}
}

func TestLoginUnknownHandleIsGeneric(t *testing.T) {
	router := newAuthRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"whatever"}`)))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if strings.Contains(strings.ToLower(res.Body.String()), "not found") {
		t.Fatalf("login failure must not reveal handle existence: %s", res.Body.String())
	}
}
