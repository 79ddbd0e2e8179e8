package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

type mockRepository struct {
	byEmail map[string]*User
	byID    map[int64]*User
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[int64]*User),
		nextID:  1,
	}
}

func (m *mockRepository) Create(ctx context.Context, user *User) (*User, error) {
	key := strings.ToLower(user.Email)
	if _, ok := m.byEmail[key]; ok {
		return nil, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
	}
	user.ID = m.nextID
	m.nextID++
	user.Email = key
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byEmail[key] = user
	m.byID[user.ID] = user
	return user, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return user, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return user, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewTokenIssuer("test-secret", time.Hour))
}

func TestSignupIssuesResolvableToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:    "Alice@Example.com",
		Password: "p@ss1234",
		FullName: "Alice Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	userID, err := svc.Identity(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func TestSignupDuplicateHandle(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email: "alice@example.com", Password: "p@ss1234", FullName: "Alice Doe",
	})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupRequest{
		Email: "alice@example.com", Password: "other-pass", FullName: "Imposter",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
	assert.Len(t, repo.byID, 1)
}

func TestSignupNeverStoresPlaintext(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email: "alice@example.com", Password: "p@ss1234", FullName: "Alice Doe",
	})
	require.NoError(t, err)

	stored := repo.byEmail["alice@example.com"]
	assert.NotEqual(t, "p@ss1234", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "p@ss1234")
}

func TestLoginGenericCredentialFailure(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email: "alice@example.com", Password: "p@ss1234", FullName: "Alice Doe",
	})
	require.NoError(t, err)

	// Wrong password for an existing handle and a login for an absent
	// handle must be indistinguishable to the caller.
	_, wrongPass := svc.Login(context.Background(), LoginRequest{
		Email: "alice@example.com", Password: "wrong-pass",
	})
	_, unknown := svc.Login(context.Background(), LoginRequest{
		Email: "nobody@example.com", Password: "p@ss1234",
	})

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.True(t, errors.Is(wrongPass, httpx.ErrUnauthorized))
	assert.True(t, errors.Is(unknown, httpx.ErrUnauthorized))
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	signup, err := svc.Signup(context.Background(), SignupRequest{
		Email: "alice@example.com", Password: "p@ss1234", FullName: "Alice Doe",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email: "alice@example.com", Password: "p@ss1234",
	})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestIdentityOfDeletedUser(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email: "alice@example.com", Password: "p@ss1234", FullName: "Alice Doe",
	})
	require.NoError(t, err)

	delete(repo.byID, resp.User.ID)

	_, err = svc.Identity(context.Background(), resp.Token)
	assert.True(t, errors.Is(err, httpx.ErrUnauthorized))
}

func TestSelfExcludesPasswordHash(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email: "alice@example.com", Password: "p@ss1234", FullName: "Alice Doe",
	})
	require.NoError(t, err)

	view, err := svc.Self(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", view.FullName)
}
