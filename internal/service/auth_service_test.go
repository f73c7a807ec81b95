package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sakhi-junction/internal/event"
	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

type memoryUserStore struct {
	byID    map[string]model.User
	byEmail map[string]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byID: map[string]model.User{}, byEmail: map[string]model.User{}}
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, apierror.NotFound("User not found")
	}
	return u, nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return model.User{}, apierror.NotFound("User not found")
	}
	return u, nil
}

func (s *memoryUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *memoryUserStore) Create(_ context.Context, u model.User) error {
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
	return nil
}

func (s *memoryUserStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	u := s.byID[userID]
	u.LastLogin = &at
	s.byID[userID] = u
	s.byEmail[u.Email] = u
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *memoryUserStore) {
	t.Helper()
	store := newMemoryUserStore()
	svc, err := NewAuthService("test-secret", time.Hour, store, NoopMailer{}, nil)
	require.NoError(t, err)
	return svc, store
}

func TestAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService("  ", time.Hour, newMemoryUserStore(), nil, nil)
	assert.Error(t, err)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, store := newTestAuthService(t)

	result, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "Asha@Example.com",
		Password: "secret123",
		Name:     "Asha",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", result.User.Email)
	assert.Equal(t, model.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.Token)

	stored := store.byEmail["asha@example.com"]
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	login, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.NotNil(t, login.User.LastLogin)
}

func TestAuthService_RegisterPublishesEvent(t *testing.T) {
	store := newMemoryUserStore()
	bus := event.NewBus()
	svc, err := NewAuthService("test-secret", time.Hour, store, NoopMailer{}, bus)
	require.NoError(t, err)

	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	result, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "asha@example.com",
		Password: "secret123",
		Name:     "Asha",
	})
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, event.TypeUserRegistered, e.Type)
		assert.Equal(t, result.User.ID, e.ActorID)
		payload, ok := e.Payload.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, result.User.ID, payload["user_id"])
	case <-time.After(time.Second):
		t.Fatal("no registration event published")
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	req := model.RegisterRequest{Email: "asha@example.com", Password: "secret123"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	apiErr, ok := err.(*apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.HTTPStatus)
	assert.Equal(t, "User already exists with this email", apiErr.Message)
}

func TestAuthService_LoginGenericFailureMessage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	for _, req := range []model.LoginRequest{
		{Email: "nobody@example.com", Password: "secret123"},
		{Email: "asha@example.com", Password: "wrong-password"},
	} {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		apiErr, ok := err.(*apierror.APIError)
		require.True(t, ok)
		assert.Equal(t, 401, apiErr.HTTPStatus)
		assert.Equal(t, "Invalid email or password", apiErr.Message)
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)

	// Verification has no side effects; a second pass yields the same claims.
	again, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, claims, again)
}

func TestAuthService_VerifyLegacyIDClaim(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "legacy-user",
		"email": "old@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := svc.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "legacy-user", claims.UserID)
}

func TestAuthService_VerifyRejections(t *testing.T) {
	svc, _ := newTestAuthService(t)

	t.Run("expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "u1",
			"exp":    time.Now().Add(-time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(signed)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "u1",
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(signed)
		assert.Error(t, err)
	})

	t.Run("missing subject claim", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"email": "asha@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(signed)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not-a-token")
		assert.Error(t, err)
	})
}
