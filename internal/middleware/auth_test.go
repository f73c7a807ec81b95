package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

type fakeVerifier struct {
	claims model.AuthClaims
	err    error
}

func (f *fakeVerifier) VerifyToken(string) (model.AuthClaims, error) {
	return f.claims, f.err
}

type fakeUserFinder struct {
	users map[string]model.User
	err   error
	delay time.Duration
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return model.User{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("User not found")
	}
	return u, nil
}

func boolPtr(v bool) *bool { return &v }

func activeUser() model.User {
	return model.User{
		ID:     "u1",
		Email:  "asha@example.com",
		Name:   "Asha",
		Role:   model.RoleUser,
		Status: model.AccountStatusFromPtr(boolPtr(true)),
	}
}

func echoIdentity(t *testing.T, captured *model.AuthUser) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			*captured = identity
		}
		w.WriteHeader(http.StatusOK)
	})
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth_StateMachine(t *testing.T) {
	inactive := activeUser()
	inactive.Status = model.AccountStatusFromPtr(boolPtr(false))

	unspecified := activeUser()
	unspecified.Status = model.AccountStatusFromPtr(nil)

	tests := []struct {
		name        string
		header      string
		verifier    *fakeVerifier
		users       map[string]model.User
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no token",
			header:      "",
			verifier:    &fakeVerifier{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized to access this route",
		},
		{
			name:        "malformed header",
			header:      "Token abc",
			verifier:    &fakeVerifier{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized to access this route",
		},
		{
			name:        "invalid token",
			header:      "Bearer bad",
			verifier:    &fakeVerifier{err: errors.New("signature mismatch")},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized to access this route",
		},
		{
			name:        "token for deleted user",
			header:      "Bearer ok",
			verifier:    &fakeVerifier{claims: model.AuthClaims{UserID: "ghost"}},
			users:       map[string]model.User{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "No user found with this token",
		},
		{
			name:        "deactivated account",
			header:      "Bearer ok",
			verifier:    &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}},
			users:       map[string]model.User{"u1": inactive},
			wantStatus:  http.StatusForbidden,
			wantMessage: "User account has been deactivated",
		},
		{
			name:       "active account",
			header:     "Bearer ok",
			verifier:   &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}},
			users:      map[string]model.User{"u1": activeUser()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unspecified status treated as active",
			header:     "Bearer ok",
			verifier:   &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}},
			users:      map[string]model.User{"u1": unspecified},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMiddleware(tt.verifier, &fakeUserFinder{users: tt.users}, time.Second)

			var captured model.AuthUser
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.RequireAuth(echoIdentity(t, &captured)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "u1", captured.ID)
			} else {
				body := envelope(t, rec)
				assert.False(t, body.Success)
				assert.Equal(t, tt.wantMessage, body.Message)
			}
		})
	}
}

func TestRequireAuth_HeaderWinsOverCookie(t *testing.T) {
	verifier := &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}}
	mw := NewAuthMiddleware(verifier, &fakeUserFinder{users: map[string]model.User{"u1": activeUser()}}, time.Second)

	var captured model.AuthUser
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()

	mw.RequireAuth(echoIdentity(t, &captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", captured.ID)
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	verifier := &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}}
	mw := NewAuthMiddleware(verifier, &fakeUserFinder{users: map[string]model.User{"u1": activeUser()}}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()

	var captured model.AuthUser
	mw.RequireAuth(echoIdentity(t, &captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_LookupTimeout(t *testing.T) {
	verifier := &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}}
	finder := &fakeUserFinder{users: map[string]model.User{"u1": activeUser()}, delay: 200 * time.Millisecond}
	mw := NewAuthMiddleware(verifier, finder, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer ok")
	rec := httptest.NewRecorder()

	var captured model.AuthUser
	mw.RequireAuth(echoIdentity(t, &captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to access this route", envelope(t, rec).Message)
}

func TestRequireAuth_StoreErrorIsServerError(t *testing.T) {
	verifier := &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}}
	finder := &fakeUserFinder{err: errors.New("connection refused")}
	mw := NewAuthMiddleware(verifier, finder, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer ok")
	rec := httptest.NewRecorder()

	var captured model.AuthUser
	mw.RequireAuth(echoIdentity(t, &captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "Internal server error. Please try again.", body.Message)
	assert.NotContains(t, body.Message, "connection refused")
}

func TestOptionalAuth_NeverFails(t *testing.T) {
	inactive := activeUser()
	inactive.Status = model.AccountStatusFromPtr(boolPtr(false))

	tests := []struct {
		name         string
		header       string
		verifier     *fakeVerifier
		finder       *fakeUserFinder
		wantIdentity bool
	}{
		{
			name:     "no token",
			verifier: &fakeVerifier{},
			finder:   &fakeUserFinder{},
		},
		{
			name:     "invalid token",
			header:   "Bearer bad",
			verifier: &fakeVerifier{err: errors.New("expired")},
			finder:   &fakeUserFinder{},
		},
		{
			name:     "unknown user",
			header:   "Bearer ok",
			verifier: &fakeVerifier{claims: model.AuthClaims{UserID: "ghost"}},
			finder:   &fakeUserFinder{users: map[string]model.User{}},
		},
		{
			name:     "deactivated account stays anonymous",
			header:   "Bearer ok",
			verifier: &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}},
			finder:   &fakeUserFinder{users: map[string]model.User{"u1": inactive}},
		},
		{
			name:     "store failure stays anonymous",
			header:   "Bearer ok",
			verifier: &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}},
			finder:   &fakeUserFinder{err: errors.New("connection refused")},
		},
		{
			name:         "valid token attaches identity",
			header:       "Bearer ok",
			verifier:     &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}},
			finder:       &fakeUserFinder{users: map[string]model.User{"u1": activeUser()}},
			wantIdentity: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMiddleware(tt.verifier, tt.finder, time.Second)

			calls := 0
			var captured model.AuthUser
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if identity, ok := IdentityFromContext(r.Context()); ok {
					captured = identity
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/feed", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.OptionalAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, 1, calls)
			if tt.wantIdentity {
				assert.Equal(t, "u1", captured.ID)
			} else {
				assert.Empty(t, captured.ID)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	mw := NewAuthMiddleware(&fakeVerifier{}, &fakeUserFinder{}, time.Second)
	gate := mw.RequireRoles(model.RoleAdmin)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing identity is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		rec := httptest.NewRecorder()

		gate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role is 403 naming the role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req = req.WithContext(WithIdentity(req.Context(), model.AuthUser{ID: "u1", Role: model.RoleUser}))
		rec := httptest.NewRecorder()

		gate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "User role user is not authorized to access this route", envelope(t, rec).Message)
	})

	t.Run("allowed role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req = req.WithContext(WithIdentity(req.Context(), model.AuthUser{ID: "a1", Role: model.RoleAdmin}))
		rec := httptest.NewRecorder()

		gate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireVerifiedEmail(t *testing.T) {
	mw := NewAuthMiddleware(&fakeVerifier{}, &fakeUserFinder{}, time.Second)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	run := func(verification model.EmailVerification) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/posts", nil)
		req = req.WithContext(WithIdentity(req.Context(), model.AuthUser{
			ID:                "u1",
			Role:              model.RoleUser,
			EmailVerification: verification,
		}))
		rec := httptest.NewRecorder()
		mw.RequireVerifiedEmail(next).ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, run(model.EmailVerified).Code)
	assert.Equal(t, http.StatusOK, run(model.VerificationUnspecified).Code)

	rec := run(model.EmailUnverified)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Please verify your email address to access this feature", envelope(t, rec).Message)
}

func TestRequireOwnership(t *testing.T) {
	mw := NewAuthMiddleware(&fakeVerifier{}, &fakeUserFinder{}, time.Second)

	type note struct{ Text string }
	lookup := func(_ context.Context, id string) (any, string, error) {
		if id == "missing" {
			return nil, "", apierror.NotFound("Post not found")
		}
		if id == "broken" {
			return nil, "", errors.New("connection refused")
		}
		return note{Text: "hello"}, "owner-1", nil
	}

	serve := func(t *testing.T, identity *model.AuthUser, resourceID string, next http.Handler) *httptest.ResponseRecorder {
		t.Helper()
		r := chi.NewRouter()
		r.With(mw.RequireOwnership(lookup)).Put("/notes/{id}", next.ServeHTTP)

		req := httptest.NewRequest(http.MethodPut, "/notes/"+resourceID, nil)
		if identity != nil {
			req = req.WithContext(WithIdentity(req.Context(), *identity))
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing identity is explicit 401", func(t *testing.T) {
		rec := serve(t, nil, "n1", ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Not authorized to access this route", envelope(t, rec).Message)
	})

	t.Run("missing resource is 404 before ownership", func(t *testing.T) {
		stranger := model.AuthUser{ID: "someone-else", Role: model.RoleUser}
		rec := serve(t, &stranger, "missing", ok)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Resource not found", envelope(t, rec).Message)
	})

	t.Run("owner passes with resource in context", func(t *testing.T) {
		owner := model.AuthUser{ID: "owner-1", Role: model.RoleUser}
		var got any
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = ResourceFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := serve(t, &owner, "n1", next)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, note{Text: "hello"}, got)
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := model.AuthUser{ID: "a1", Role: model.RoleAdmin}
		rec := serve(t, &admin, "n1", ok)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other user is 403", func(t *testing.T) {
		stranger := model.AuthUser{ID: "someone-else", Role: model.RoleUser}
		rec := serve(t, &stranger, "n1", ok)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Not authorized to access this resource", envelope(t, rec).Message)
	})

	t.Run("lookup failure is 500", func(t *testing.T) {
		owner := model.AuthUser{ID: "owner-1", Role: model.RoleUser}
		rec := serve(t, &owner, "broken", ok)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAuthChain_EndToEnd(t *testing.T) {
	verifier := &fakeVerifier{claims: model.AuthClaims{UserID: "u1"}}
	finder := &fakeUserFinder{users: map[string]model.User{"u1": activeUser()}}
	mw := NewAuthMiddleware(verifier, finder, time.Second)

	r := chi.NewRouter()
	r.With(mw.RequireAuth, mw.RequireRoles(model.RoleUser, model.RoleAdmin)).
		Get("/me", func(w http.ResponseWriter, req *http.Request) {
			identity, _ := IdentityFromContext(req.Context())
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(identity.Email))
		})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer ok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha@example.com", rec.Body.String())
}
