package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

// TokenCookieName is the cookie fallback for clients that do not send an
// Authorization header. The header wins when both are present.
const TokenCookieName = "token"

type TokenVerifier interface {
	VerifyToken(tokenString string) (model.AuthClaims, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// ResourceLookup loads a resource by its URL id and reports its owner. Used
// by RequireOwnership so the handler does not fetch the resource twice.
type ResourceLookup func(ctx context.Context, id string) (resource any, ownerID string, err error)

type contextKey string

const (
	identityContextKey contextKey = "auth_identity"
	resourceContextKey contextKey = "auth_resource"
)

// AuthMiddleware is the authentication/authorization gate in front of every
// protected route: token extraction, verification, identity resolution,
// account-state policy, then role/ownership policies composed after it.
type AuthMiddleware struct {
	verifier      TokenVerifier
	users         UserFinder
	lookupTimeout time.Duration
}

func NewAuthMiddleware(verifier TokenVerifier, users UserFinder, lookupTimeout time.Duration) *AuthMiddleware {
	if lookupTimeout <= 0 {
		lookupTimeout = 3 * time.Second
	}

	return &AuthMiddleware{
		verifier:      verifier,
		users:         users,
		lookupTimeout: lookupTimeout,
	}
}

// RequireAuth rejects the request unless a valid token resolves to a usable
// account. On success the identity is attached to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, authErr := m.resolve(r)
		if authErr != nil {
			writeAuthError(w, authErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// OptionalAuth attempts the same resolution but never fails the request:
// any miss leaves the request anonymous and passes it through untouched.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, authErr := m.resolve(r)
		if authErr != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireRoles gates by role, composed strictly after RequireAuth.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, apierror.Unauthenticated("Not authorized to access this route"))
				return
			}

			if _, allowed := roleSet[strings.ToLower(identity.Role)]; !allowed {
				writeAuthError(w, apierror.Forbidden(
					fmt.Sprintf("User role %s is not authorized to access this route", identity.Role)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireVerifiedEmail blocks accounts explicitly marked unverified. An
// absent flag counts as verified, same as the account-state default.
func (m *AuthMiddleware) RequireVerifiedEmail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeAuthError(w, apierror.Unauthenticated("Not authorized to access this route"))
			return
		}

		if !identity.EmailVerification.Verified() {
			writeAuthError(w, apierror.Forbidden("Please verify your email address to access this feature"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireOwnership grants access to a resource's owner or an admin. The
// loaded resource is attached to the context so handlers skip the refetch.
// A missing upstream identity is an explicit 401, not an assumed
// precondition.
func (m *AuthMiddleware) RequireOwnership(lookup ResourceLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, apierror.Unauthenticated("Not authorized to access this route"))
				return
			}

			resource, ownerID, err := lookup(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				var apiErr *apierror.APIError
				if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound {
					writeAuthError(w, apierror.NotFound("Resource not found"))
					return
				}
				slog.Error("ownership lookup failed", "error", err)
				writeAuthError(w, apierror.Internal(err.Error()))
				return
			}

			if ownerID != identity.ID && !identity.IsAdmin() {
				writeAuthError(w, apierror.Forbidden("Not authorized to access this resource"))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), resourceContextKey, resource)))
		})
	}
}

// resolve walks the gate's single-pass pipeline: extract, verify, resolve,
// account-state check. Verification failures are logged with detail but
// reported to the client with one generic message.
func (m *AuthMiddleware) resolve(r *http.Request) (model.AuthUser, *apierror.APIError) {
	token, found := extractToken(r)
	if !found {
		return model.AuthUser{}, apierror.Unauthenticated("Not authorized to access this route")
	}

	claims, err := m.verifier.VerifyToken(token)
	if err != nil {
		slog.Debug("token verification failed", "error", err)
		return model.AuthUser{}, apierror.Unauthenticated("Not authorized to access this route")
	}

	ctx, cancel := context.WithTimeout(r.Context(), m.lookupTimeout)
	defer cancel()

	user, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil {
		var apiErr *apierror.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound:
			return model.AuthUser{}, apierror.Unauthenticated("No user found with this token")
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			slog.Warn("user lookup timed out", "user_id", claims.UserID)
			return model.AuthUser{}, apierror.Unauthenticated("Not authorized to access this route")
		default:
			slog.Error("user lookup failed", "user_id", claims.UserID, "error", err)
			return model.AuthUser{}, apierror.Internal(err.Error())
		}
	}

	if !user.Status.Usable() {
		return model.AuthUser{}, apierror.Forbidden("User account has been deactivated")
	}

	return user.Identity(), nil
}

func extractToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" && strings.HasPrefix(strings.ToLower(header), "bearer ") {
		if token := strings.TrimSpace(header[7:]); token != "" {
			return token, true
		}
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token, true
		}
	}

	return "", false
}

func WithIdentity(ctx context.Context, identity model.AuthUser) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.AuthUser, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.AuthUser)
	return identity, ok
}

func ResourceFromContext(ctx context.Context) (any, bool) {
	resource := ctx.Value(resourceContextKey)
	return resource, resource != nil
}

func writeAuthError(w http.ResponseWriter, apiErr *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: apiErr.Message,
	})
}
