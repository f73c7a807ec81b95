package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sakhi-junction/internal/event"
	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

const bcryptCost = 12

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// AuthService issues and verifies the stateless bearer tokens and owns the
// login/registration flows. The signing secret is injected once at
// construction; nothing reads the environment per request.
type AuthService struct {
	secret   []byte
	tokenTTL time.Duration
	users    userStore
	mailer   Mailer
	bus      event.Bus
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, users userStore, mailer Mailer, bus event.Bus) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if mailer == nil {
		mailer = NoopMailer{}
	}

	return &AuthService{
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		users:    users,
		mailer:   mailer,
		bus:      bus,
	}, nil
}

// AuthResult is what login and registration hand back to the client: the
// identity (password hash excluded) plus a fresh token.
type AuthResult struct {
	User  model.AuthUser `json:"user"`
	Token string         `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if exists {
		return AuthResult{}, apierror.Conflict("User already exists with this email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	token, err := s.signToken(user, now)
	if err != nil {
		return AuthResult{}, err
	}

	// Welcome mail is best-effort; registration never fails on it.
	if err := s.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		slog.Warn("welcome mail failed", "email", user.Email, "error", err)
	}

	if s.bus != nil {
		s.bus.Publish(event.Event{
			ID:        uuid.NewString(),
			Type:      event.TypeUserRegistered,
			Payload:   map[string]string{"user_id": user.ID},
			Timestamp: now.Format(time.RFC3339),
			ActorID:   user.ID,
		})
	}

	return AuthResult{User: user.Identity(), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound {
			return AuthResult{}, apierror.Unauthenticated("Invalid email or password")
		}
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return AuthResult{}, apierror.Unauthenticated("Invalid email or password")
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Last-login is bookkeeping; a failed write must not block login.
		slog.Warn("update last login failed", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	token, err := s.signToken(user, now)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user.Identity(), Token: token}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return user.Identity(), nil
}

// VerifyToken checks signature and expiry and decodes the claims. The caller
// decides how much of the failure reason reaches the client.
func (s *AuthService) VerifyToken(tokenString string) (model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return model.AuthClaims{}, fmt.Errorf("verify token: %w", err)
	}
	if !parsed.Valid {
		return model.AuthClaims{}, fmt.Errorf("verify token: token is not valid")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.AuthClaims{}, fmt.Errorf("verify token: unexpected claims type")
	}

	claims := model.AuthClaims{}
	claims.Email, _ = claimsMap["email"].(string)

	// Tokens are minted with "userId"; older builds used "id". Accept both,
	// but do not extend this shim further.
	claims.UserID, _ = claimsMap["userId"].(string)
	if claims.UserID == "" {
		claims.UserID, _ = claimsMap["id"].(string)
	}
	if claims.UserID == "" {
		return model.AuthClaims{}, fmt.Errorf("verify token: missing subject claim")
	}

	return claims, nil
}

func (s *AuthService) signToken(user model.User, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
