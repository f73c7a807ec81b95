package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AccountStatus models the optional is_active attribute as an explicit
// tri-state instead of a structural absence check. Unspecified accounts are
// treated as active, matching the permissive default of the legacy API.
type AccountStatus int

const (
	StatusUnspecified AccountStatus = iota
	StatusActive
	StatusInactive
)

func AccountStatusFromPtr(v *bool) AccountStatus {
	switch {
	case v == nil:
		return StatusUnspecified
	case *v:
		return StatusActive
	default:
		return StatusInactive
	}
}

// Usable reports whether the account may authenticate. Only an explicit
// Inactive blocks access.
func (s AccountStatus) Usable() bool {
	return s != StatusInactive
}

func (s AccountStatus) Ptr() *bool {
	switch s {
	case StatusActive:
		v := true
		return &v
	case StatusInactive:
		v := false
		return &v
	default:
		return nil
	}
}

// EmailVerification is the same tri-state for the optional
// is_email_verified attribute. Absence counts as verified.
type EmailVerification int

const (
	VerificationUnspecified EmailVerification = iota
	EmailVerified
	EmailUnverified
)

func EmailVerificationFromPtr(v *bool) EmailVerification {
	switch {
	case v == nil:
		return VerificationUnspecified
	case *v:
		return EmailVerified
	default:
		return EmailUnverified
	}
}

func (v EmailVerification) Verified() bool {
	return v != EmailUnverified
}

func (v EmailVerification) Ptr() *bool {
	switch v {
	case EmailVerified:
		b := true
		return &b
	case EmailUnverified:
		b := false
		return &b
	default:
		return nil
	}
}

// User is the persisted account record. PasswordHash never leaves the
// repository/service layer.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Name              string
	Role              string
	Status            AccountStatus
	EmailVerification EmailVerification
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AuthUser is the per-request authenticated identity: the resolved account
// minus secret fields. It lives in the request context only.
type AuthUser struct {
	ID                string            `json:"id"`
	Email             string            `json:"email"`
	Name              string            `json:"name,omitempty"`
	Role              string            `json:"role"`
	Status            AccountStatus     `json:"-"`
	EmailVerification EmailVerification `json:"-"`
	LastLogin         *time.Time        `json:"last_login,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

func (u User) Identity() AuthUser {
	return AuthUser{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		Status:            u.Status,
		EmailVerification: u.EmailVerification,
		LastLogin:         u.LastLogin,
		CreatedAt:         u.CreatedAt,
	}
}

func (u AuthUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthClaims is the decoded token payload. Subject is minted as "userId" and
// read back from either "userId" or "id" for tokens issued by older builds.
type AuthClaims struct {
	UserID string
	Email  string
}
