package entity

import (
	"time"
)

// Role is the authorization role stored on a user. Roles are persisted but
// no route enforces them yet.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleModerator Role = "moderator"
)

// Status is the lifecycle state of a user account.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleDeveloper, RoleModerator:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusPending:
		return true
	}
	return false
}

// User is the aggregate root for the account domain. PasswordHash holds a
// bcrypt hash and must never reach an outward-facing representation; the
// same goes for the verification and reset code fields.
//
// LastLogin, LoginAttempts and AccountLockedUntil are persisted but no flow
// reads or writes them yet.
type User struct {
	ID           string
	Name         string
	UserName     string
	Phone        string
	Email        string
	Role         Role
	Status       Status
	PasswordHash string
	Verified     bool

	VerificationCode       *string
	VerificationCodeExpiry *time.Time

	ForgotPasswordCode       *string
	ForgotPasswordCodeExpiry *time.Time

	AvatarURL string

	LastLogin          *time.Time
	LoginAttempts      int
	AccountLockedUntil *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
