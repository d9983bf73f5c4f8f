package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ardiansyahdev/account-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken and ErrUsernameTaken are returned by Create when the
	// store's unique constraints reject the insert. The store, not the
	// pre-check, is the authority on uniqueness.
	ErrEmailTaken    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already in use")
)

// UserRepository defines the persistence contract for user accounts.
// Email and username lookups are case-insensitive; the store keeps both
// lowercased.
type UserRepository interface {
	// Create inserts u and fills in store-assigned fields (ID, timestamps).
	// Returns ErrEmailTaken or ErrUsernameTaken on a unique-key collision.
	Create(ctx context.Context, u *entity.User) error

	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByLoginID resolves loginID against email or username and includes
	// the password hash for credential verification.
	GetByLoginID(ctx context.Context, loginID string) (*entity.User, error)

	// FindByEmailOrUsername is the signup fast-path duplicate check.
	// When email and username match two different rows, the email-matching
	// row is returned; email conflicts take precedence over username
	// conflicts. Returns ErrNotFound when neither matches.
	FindByEmailOrUsername(ctx context.Context, email, userName string) (*entity.User, error)

	List(ctx context.Context) ([]*entity.User, error)

	Update(ctx context.Context, u *entity.User) error

	// SetVerificationCode persists a freshly issued code and its expiry.
	SetVerificationCode(ctx context.Context, id, code string, expiry time.Time) error
}
