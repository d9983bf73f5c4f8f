package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ardiansyahdev/account-service/internal/domain/entity"
	"github.com/ardiansyahdev/account-service/internal/domain/repository"
)

const userColumns = `id, name, user_name, phone, email, role, status, password_hash,
	verified, verification_code, verification_code_expiry,
	forgot_password_code, forgot_password_code_expiry,
	avatar_url, last_login, login_attempts, account_locked_until,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.UserName, &u.Phone, &u.Email, &u.Role, &u.Status, &u.PasswordHash,
		&u.Verified, &u.VerificationCode, &u.VerificationCodeExpiry,
		&u.ForgotPasswordCode, &u.ForgotPasswordCodeExpiry,
		&u.AvatarURL, &u.LastLogin, &u.LoginAttempts, &u.AccountLockedUntil,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create inserts the user. The email and username are lowercased here: the
// store owns case normalization. A unique-violation from Postgres is mapped
// by constraint name so the caller learns which field collided.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = strings.ToLower(u.Email)
	u.UserName = strings.ToLower(u.UserName)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, user_name, phone, email, role, status, password_hash, verified, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, u.Name, u.UserName, u.Phone, u.Email, u.Role, u.Status, u.PasswordHash, u.Verified, u.AvatarURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return repository.ErrEmailTaken
		case strings.Contains(pgErr.ConstraintName, "user_name"):
			return repository.ErrUsernameTaken
		}
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns), id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE email = lower($1)`, userColumns),
		email)
	return scanUser(row)
}

func (r *UserRepository) GetByLoginID(ctx context.Context, loginID string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE email = lower($1) OR user_name = lower($1)`, userColumns),
		loginID)
	return scanUser(row)
}

// FindByEmailOrUsername returns the email-matching row first. When the email
// and username belong to two different rows, the email hit must be the one
// reported so the caller attributes the conflict to the email field.
func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, userName string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users
			WHERE email = lower($1) OR user_name = lower($2)
			ORDER BY (email = lower($1)) DESC
			LIMIT 1`, userColumns),
		email, userName)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, phone = $2, avatar_url = $3, updated_at = $4
		WHERE id = $5
	`, u.Name, u.Phone, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetVerificationCode(ctx context.Context, id, code string, expiry time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET verification_code = $1, verification_code_expiry = $2, updated_at = now()
		WHERE id = $3
	`, code, expiry, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
