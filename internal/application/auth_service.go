package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/ardiansyahdev/account-service/internal/domain/entity"
	repo "github.com/ardiansyahdev/account-service/internal/domain/repository"
	"github.com/ardiansyahdev/account-service/pkg/helpers"
	"github.com/ardiansyahdev/account-service/pkg/mailer"
	tpl "github.com/ardiansyahdev/account-service/pkg/mailer/templates"
)

var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password; callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailNotVerified   = errors.New("account is not verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("account is already verified")
)

// EmailEnqueuer hands an email job to the out-of-band notification channel.
// *helpers.RabbitPublisher satisfies it.
type EmailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService orchestrates signup, login and verification-code issuance.
type AuthService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Sink         EmailEnqueuer
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string

	AppName         string
	MailSendEnabled bool
	CodeTTL         time.Duration
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, sink EmailEnqueuer, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex, appName string, mailEnabled bool, codeTTL time.Duration) *AuthService {
	return &AuthService{
		Repo:            repo,
		JWT:             jwt,
		Sink:            sink,
		Logger:          logger,
		ES:              es,
		ESUsersIndex:    esUsersIndex,
		AppName:         appName,
		MailSendEnabled: mailEnabled,
		CodeTTL:         codeTTL,
	}
}

// SignupParams is a validated, normalized signup payload.
type SignupParams struct {
	Name     string
	UserName string
	Phone    string
	Email    string
	Role     string
	Password string
}

// Session is an issued token plus its expiry, ready for cookie transport.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Signup creates a pending, unverified account and issues a session token.
// The duplicate pre-check is a fast path for a friendly error; the store's
// unique constraints at insert time are the authority, so a concurrent
// create still surfaces as ErrEmailTaken/ErrUsernameTaken.
func (s *AuthService) Signup(ctx context.Context, p SignupParams) (*entity.User, Session, error) {
	role := entity.Role(p.Role)
	if p.Role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		return nil, Session{}, fmt.Errorf("invalid role %q", p.Role)
	}

	existing, err := s.Repo.FindByEmailOrUsername(ctx, p.Email, p.UserName)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, Session{}, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		// Email takes precedence when both collide.
		if strings.EqualFold(existing.Email, p.Email) {
			return nil, Session{}, repo.ErrEmailTaken
		}
		return nil, Session{}, repo.ErrUsernameTaken
	}

	hash, err := helpers.HashPassword(p.Password)
	if err != nil {
		return nil, Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Name:         p.Name,
		UserName:     p.UserName,
		Phone:        p.Phone,
		Email:        p.Email,
		Role:         role,
		Status:       entity.StatusPending,
		PasswordHash: hash,
		Verified:     false,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, Session{}, err
	}

	sess, err := s.issueSession(u)
	if err != nil {
		return nil, Session{}, err
	}

	_ = indexUser(ctx, s.ES, s.ESUsersIndex, s.Logger, u)

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.UserName}).Info("user signed up")
	return u, sess, nil
}

// Login verifies credentials against the identifier (email or username,
// case-normalized) and issues a session token. Unknown identifier and wrong
// password produce the identical ErrInvalidCredentials; an unverified
// account with correct credentials is the one distinguishable outcome.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*entity.User, Session, error) {
	u, err := s.Repo.GetByLoginID(ctx, strings.ToLower(loginID))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, Session{}, ErrInvalidCredentials
		}
		return nil, Session{}, fmt.Errorf("lookup: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, Session{}, ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, Session{}, ErrEmailNotVerified
	}

	sess, err := s.issueSession(u)
	if err != nil {
		return nil, Session{}, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user logged in")
	return u, sess, nil
}

// RequestVerificationCode persists a fresh 6-digit code with an expiry and
// dispatches it through the notification sink. The code never travels back
// to the caller.
func (s *AuthService) RequestVerificationCode(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup: %w", err)
	}
	if u.Verified {
		return ErrAlreadyVerified
	}

	code, err := helpers.GenVerificationCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	expiry := time.Now().Add(s.CodeTTL)
	if err := s.Repo.SetVerificationCode(ctx, u.ID, code, expiry); err != nil {
		return fmt.Errorf("persist code: %w", err)
	}

	if s.Sink != nil && s.MailSendEnabled {
		data := tpl.NewVerificationCodeData(s.AppName, u.Name, u.Email, code, expiry)
		job := mailer.EmailJob{To: u.Email, Template: tpl.VerificationCode, Data: tpl.ToMap(data)}
		if err := s.Sink.PublishJSON(ctx, job); err != nil {
			return fmt.Errorf("enqueue verification email: %w", err)
		}
	}

	s.Logger.WithField("user_id", u.ID).Info("verification code issued")
	return nil
}

func (s *AuthService) issueSession(u *entity.User) (Session, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Email, string(u.Role))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}
