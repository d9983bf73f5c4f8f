package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyahdev/account-service/internal/domain/entity"
	repo "github.com/ardiansyahdev/account-service/internal/domain/repository"
	"github.com/ardiansyahdev/account-service/pkg/helpers"
	"github.com/ardiansyahdev/account-service/pkg/mailer"
)

// memRepo is an in-memory UserRepository for service tests. It mirrors the
// store's behavior: lowercased email/username, email-first duplicate lookup.
type memRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*entity.User)}
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	u.Email = strings.ToLower(u.Email)
	u.UserName = strings.ToLower(u.UserName)
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrEmailTaken
		}
		if existing.UserName == u.UserName {
			return repo.ErrUsernameTaken
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) GetByLoginID(_ context.Context, loginID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loginID = strings.ToLower(loginID)
	for _, u := range r.users {
		if u.Email == loginID || u.UserName == loginID {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) FindByEmailOrUsername(_ context.Context, email, userName string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	userName = strings.ToLower(userName)
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	for _, u := range r.users {
		if u.UserName == userName {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *memRepo) SetVerificationCode(_ context.Context, id, code string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.VerificationCode = &code
	u.VerificationCodeExpiry = &expiry
	return nil
}

var _ repo.UserRepository = (*memRepo)(nil)

// memSink records published email jobs.
type memSink struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (s *memSink) PublishJSON(_ context.Context, body any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		s.jobs = append(s.jobs, job)
	}
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthService(r repo.UserRepository, sink EmailEnqueuer) *AuthService {
	jwt := helpers.NewJWTManager("test-secret", 7*24*time.Hour)
	return NewAuthService(r, jwt, sink, testLogger(), nil, "", "account-service", true, 10*time.Minute)
}

func validSignupParams() SignupParams {
	return SignupParams{
		Name:     "Ana Li",
		UserName: "ana_dev1",
		Phone:    "+12345678",
		Email:    "ana@x.com",
		Password: "Abcdefg1!",
	}
}

func TestSignupCreatesPendingUnverifiedUser(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	u, sess, err := svc.Signup(context.Background(), validSignupParams())
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, entity.RoleUser, u.Role, "role defaults to user")
	assert.Equal(t, entity.StatusPending, u.Status)
	assert.False(t, u.Verified)
	assert.NotEqual(t, "Abcdefg1!", u.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "Abcdefg1!"))

	require.NotEmpty(t, sess.Token)
	claims, err := svc.JWT.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestSignupKeepsExplicitRole(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	p := validSignupParams()
	p.Role = "moderator"
	u, _, err := svc.Signup(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleModerator, u.Role)
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	p := validSignupParams()
	p.Role = "superuser"
	_, _, err := svc.Signup(context.Background(), p)
	assert.Error(t, err)
}

func TestSignupDuplicateEmail(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	_, _, err := svc.Signup(context.Background(), validSignupParams())
	require.NoError(t, err)

	p := validSignupParams()
	p.UserName = "other_name"
	_, _, err = svc.Signup(context.Background(), p)
	assert.ErrorIs(t, err, repo.ErrEmailTaken)
}

func TestSignupDuplicateUsername(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	_, _, err := svc.Signup(context.Background(), validSignupParams())
	require.NoError(t, err)

	p := validSignupParams()
	p.Email = "other@x.com"
	_, _, err = svc.Signup(context.Background(), p)
	assert.ErrorIs(t, err, repo.ErrUsernameTaken)
}

func TestSignupEmailConflictWinsWhenBothCollide(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	// Two users: one holds the email, the other holds the username.
	_, _, err := svc.Signup(context.Background(), validSignupParams())
	require.NoError(t, err)
	p2 := validSignupParams()
	p2.Email = "bea@x.com"
	p2.UserName = "bea_dev1"
	_, _, err = svc.Signup(context.Background(), p2)
	require.NoError(t, err)

	p3 := validSignupParams()
	p3.Email = "ana@x.com"  // collides with first
	p3.UserName = "bea_dev1" // collides with second
	_, _, err = svc.Signup(context.Background(), p3)
	assert.ErrorIs(t, err, repo.ErrEmailTaken)
}

func TestFindByEmailOrUsernameFavorsEmailMatch(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	_, _, err := svc.Signup(context.Background(), validSignupParams())
	require.NoError(t, err)
	p2 := validSignupParams()
	p2.Email = "bea@x.com"
	p2.UserName = "bea_dev1"
	_, _, err = svc.Signup(context.Background(), p2)
	require.NoError(t, err)

	// Email matches one row, username another: the email-matching row must
	// come back, per the repository contract.
	got, err := r.FindByEmailOrUsername(context.Background(), "ana@x.com", "bea_dev1")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", got.Email)
}

func TestSignupStoreIsConflictAuthority(t *testing.T) {
	r := newMemRepo()
	r.createErr = repo.ErrEmailTaken // concurrent insert beat the pre-check
	svc := newAuthService(r, nil)

	_, _, err := svc.Signup(context.Background(), validSignupParams())
	assert.ErrorIs(t, err, repo.ErrEmailTaken)
}

func mustSignup(t *testing.T, svc *AuthService, verified bool) *entity.User {
	t.Helper()
	u, _, err := svc.Signup(context.Background(), validSignupParams())
	require.NoError(t, err)
	if verified {
		u.Verified = true
		u.Status = entity.StatusActive
	}
	return u
}

func TestLoginSuccessByEmailAndUsername(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)
	mustSignup(t, svc, true)

	for _, id := range []string{"ana@x.com", "ana_dev1", "ANA@X.COM", "Ana_Dev1"} {
		u, sess, err := svc.Login(context.Background(), id, "Abcdefg1!")
		require.NoError(t, err, "loginID %q", id)
		assert.Equal(t, "ana@x.com", u.Email)
		assert.NotEmpty(t, sess.Token)
	}
}

func TestLoginUnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)
	mustSignup(t, svc, true)

	_, _, errUnknown := svc.Login(context.Background(), "ghost@x.com", "Abcdefg1!")
	_, _, errWrongPwd := svc.Login(context.Background(), "ana@x.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPwd, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPwd.Error())
}

func TestLoginUnverifiedRejectedAfterCredentialCheck(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)
	mustSignup(t, svc, false)

	// Correct credentials, unverified account: the one distinguishable case.
	_, _, err := svc.Login(context.Background(), "ana@x.com", "Abcdefg1!")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	// Wrong password on the same unverified account must not leak that the
	// account exists but is unverified.
	_, _, err = svc.Login(context.Background(), "ana@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequestVerificationCodeUnknownEmail(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)

	err := svc.RequestVerificationCode(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestVerificationCodeAlreadyVerified(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)
	mustSignup(t, svc, true)

	err := svc.RequestVerificationCode(context.Background(), "ana@x.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestRequestVerificationCodePersistsAndEnqueues(t *testing.T) {
	r := newMemRepo()
	sink := &memSink{}
	svc := newAuthService(r, sink)
	u := mustSignup(t, svc, false)

	before := time.Now()
	err := svc.RequestVerificationCode(context.Background(), "ana@x.com")
	require.NoError(t, err)

	stored, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationCode)
	require.NotNil(t, stored.VerificationCodeExpiry)
	assert.Len(t, *stored.VerificationCode, 6)
	assert.WithinDuration(t, before.Add(10*time.Minute), *stored.VerificationCodeExpiry, 5*time.Second)

	require.Len(t, sink.jobs, 1)
	job := sink.jobs[0]
	assert.Equal(t, "ana@x.com", job.To)
	assert.Equal(t, "verification_code", job.Template)
	assert.Equal(t, *stored.VerificationCode, job.Data["Code"])
}

func TestRequestVerificationCodeReplacesPreviousCode(t *testing.T) {
	r := newMemRepo()
	sink := &memSink{}
	svc := newAuthService(r, sink)
	u := mustSignup(t, svc, false)

	require.NoError(t, svc.RequestVerificationCode(context.Background(), "ana@x.com"))
	require.NoError(t, svc.RequestVerificationCode(context.Background(), "ana@x.com"))

	stored, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)

	// The stored code always tracks the latest issued one.
	require.Len(t, sink.jobs, 2)
	assert.Equal(t, *stored.VerificationCode, sink.jobs[1].Data["Code"])
}

func TestRequestVerificationCodeSinkFailure(t *testing.T) {
	r := newMemRepo()
	sink := &memSink{err: errors.New("broker down")}
	svc := newAuthService(r, sink)
	mustSignup(t, svc, false)

	err := svc.RequestVerificationCode(context.Background(), "ana@x.com")
	assert.Error(t, err)
}

func TestRequestVerificationCodeWithoutSink(t *testing.T) {
	r := newMemRepo()
	svc := newAuthService(r, nil)
	u := mustSignup(t, svc, false)

	require.NoError(t, svc.RequestVerificationCode(context.Background(), "ana@x.com"))
	stored, _ := r.GetByID(context.Background(), u.ID)
	assert.NotNil(t, stored.VerificationCode)
}
