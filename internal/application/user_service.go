package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ardiansyahdev/account-service/internal/domain/entity"
	repo "github.com/ardiansyahdev/account-service/internal/domain/repository"
	"github.com/ardiansyahdev/account-service/pkg/helpers"
)

// UserService serves account lookups, profile updates and search.
type UserService struct {
	Repo         repo.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	GCS          *storage.Client
	GCSBucket    string
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, gcs *storage.Client, gcsBucket string) *UserService {
	return &UserService{
		Repo:         r,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	return s.Repo.List(ctx)
}

// UpdateProfileInput carries the mutable profile fields; empty values are
// left untouched.
type UpdateProfileInput struct {
	Name  string
	Phone string
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	_ = indexUser(ctx, s.ES, s.ESUsersIndex, s.Logger, u)
	return u, nil
}

// UploadAvatar stores the image in GCS under avatars/<uid>/ and records the
// public URL on the account.
func (s *UserService) UploadAvatar(ctx context.Context, id string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", u.ID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	_ = indexUser(ctx, s.ES, s.ESUsersIndex, s.Logger, u)
	return url, nil
}

func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return searchUsers(ctx, s.ES, s.ESUsersIndex, q, size)
}
