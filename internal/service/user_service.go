package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register stores a new user with no role. Registering a known email is a
// no-op reported as ErrUserExists.
func (s *UserService) Register(ctx context.Context, req models.CreateUserRequest) (models.InsertResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return models.InsertResult{}, errors.Wrap(ErrInvalidInput, "email is required")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return models.InsertResult{}, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.InsertResult{}, err
	}

	user := &models.User{
		Name:      req.Name,
		Email:     email,
		PhotoURL:  req.PhotoURL,
		CreatedAt: time.Now(),
	}
	res, err := s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent registration of the same email
		return models.InsertResult{}, ErrUserExists
	}
	return res, err
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) AssignRole(ctx context.Context, idHex string, role models.UserRole) (models.UpdateResult, error) {
	if !role.Valid() {
		return models.UpdateResult{}, errors.Wrapf(ErrInvalidInput, "role %q", role)
	}
	id, err := parseID(idHex)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return s.users.SetRole(ctx, id, role)
}

func (s *UserService) Delete(ctx context.Context, idHex string) (models.DeleteResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.DeleteResult{}, err
	}
	return s.users.Delete(ctx, id)
}
