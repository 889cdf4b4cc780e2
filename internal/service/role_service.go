package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
)

type RoleService struct {
	users repository.UserRepository
}

func NewRoleService(users repository.UserRepository) *RoleService {
	return &RoleService{users: users}
}

// RoleOf returns the stored role for email. Unknown users have no role.
func (s *RoleService) RoleOf(ctx context.Context, email string) (models.UserRole, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", errors.Wrap(err, "resolving role")
	}
	return user.Role, nil
}

// HasRole answers "does requestedEmail hold role" for the caller identified by
// decodedEmail. Callers may only ask about themselves: any other email is
// answered false without a lookup.
func (s *RoleService) HasRole(ctx context.Context, requestedEmail, decodedEmail string, role models.UserRole) (bool, error) {
	if requestedEmail != decodedEmail {
		return false, nil
	}
	got, err := s.RoleOf(ctx, requestedEmail)
	if err != nil {
		return false, err
	}
	return got == role, nil
}
