package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
)

// UserService handles administrative user operations
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all users, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateRole changes a user's role.
func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error) {
	parsed, ok := domain.ParseUserRole(role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	return s.userRepo.UpdateRole(ctx, id, parsed)
}

// DeleteUser removes a user. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	return s.userRepo.Delete(ctx, id)
}
