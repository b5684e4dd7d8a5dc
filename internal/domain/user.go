package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleUser     UserRole = "USER"
	UserRoleReadOnly UserRole = "READ_ONLY"
)

// Display returns the lower-cased label used in API responses.
func (r UserRole) Display() string {
	switch r {
	case UserRoleAdmin:
		return "admin"
	case UserRoleUser:
		return "user"
	case UserRoleReadOnly:
		return "read_only"
	default:
		return ""
	}
}

// ParseUserRole maps an API-facing label to a UserRole.
func ParseUserRole(s string) (UserRole, bool) {
	switch s {
	case "admin":
		return UserRoleAdmin, true
	case "user":
		return UserRoleUser, true
	case "read_only":
		return UserRoleReadOnly, true
	default:
		return "", false
	}
}

// User represents an account holder. Authentication happens upstream; the
// backend only consumes the authenticated id and role.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role UserRole) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
