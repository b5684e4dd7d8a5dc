package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/pennyworth/pennyworth-backend/internal/middleware"
	"github.com/pennyworth/pennyworth-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// UserHandler handles administrative user management requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserResponse is the JSON shape for a user
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.Display(),
		CreatedAt: u.CreatedAt,
	}
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		return NewInternalError(c, "Failed to list users")
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateRoleRequest is the JSON body for a role change
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles PUT /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid user id", []ValidationError{{Field: "id", Message: "Must be a UUID"}})
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid JSON body", nil)
	}

	user, err := h.userService.UpdateRole(c.Request().Context(), id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			return NewValidationError(c, "Role must be admin, user or read_only", []ValidationError{{Field: "role", Message: "Unknown role"}})
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		default:
			log.Error().Err(err).Str("id", id.String()).Msg("Failed to update role")
			return NewInternalError(c, "Failed to update role")
		}
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c echo.Context) error {
	actorID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid user id", []ValidationError{{Field: "id", Message: "Must be a UUID"}})
	}

	if err := h.userService.DeleteUser(c.Request().Context(), actorID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfDelete):
			return NewValidationError(c, "Cannot delete your own account", nil)
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		default:
			log.Error().Err(err).Str("id", id.String()).Msg("Failed to delete user")
			return NewInternalError(c, "Failed to delete user")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
