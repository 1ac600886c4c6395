package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/quocphungccq1911h/mobi/internal/api/dto"
	"github.com/quocphungccq1911h/mobi/internal/auth"
	"github.com/quocphungccq1911h/mobi/internal/service"
	"github.com/quocphungccq1911h/mobi/pkg/util/errorutil"
)

// The generic forgot-password acknowledgment. Identical for known and
// unknown emails so account existence is never disclosed.
const resetRequestedMessage = "If your email exists in our system, a password reset link has been sent."

// UsersHandler exposes account administration and the reset-flow
// boundaries.
type UsersHandler struct {
	users  *service.UserService
	auth   *service.AuthService
	resets *service.PasswordResetService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, authService *service.AuthService, resetService *service.PasswordResetService) *UsersHandler {
	return &UsersHandler{users: userService, auth: authService, resets: resetService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.NewUserResponses(users))
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	actor, _ := auth.IdentityFromContext(c)
	user, err := h.users.Update(c.UserContext(), actor, id, service.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully!"})
}

// ChangePassword handles POST /api/users/change-password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return errorutil.NewValidationError("current and new password are required", nil)
	}

	if err := h.auth.ChangePassword(c.UserContext(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed successfully!"})
}

// ForgotPassword handles POST /api/users/forgot-password. The response is
// the same whether or not the email is known.
func (h *UsersHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return errorutil.NewValidationError("email is required", nil)
	}

	if err := h.resets.RequestReset(c.UserContext(), req.Email); err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.MessageResponse{Message: resetRequestedMessage})
}

// ResetPassword handles POST /api/users/reset-password.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.NewPassword == "" {
		return errorutil.NewValidationError("token and new password are required", nil)
	}

	if err := h.resets.ConsumeReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password has been reset successfully."})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, errorutil.NewValidationError("invalid id", nil)
	}
	return id, nil
}
