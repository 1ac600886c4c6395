package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/quocphungccq1911h/mobi/internal/api/dto"
	"github.com/quocphungccq1911h/mobi/internal/service"
	"github.com/quocphungccq1911h/mobi/pkg/util/errorutil"
)

// AuthHandler exposes the sign-up and sign-in boundaries.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errorutil.NewValidationError("username, email and password are required", nil)
	}

	if _, err := h.auth.Signup(c.UserContext(), req.Username, req.Email, req.Password, req.Role); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "User registered successfully!"})
}

// Signin handles POST /api/auth/signin.
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return errorutil.NewValidationError("username and password are required", nil)
	}

	user, token, _, err := h.auth.Signin(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}
	return c.JSON(dto.JwtResponse{
		Token:     token,
		TokenType: "Bearer",
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     roles,
	})
}
