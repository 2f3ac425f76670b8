package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/favourites-api/internal/api/dto"
	"github.com/spec-kit/favourites-api/internal/service"
	apperrors "github.com/spec-kit/favourites-api/pkg/util"
)

// UsersHandler exposes registration and login.
type UsersHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, authService *service.AuthService) *UsersHandler {
	return &UsersHandler{users: users, auth: authService}
}

// Register handles POST /api/user/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	msg, err := h.users.CreateUser(c.UserContext(), service.RegisterInput{
		Username:  req.Name(),
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// Login handles POST /api/user/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	token, err := h.auth.Login(c.UserContext(), req.Name(), req.Password, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message:   "Login Successful",
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}
