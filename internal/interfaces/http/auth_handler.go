package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/application/identity"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// AuthHandler maneja registro, login y logout.
type AuthHandler struct {
	provider *identity.Provider
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(provider *identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// Register godoc
// @Summary      Registrar huésped
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "displayName, email, password, confirmPassword"
// @Success      201   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, session, err := h.provider.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(loginResponse(session, user))
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, user, err := h.provider.SignIn(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return writeError(c, err)
	}
	return c.JSON(loginResponse(session, user))
}

// LoginWithProvider godoc
// @Summary      Iniciar sesión con un proveedor externo
// @Tags         auth
// @Produce      json
// @Param        provider  path  string  true  "google, facebook..."
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/provider/{provider} [post]
func (h *AuthHandler) LoginWithProvider(c *fiber.Ctx) error {
	session, err := h.provider.SignInWithProvider(c.UserContext(), c.Params("provider"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(loginResponse(session, nil))
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token)
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.provider.SignOut(c.UserContext(), GetSession(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func loginResponse(s *entity.Session, u *entity.User) dto.LoginResponse {
	out := dto.LoginResponse{Token: s.Token, ExpiresAt: s.ExpiresAt}
	if u != nil {
		out.User = dto.ToUserResponse(u)
	} else {
		out.User = dto.UserResponse{UID: s.UID, Email: s.Email}
	}
	return out
}
