package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// adminGuard es el contrato mínimo que necesita el middleware. Lo implementa *console.Guard.
type adminGuard interface {
	Authorize(ctx context.Context, s *entity.Session) error
}

// RequireAdmin verifica que la sesión pertenezca a la lista de administradores.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 → no hay sesión en el contexto.
//   - 403 → fuera de la lista o la consulta falló (falla cerrado).
func RequireAdmin(guard adminGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := guard.Authorize(c.UserContext(), GetSession(c))
		if err == nil {
			return c.Next()
		}
		if errors.Is(err, domain.ErrAuthRequired) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		var probe *domain.ProbeFailure
		if errors.As(err, &probe) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "ADMIN_CHECK_FAILED",
				Message: "no se pudo verificar el acceso de administrador",
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "la consola es solo para administradores",
		})
	}
}
