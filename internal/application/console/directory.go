package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// AdminDirectory decide si un email es administrador. La implementación actual lee la colección
// admins; un mecanismo con claims firmados puede reemplazarla sin tocar la consola.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AllowlistDirectory AdminDirectory sobre la lista de emails.
type AllowlistDirectory struct {
	admins repository.AdminRepository
}

// NewAllowlistDirectory construye el directorio.
func NewAllowlistDirectory(admins repository.AdminRepository) *AllowlistDirectory {
	return &AllowlistDirectory{admins: admins}
}

// IsAdmin informa si email está en la lista. Devuelve error solo ante fallos de infraestructura.
func (d *AllowlistDirectory) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	emails, err := d.admins.ListEmails(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range emails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true, nil
		}
	}
	return false, nil
}

// Guard control de entrada a la consola. Falla cerrado: si la consulta falla, no es admin.
type Guard struct {
	dir AdminDirectory
	log *logger.Logger
}

// NewGuard construye el guard.
func NewGuard(dir AdminDirectory, log *logger.Logger) *Guard {
	return &Guard{dir: dir, log: log}
}

// Authorize devuelve nil si la sesión pertenece a un administrador.
//   - sin sesión: domain.ErrAuthRequired
//   - fuera de la lista: *domain.PermissionError
//   - fallo al consultar: *domain.PermissionError con *domain.ProbeFailure como causa
func (g *Guard) Authorize(ctx context.Context, s *entity.Session) error {
	if s == nil {
		return domain.ErrAuthRequired
	}
	ok, err := g.dir.IsAdmin(ctx, s.Email)
	if err != nil {
		g.log.Warn().Err(err).Str("uid", s.UID).Msg("verificación de administrador fallida, acceso denegado")
		return &domain.PermissionError{Reason: "no se pudo verificar el administrador", Err: &domain.ProbeFailure{Err: err}}
	}
	if !ok {
		return &domain.PermissionError{Reason: fmt.Sprintf("%s no es administrador", s.Email)}
	}
	return nil
}
