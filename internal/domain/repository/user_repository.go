package repository

import (
	"context"

	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (colección users).
type UserRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email o la identidad ya existen.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByAuthIdentity(ctx context.Context, uid string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}

// CredentialRepository almacén privado del proveedor de identidad local.
type CredentialRepository interface {
	Create(ctx context.Context, cred *entity.Credential) error
	GetByEmail(ctx context.Context, email string) (*entity.Credential, error)
}

// AdminRepository lista de emails administradores (colección admins).
type AdminRepository interface {
	ListEmails(ctx context.Context) ([]string, error)
	Add(ctx context.Context, email string) error
}

// TxRunner ejecuta fn dentro de una unidad atómica con repos atados a ella.
// Si fn devuelve error no se aplica ningún cambio.
type TxRunner interface {
	Run(ctx context.Context, fn func(users UserRepository, bookings BookingRepository) error) error
}
