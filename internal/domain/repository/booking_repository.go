package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// BookingRepository define el puerto de persistencia para Booking (colección bookings).
type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	List(ctx context.Context) ([]*entity.Booking, error)
	ListByUserRef(ctx context.Context, userRef string) ([]*entity.Booking, error)
	// MarkCompleted fija status=completed y completedAt=at sin comprobar el estado previo.
	MarkCompleted(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	// DeleteByUserRef borra todas las reservas del usuario y devuelve cuántas eliminó.
	DeleteByUserRef(ctx context.Context, userRef string) (int64, error)
	// OrphanUserRefs userRef de reservas que ya no corresponden a ningún usuario.
	OrphanUserRefs(ctx context.Context) ([]string, error)
}
