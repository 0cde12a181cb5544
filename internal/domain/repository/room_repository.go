package repository

import (
	"context"

	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// RoomRepository define el puerto de persistencia para Room (colección rooms).
type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	List(ctx context.Context) ([]*entity.Room, error)
	// Update reemplaza todos los campos editables. ErrNotFound si no existe.
	Update(ctx context.Context, room *entity.Room) error
	// Delete ErrNotFound si no existe. No toca las reservas que la referencian.
	Delete(ctx context.Context, id string) error
}
