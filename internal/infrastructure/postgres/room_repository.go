package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
)

var _ repository.RoomRepository = (*RoomRepo)(nil)

// RoomRepo implementación del puerto RoomRepository sobre PostgreSQL (usable con pool o tx).
type RoomRepo struct {
	q Querier
}

// NewRoomRepository construye el adaptador de persistencia para habitaciones.
func NewRoomRepository(q Querier) *RoomRepo {
	return &RoomRepo{q: q}
}

const roomColumns = `id, name, category, price, available, details, image, created_at, updated_at`

// Create persiste una nueva habitación.
func (r *RoomRepo) Create(ctx context.Context, room *entity.Room) error {
	query := `
		INSERT INTO rooms (` + roomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		room.ID, room.Name, string(room.Category), room.Price, room.AvailableCount,
		room.Description, room.ImageRef, room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

// GetByID obtiene una habitación por ID.
func (r *RoomRepo) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	row := r.q.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	room, err := scanRoom(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// List devuelve el catálogo completo ordenado por fecha de creación.
func (r *RoomRepo) List(ctx context.Context) ([]*entity.Room, error) {
	rows, err := r.q.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()
	var list []*entity.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		list = append(list, room)
	}
	return list, rows.Err()
}

// Update reemplaza los campos editables.
func (r *RoomRepo) Update(ctx context.Context, room *entity.Room) error {
	query := `
		UPDATE rooms SET name = $2, category = $3, price = $4, available = $5, details = $6, image = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		room.ID, room.Name, string(room.Category), room.Price, room.AvailableCount,
		room.Description, room.ImageRef, room.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una habitación por ID.
func (r *RoomRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (*entity.Room, error) {
	var room entity.Room
	var category string
	if err := s.Scan(&room.ID, &room.Name, &category, &room.Price, &room.AvailableCount,
		&room.Description, &room.ImageRef, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}
	room.Category = entity.Category(category)
	return &room, nil
}
