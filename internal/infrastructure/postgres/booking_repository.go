package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
)

var _ repository.BookingRepository = (*BookingRepo)(nil)

// BookingRepo implementación del puerto BookingRepository sobre PostgreSQL (usable con pool o tx).
type BookingRepo struct {
	q Querier
}

// NewBookingRepository construye el adaptador de persistencia para reservas.
func NewBookingRepository(q Querier) *BookingRepo {
	return &BookingRepo{q: q}
}

// roomDoc y proofDoc son la forma JSONB de los campos room y transfer_proof.
type roomDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Details  string `json:"details"`
	Image    string `json:"image"`
}

type proofDoc struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Data string `json:"data"`
}

const bookingColumns = `id, room, action, check_in_date, check_in_time, subtotal, tax, total, tax_rate,
	origin_bank, sender_name, transfer_proof, user_id, status, created_at, completed_at`

// Create persiste una nueva reserva.
func (r *BookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	room, err := json.Marshal(roomDoc{
		ID: b.Room.ID, Name: b.Room.Name, Category: string(b.Room.Category),
		Price: b.Room.Price, Details: b.Room.Description, Image: b.Room.ImageRef,
	})
	if err != nil {
		return fmt.Errorf("marshal room snapshot: %w", err)
	}
	proof, err := json.Marshal(proofDoc{
		Name: b.TransferProof.Name, Size: b.TransferProof.Size,
		Type: b.TransferProof.MIME, Data: b.TransferProof.Content,
	})
	if err != nil {
		return fmt.Errorf("marshal transfer proof: %w", err)
	}
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(ctx, query,
		b.ID, room, string(b.Action), b.CheckInDate, b.CheckInTime, b.Subtotal, b.Tax, b.Total, b.TaxRate,
		b.OriginBank, b.SenderName, proof, b.UserRef, string(b.Status), b.CreatedAt, b.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	row := r.q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// List devuelve todas las reservas, más recientes primero.
func (r *BookingRepo) List(ctx context.Context) ([]*entity.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

// ListByUserRef reservas de un huésped.
func (r *BookingRepo) ListByUserRef(ctx context.Context, userRef string) ([]*entity.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userRef)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// MarkCompleted fija status y completed_at sin mirar el estado previo.
func (r *BookingRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE bookings SET status = $2, completed_at = $3 WHERE id = $1`,
		id, string(entity.BookingStatusCompleted), at,
	)
	if err != nil {
		return fmt.Errorf("complete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una reserva por ID.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUserRef elimina todas las reservas del usuario.
func (r *BookingRepo) DeleteByUserRef(ctx context.Context, userRef string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM bookings WHERE user_id = $1`, userRef)
	if err != nil {
		return 0, fmt.Errorf("delete bookings by user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// OrphanUserRefs user_id de reservas sin usuario correspondiente.
func (r *BookingRepo) OrphanUserRefs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT b.user_id FROM bookings b
		LEFT JOIN users u ON u.uid = b.user_id
		WHERE u.uid IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("orphan bookings: %w", err)
	}
	defer rows.Close()
	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scan orphan ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func scanBooking(s rowScanner) (*entity.Booking, error) {
	var (
		b                 entity.Booking
		roomRaw, proofRaw []byte
		action, status    string
	)
	if err := s.Scan(&b.ID, &roomRaw, &action, &b.CheckInDate, &b.CheckInTime, &b.Subtotal, &b.Tax, &b.Total,
		&b.TaxRate, &b.OriginBank, &b.SenderName, &proofRaw, &b.UserRef, &status, &b.CreatedAt, &b.CompletedAt); err != nil {
		return nil, err
	}
	var room roomDoc
	if err := json.Unmarshal(roomRaw, &room); err != nil {
		return nil, fmt.Errorf("unmarshal room snapshot: %w", err)
	}
	var proof proofDoc
	if err := json.Unmarshal(proofRaw, &proof); err != nil {
		return nil, fmt.Errorf("unmarshal transfer proof: %w", err)
	}
	b.Action = entity.Action(action)
	b.Status = entity.BookingStatus(status)
	b.Room = entity.RoomSnapshot{
		ID: room.ID, Name: room.Name, Category: entity.Category(room.Category),
		Price: room.Price, Description: room.Details, ImageRef: room.Image,
	}
	b.TransferProof = entity.Attachment{Name: proof.Name, Size: proof.Size, MIME: proof.Type, Content: proof.Data}
	return &b, nil
}
