// Package reservation valida y persiste una reserva por cada flujo completado.
package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/pricing"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// Payload datos validados que entrega el flujo al confirmar.
type Payload struct {
	Room          entity.RoomSnapshot
	Action        entity.Action
	CheckInDate   string
	CheckInTime   string
	OriginBank    string
	SenderName    string
	TransferProof entity.Attachment
}

// Writer crea la reserva. No descuenta disponibilidad ni reintenta.
type Writer struct {
	bookings repository.BookingRepository
	users    repository.UserRepository
	calc     pricing.Calculator
	log      *logger.Logger
	now      func() time.Time
}

// NewWriter construye el escritor de reservas.
func NewWriter(bookings repository.BookingRepository, users repository.UserRepository, calc pricing.Calculator, log *logger.Logger) *Writer {
	return &Writer{bookings: bookings, users: users, calc: calc, log: log, now: time.Now}
}

// Commit construye la reserva con status booked, createdAt del servidor y userRef = sessionIdentity.
// Un fallo del almacén se devuelve como *domain.WriteError; el huésped debe reenviar.
func (w *Writer) Commit(ctx context.Context, p Payload, sessionIdentity string) (string, error) {
	if sessionIdentity == "" {
		return "", domain.ErrAuthRequired
	}
	if !p.Action.Valid() {
		return "", fmt.Errorf("%w: acción %q", domain.ErrInvalidInput, p.Action)
	}
	if p.Room.Price < 0 {
		return "", fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}

	user, err := w.users.GetByAuthIdentity(ctx, sessionIdentity)
	if err != nil {
		return "", &domain.WriteError{Op: "resolve user", Err: err}
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}

	q := w.calc.Quote(p.Room.Price)
	booking := &entity.Booking{
		ID:            uuid.New().String(),
		Room:          p.Room,
		Action:        p.Action,
		CheckInDate:   p.CheckInDate,
		CheckInTime:   p.CheckInTime,
		Subtotal:      q.Subtotal,
		Tax:           q.Tax,
		Total:         q.Total,
		TaxRate:       q.Rate,
		OriginBank:    p.OriginBank,
		SenderName:    p.SenderName,
		TransferProof: p.TransferProof,
		UserRef:       sessionIdentity,
		Status:        entity.BookingStatusBooked,
		CreatedAt:     w.now().UTC(),
	}
	if err := w.bookings.Create(ctx, booking); err != nil {
		w.log.Error().Err(err).Str("room_id", p.Room.ID).Str("uid", sessionIdentity).Msg("no se pudo guardar la reserva")
		return "", &domain.WriteError{Op: "commit booking", Err: err}
	}
	w.log.Info().
		Str("booking_id", booking.ID).
		Str("room_id", p.Room.ID).
		Str("action", string(p.Action)).
		Int64("total", booking.Total).
		Msg("reserva creada")
	return booking.ID, nil
}

// History reservas del huésped, más recientes primero.
func (w *Writer) History(ctx context.Context, sessionIdentity string) ([]*entity.Booking, error) {
	if sessionIdentity == "" {
		return nil, domain.ErrAuthRequired
	}
	return w.bookings.ListByUserRef(ctx, sessionIdentity)
}
