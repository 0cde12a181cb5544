// Package receipt comprobante imprimible de una reserva. Solo lo obtienen el huésped que la
// creó o un administrador.
package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// Document datos que recibe el generador.
type Document struct {
	HotelName string
	Booking   *entity.Booking
	Guest     *entity.User // nil si el usuario ya no existe
	IssuedAt  time.Time
}

// Generator renderiza el documento (PDF en producción).
type Generator interface {
	Generate(ctx context.Context, doc Document) ([]byte, error)
}

// AdminChecker consulta de administrador; la implementa console.AllowlistDirectory.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Service arma y autoriza el comprobante.
type Service struct {
	hotel    string
	bookings repository.BookingRepository
	users    repository.UserRepository
	admins   AdminChecker
	gen      Generator
	log      *logger.Logger
	now      func() time.Time
}

// NewService construye el servicio.
func NewService(hotel string, bookings repository.BookingRepository, users repository.UserRepository, admins AdminChecker, gen Generator, log *logger.Logger) *Service {
	return &Service{hotel: hotel, bookings: bookings, users: users, admins: admins, gen: gen, log: log, now: time.Now}
}

// Render devuelve el PDF y un nombre de archivo sugerido.
func (s *Service) Render(ctx context.Context, session *entity.Session, bookingID string) ([]byte, string, error) {
	if session == nil {
		return nil, "", domain.ErrAuthRequired
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", fmt.Errorf("obtener reserva: %w", err)
	}
	if b == nil {
		return nil, "", domain.ErrNotFound
	}
	if b.UserRef != session.UID {
		admin, err := s.admins.IsAdmin(ctx, session.Email)
		if err != nil {
			return nil, "", &domain.PermissionError{Reason: "no se pudo verificar el administrador", Err: &domain.ProbeFailure{Err: err}}
		}
		if !admin {
			// no revela la existencia de reservas ajenas
			return nil, "", domain.ErrNotFound
		}
	}

	guest, err := s.users.GetByAuthIdentity(ctx, b.UserRef)
	if err != nil {
		return nil, "", fmt.Errorf("obtener huésped: %w", err)
	}

	out, err := s.gen.Generate(ctx, Document{HotelName: s.hotel, Booking: b, Guest: guest, IssuedAt: s.now()})
	if err != nil {
		s.log.Error().Err(err).Str("booking_id", b.ID).Msg("no se pudo generar el comprobante")
		return nil, "", err
	}
	return out, fmt.Sprintf("booking-%s.pdf", b.ID), nil
}
