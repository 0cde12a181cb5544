// Package maintenance tareas de compensación que corren fuera del camino de la petición.
package maintenance

import (
	"context"
	"fmt"

	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// OrphanSweeper borra reservas cuyo userRef ya no corresponde a ningún usuario.
// Repetirlo es seguro: una segunda pasada no encuentra nada.
type OrphanSweeper struct {
	bookings repository.BookingRepository
	tx       repository.TxRunner
	log      *logger.Logger
}

// NewOrphanSweeper construye el barredor.
func NewOrphanSweeper(bookings repository.BookingRepository, tx repository.TxRunner, log *logger.Logger) *OrphanSweeper {
	return &OrphanSweeper{bookings: bookings, tx: tx, log: log}
}

// Sweep devuelve cuántas reservas eliminó. Un fallo en un userRef no detiene los demás.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int64, error) {
	refs, err := s.bookings.OrphanUserRefs(ctx)
	if err != nil {
		return 0, fmt.Errorf("buscar reservas huérfanas: %w", err)
	}

	var total int64
	var firstErr error
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		var n int64
		err := s.tx.Run(ctx, func(users repository.UserRepository, bookings repository.BookingRepository) error {
			// el usuario pudo registrarse de nuevo con la misma identidad
			u, err := users.GetByAuthIdentity(ctx, ref)
			if err != nil {
				return err
			}
			if u != nil {
				return nil
			}
			n, err = bookings.DeleteByUserRef(ctx, ref)
			return err
		})
		if err != nil {
			s.log.Warn().Err(err).Str("uid", ref).Msg("no se pudieron borrar reservas huérfanas")
			if firstErr == nil {
				firstErr = fmt.Errorf("borrar reservas de %s: %w", ref, err)
			}
			continue
		}
		total += n
	}
	if total > 0 {
		s.log.Info().Int64("bookings_deleted", total).Int("users", len(refs)).Msg("reservas huérfanas eliminadas")
	}
	return total, firstErr
}

// Job adapta Sweep a la firma del scheduler.
func (s *OrphanSweeper) Job(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}
