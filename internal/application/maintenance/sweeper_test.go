package maintenance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/application/maintenance"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/memory"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

func booking(id, uid string) *entity.Booking {
	return &entity.Booking{ID: id, UserRef: uid, Status: entity.BookingStatusBooked, CreatedAt: time.Now()}
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", AuthIdentity: "uid-1", Email: "ana@example.com"}))
	for _, b := range []*entity.Booking{booking("b1", "uid-1"), booking("b2", "uid-gone"), booking("b3", "uid-gone"), booking("b4", "uid-other")} {
		require.NoError(t, store.Bookings().Create(ctx, b))
	}
	return store
}

func TestSweep_BorraSoloHuerfanasYEsIdempotente(t *testing.T) {
	store := seed(t)
	s := maintenance.NewOrphanSweeper(store.Bookings(), store, logger.Nop())

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	left, err := store.Bookings().List(context.Background())
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b1", left[0].ID)

	n, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

type brokenTx struct{}

func (brokenTx) Run(context.Context, func(repository.UserRepository, repository.BookingRepository) error) error {
	return errors.New("tx unavailable")
}

func TestSweep_FalloDeTransaccionSeReporta(t *testing.T) {
	store := seed(t)
	s := maintenance.NewOrphanSweeper(store.Bookings(), brokenTx{}, logger.Nop())

	n, err := s.Sweep(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
	left, _ := store.Bookings().List(context.Background())
	assert.Len(t, left, 4)
}
