package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/memory"
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", AuthIdentity: "uid-1", Email: "ana@example.com"}))
	require.NoError(t, s.Bookings().Create(ctx, &entity.Booking{ID: "b1", UserRef: "uid-1", CreatedAt: time.Now()}))
	require.NoError(t, s.Bookings().Create(ctx, &entity.Booking{ID: "b2", UserRef: "uid-x", CreatedAt: time.Now()}))
	return s
}

func TestRun_ConfirmaCambios(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	err := s.Run(ctx, func(users repository.UserRepository, bookings repository.BookingRepository) error {
		if err := users.Delete(ctx, "u1"); err != nil {
			return err
		}
		_, err := bookings.DeleteByUserRef(ctx, "uid-1")
		return err
	})
	require.NoError(t, err)

	u, _ := s.Users().GetByID(ctx, "u1")
	assert.Nil(t, u)
	b, _ := s.Bookings().GetByID(ctx, "b1")
	assert.Nil(t, b)
}

func TestRun_ErrorDescartaTodo(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := s.Run(ctx, func(users repository.UserRepository, bookings repository.BookingRepository) error {
		require.NoError(t, users.Delete(ctx, "u1"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u, _ := s.Users().GetByID(ctx, "u1")
	assert.NotNil(t, u)
}

func TestUsers_EmailDuplicadoSinDistinguirMayusculas(t *testing.T) {
	s := seed(t)
	err := s.Users().Create(context.Background(), &entity.User{ID: "u2", AuthIdentity: "uid-2", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestBookings_OrphanUserRefs(t *testing.T) {
	s := seed(t)
	refs, err := s.Bookings().OrphanUserRefs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"uid-x"}, refs)
}

func TestBookings_MarkCompletedYNoEncontrado(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	at := time.Date(2026, 12, 25, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Bookings().MarkCompleted(ctx, "b1", at))
	b, _ := s.Bookings().GetByID(ctx, "b1")
	assert.Equal(t, entity.BookingStatusCompleted, b.Status)
	assert.True(t, b.CompletedAt.Equal(at))

	assert.ErrorIs(t, s.Bookings().MarkCompleted(ctx, "nope", at), domain.ErrNotFound)
	assert.ErrorIs(t, s.Bookings().Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestBookings_MarkCompletedNoDependeDelBufferDelID(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	// el router entrega parámetros que comparten memoria con el buffer de la petición
	buf := []byte("b1")
	id := unsafe.String(&buf[0], len(buf))
	require.NoError(t, s.Bookings().MarkCompleted(ctx, id, time.Now()))
	copy(buf, "zz")

	b, err := s.Bookings().GetByID(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, entity.BookingStatusCompleted, b.Status)
	require.NoError(t, s.Bookings().Delete(ctx, "b1"))
}

func TestRooms_CRUD(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	room := &entity.Room{ID: "r1", Name: "Silver", Category: entity.CategorySilverTier, Price: 299, AvailableCount: 2}
	require.NoError(t, s.Rooms().Create(ctx, room))

	room.Price = 320
	require.NoError(t, s.Rooms().Update(ctx, room))
	got, err := s.Rooms().GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(320), got.Price)

	require.NoError(t, s.Rooms().Delete(ctx, "r1"))
	assert.ErrorIs(t, s.Rooms().Delete(ctx, "r1"), domain.ErrNotFound)
	assert.ErrorIs(t, s.Rooms().Update(ctx, room), domain.ErrNotFound)
}
