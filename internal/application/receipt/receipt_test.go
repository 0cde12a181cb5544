package receipt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/application/console"
	"github.com/jhoicas/Hotel-api/internal/application/receipt"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/memory"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

type generatorMock struct{ mock.Mock }

func (m *generatorMock) Generate(ctx context.Context, doc receipt.Document) ([]byte, error) {
	args := m.Called(ctx, doc)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

func setup(t *testing.T) (*receipt.Service, *generatorMock) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Admins().Add(ctx, "admin@hotel.com"))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", AuthIdentity: "uid-1", Email: "ana@example.com", CreatedAt: time.Now()}))
	require.NoError(t, store.Bookings().Create(ctx, &entity.Booking{
		ID: "b1", UserRef: "uid-1", Status: entity.BookingStatusBooked, CreatedAt: time.Now(),
	}))
	gen := &generatorMock{}
	svc := receipt.NewService("Grand Azure", store.Bookings(), store.Users(),
		console.NewAllowlistDirectory(store.Admins()), gen, logger.Nop())
	return svc, gen
}

func TestRender_Propietario(t *testing.T) {
	svc, gen := setup(t)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(d receipt.Document) bool {
		return d.Booking.ID == "b1" && d.Guest != nil && d.Guest.Email == "ana@example.com" && d.HotelName == "Grand Azure"
	})).Return([]byte("%PDF-1.3"), nil).Once()

	out, name, err := svc.Render(context.Background(), &entity.Session{UID: "uid-1", Email: "ana@example.com"}, "b1")
	require.NoError(t, err)
	assert.Equal(t, "booking-b1.pdf", name)
	assert.Equal(t, []byte("%PDF-1.3"), out)
	gen.AssertExpectations(t)
}

func TestRender_AdministradorVeReservasAjenas(t *testing.T) {
	svc, gen := setup(t)
	gen.On("Generate", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil).Once()

	_, _, err := svc.Render(context.Background(), &entity.Session{UID: "uid-admin", Email: "admin@hotel.com"}, "b1")
	require.NoError(t, err)
}

func TestRender_OtroHuespedNoVeLaReserva(t *testing.T) {
	svc, gen := setup(t)
	_, _, err := svc.Render(context.Background(), &entity.Session{UID: "uid-2", Email: "ben@example.com"}, "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRender_SinSesionOInexistente(t *testing.T) {
	svc, _ := setup(t)
	_, _, err := svc.Render(context.Background(), nil, "b1")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, _, err = svc.Render(context.Background(), &entity.Session{UID: "uid-1"}, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
