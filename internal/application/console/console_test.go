package console_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/application/console"
	"github.com/jhoicas/Hotel-api/internal/application/identity"
	"github.com/jhoicas/Hotel-api/internal/application/notify"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/memory"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles
// ──────────────────────────────────────────────────────────────────────────────

type roomRepoMock struct {
	mock.Mock
	*memory.RoomRepo
}

func (m *roomRepoMock) List(ctx context.Context) ([]*entity.Room, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]*entity.Room)
	return rooms, args.Error(1)
}

type bookingRepoMock struct {
	mock.Mock
	*memory.BookingRepo
}

func (m *bookingRepoMock) List(ctx context.Context) ([]*entity.Booking, error) {
	args := m.Called(ctx)
	bookings, _ := args.Get(0).([]*entity.Booking)
	return bookings, args.Error(1)
}

type directoryMock struct{ mock.Mock }

func (m *directoryMock) IsAdmin(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type failingTx struct{ err error }

func (f failingTx) Run(context.Context, func(repository.UserRepository, repository.BookingRepository) error) error {
	return f.err
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var errUnreachable = errors.New("store unreachable")

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func testConfig() console.Config {
	return console.Config{LoadRetries: 2, LoadBackoff: time.Millisecond, NotifyTimeout: time.Minute}
}

func storeDeps(store *memory.Store) console.Deps {
	return console.Deps{
		Rooms:     store.Rooms(),
		Bookings:  store.Bookings(),
		Users:     store.Users(),
		Tx:        store,
		Directory: console.NewAllowlistDirectory(store.Admins()),
	}
}

func newConsole(t *testing.T, deps console.Deps) *console.Console {
	t.Helper()
	c := console.New(context.Background(), deps, testConfig(), logger.Nop())
	t.Cleanup(c.Close)
	return c
}

func seedUser(t *testing.T, store *memory.Store, id, uid, email string) {
	t.Helper()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{
		ID: id, AuthIdentity: uid, Email: email, DisplayName: id, CreatedAt: time.Now(),
	}))
}

func seedBooking(t *testing.T, store *memory.Store, id, uid string) {
	t.Helper()
	require.NoError(t, store.Bookings().Create(context.Background(), &entity.Booking{
		ID:        id,
		UserRef:   uid,
		Action:    entity.ActionBook,
		Status:    entity.BookingStatusBooked,
		Room:      entity.RoomSnapshot{ID: "r1", Name: "Silver Tier Room", Category: entity.CategorySilverTier, Price: 299},
		Subtotal:  299,
		Tax:       36,
		Total:     335,
		CreatedAt: time.Now(),
	}))
}

func countByUser(t *testing.T, store *memory.Store, uid string) int {
	t.Helper()
	list, err := store.Bookings().ListByUserRef(context.Background(), uid)
	require.NoError(t, err)
	return len(list)
}

func lastNotification(t *testing.T, c *console.Console) notify.Notification {
	t.Helper()
	note, ok := c.Notifier().Current()
	require.True(t, ok)
	return note
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_AdminEnLaLista(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Admins().Add(context.Background(), "admin@hotel.com"))
	g := console.NewGuard(console.NewAllowlistDirectory(store.Admins()), logger.Nop())

	assert.NoError(t, g.Authorize(context.Background(), &entity.Session{UID: "a", Email: "Admin@Hotel.com"}))
}

func TestGuard_FueraDeLaListaDenegado(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Admins().Add(context.Background(), "admin@hotel.com"))
	g := console.NewGuard(console.NewAllowlistDirectory(store.Admins()), logger.Nop())

	err := g.Authorize(context.Background(), &entity.Session{UID: "g", Email: "guest@example.com", Token: "valid"})
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGuard_SinSesion(t *testing.T) {
	g := console.NewGuard(&directoryMock{}, logger.Nop())
	assert.ErrorIs(t, g.Authorize(context.Background(), nil), domain.ErrAuthRequired)
}

func TestGuard_FalloDeConsultaFallaCerrado(t *testing.T) {
	dir := &directoryMock{}
	dir.On("IsAdmin", mock.Anything, "admin@hotel.com").Return(true, errUnreachable)
	g := console.NewGuard(dir, logger.Nop())

	err := g.Authorize(context.Background(), &entity.Session{UID: "a", Email: "admin@hotel.com"})
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)
	var probe *domain.ProbeFailure
	assert.ErrorAs(t, err, &probe)
	assert.ErrorIs(t, err, errUnreachable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga masiva
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadAll_CargaCompletaEIndexaUsuarios(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store, "u1", "uid-1", "ana@example.com")
	seedBooking(t, store, "b1", "uid-1")
	c := newConsole(t, storeDeps(store))

	res, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, res.Bookings)

	u, ok := c.UserByIdentity("uid-1")
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.False(t, c.LoadedAt().IsZero())
}

func TestLoadAll_TresIntentosAnteFalloPersistente(t *testing.T) {
	store := memory.NewStore()
	rooms := &roomRepoMock{RoomRepo: store.Rooms()}
	rooms.On("List", mock.Anything).Return(nil, errUnreachable)
	deps := storeDeps(store)
	deps.Rooms = rooms
	c := newConsole(t, deps)

	res, err := c.LoadAll(context.Background())
	var lerr *domain.LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 3, lerr.Attempts)
	assert.ErrorIs(t, err, errUnreachable)
	assert.False(t, res.Complete)
	rooms.AssertNumberOfCalls(t, "List", 3)

	assert.Equal(t, notify.SeverityWarning, lastNotification(t, c).Severity)
}

func TestLoadAll_RecuperaEnElSegundoIntento(t *testing.T) {
	store := memory.NewStore()
	rooms := &roomRepoMock{RoomRepo: store.Rooms()}
	rooms.On("List", mock.Anything).Return(nil, errUnreachable).Once()
	rooms.On("List", mock.Anything).Return([]*entity.Room{{ID: "r1", Name: "Gold"}}, nil).Once()
	deps := storeDeps(store)
	deps.Rooms = rooms
	c := newConsole(t, deps)

	res, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 1, res.Rooms)
	_, visible := c.Notifier().Current()
	assert.False(t, visible)
}

func TestLoadAll_ConservaDatosParciales(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Rooms().Create(context.Background(), &entity.Room{ID: "r1", Name: "Gold", Category: entity.CategoryGoldTier}))
	bookings := &bookingRepoMock{BookingRepo: store.Bookings()}
	bookings.On("List", mock.Anything).Return(nil, errUnreachable)
	deps := storeDeps(store)
	deps.Bookings = bookings
	c := newConsole(t, deps)

	res, err := c.LoadAll(context.Background())
	var lerr *domain.LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 1, res.Rooms)
	assert.Len(t, c.Rooms(), 1)
	assert.Empty(t, c.Users())
	bookings.AssertNumberOfCalls(t, "List", 3)
}

func TestLoadAll_CloseCancelaLaEspera(t *testing.T) {
	store := memory.NewStore()
	rooms := &roomRepoMock{RoomRepo: store.Rooms()}
	called := make(chan struct{}, 1)
	rooms.On("List", mock.Anything).Return(nil, errUnreachable).Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	})
	deps := storeDeps(store)
	deps.Rooms = rooms
	c := console.New(context.Background(), deps,
		console.Config{LoadRetries: 2, LoadBackoff: time.Hour, NotifyTimeout: time.Minute}, logger.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := c.LoadAll(context.Background())
		done <- err
	}()
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("la carga no empezó")
	}
	c.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("la carga no se canceló")
	}
	rooms.AssertNumberOfCalls(t, "List", 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Habitaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRoom_ExigeImagen(t *testing.T) {
	store := memory.NewStore()
	c := newConsole(t, storeDeps(store))

	_, err := c.CreateRoom(context.Background(), console.RoomInput{Name: "Gold", Category: "Gold Tier", Price: 399, AvailableCount: 2})
	assert.ErrorIs(t, err, domain.ErrImageRequired)

	rooms, _ := store.Rooms().List(context.Background())
	assert.Empty(t, rooms)
}

func TestCreateRoom_ConImagenAdjunta(t *testing.T) {
	store := memory.NewStore()
	c := newConsole(t, storeDeps(store))

	room, err := c.CreateRoom(context.Background(), console.RoomInput{
		Name: "Penthouse Suite", Category: "penthouse", Price: 599, AvailableCount: 1,
		Image: &attachment.Upload{Name: "p.png", Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryPenthouse, room.Category)
	assert.Contains(t, room.ImageRef, "data:image/png;base64,")
	assert.Len(t, c.Rooms(), 1)
	assert.Equal(t, notify.SeveritySuccess, lastNotification(t, c).Severity)
}

func TestCreateRoom_Validaciones(t *testing.T) {
	c := newConsole(t, storeDeps(memory.NewStore()))
	_, err := c.CreateRoom(context.Background(), console.RoomInput{
		Name: " ", Category: "Castle", Price: -1, AvailableCount: -2, ImageRef: "https://img/x.png",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"name", "price", "available", "category"}, verr.Fields)
}

func TestUpdateRoom_ConservaImagenSiNoSeEnvia(t *testing.T) {
	store := memory.NewStore()
	c := newConsole(t, storeDeps(store))
	room, err := c.CreateRoom(context.Background(), console.RoomInput{
		Name: "Gold", Category: "Gold Tier", Price: 399, AvailableCount: 2, ImageRef: "https://img/gold.png",
	})
	require.NoError(t, err)

	updated, err := c.UpdateRoom(context.Background(), room.ID, console.RoomInput{
		Name: "Gold Deluxe", Category: "Gold Tier", Price: 450, AvailableCount: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://img/gold.png", updated.ImageRef)
	assert.Equal(t, int64(450), updated.Price)

	stored, err := store.Rooms().GetByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold Deluxe", stored.Name)
}

func TestDeleteRoom_RequiereConfirmacionYNoTocaReservas(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Rooms().Create(context.Background(), &entity.Room{ID: "r1", Name: "Silver", Category: entity.CategorySilverTier}))
	seedBooking(t, store, "b1", "uid-1")
	c := newConsole(t, storeDeps(store))

	assert.ErrorIs(t, c.DeleteRoom(context.Background(), "r1", false), domain.ErrConfirmationRequired)
	require.NoError(t, c.DeleteRoom(context.Background(), "r1", true))

	b, err := store.Bookings().GetByID(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "Silver Tier Room", b.Room.Name)

	assert.ErrorIs(t, c.DeleteRoom(context.Background(), "r1", true), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkCompleted_RepetirVuelveASellar(t *testing.T) {
	store := memory.NewStore()
	seedBooking(t, store, "b1", "uid-1")
	c := newConsole(t, storeDeps(store))
	_, err := c.LoadAll(context.Background())
	require.NoError(t, err)

	first, err := c.MarkCompleted(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, entity.BookingStatusCompleted, first.Status)
	firstAt := *first.CompletedAt

	time.Sleep(2 * time.Millisecond)
	second, err := c.MarkCompleted(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, second.CompletedAt.After(firstAt))

	stored, err := store.Bookings().GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, stored.CompletedAt.Equal(*second.CompletedAt))
}

func TestDeleteBooking(t *testing.T) {
	store := memory.NewStore()
	seedBooking(t, store, "b1", "uid-1")
	c := newConsole(t, storeDeps(store))

	assert.ErrorIs(t, c.DeleteBooking(context.Background(), "b1", false), domain.ErrConfirmationRequired)
	require.NoError(t, c.DeleteBooking(context.Background(), "b1", true))
	assert.Equal(t, 0, countByUser(t, store, "uid-1"))
}

func TestProof_DecodificaElComprobante(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedBooking(t, store, "b1", "uid-1")
	require.NoError(t, store.Bookings().Create(ctx, &entity.Booking{
		ID:      "b2",
		UserRef: "uid-1",
		Status:  entity.BookingStatusBooked,
		TransferProof: entity.Attachment{
			Name:    "transfer.pdf",
			Size:    8,
			MIME:    "application/pdf",
			Content: "data:application/pdf;base64,JVBERi0xLjQ=",
		},
		CreatedAt: time.Now(),
	}))
	c := newConsole(t, storeDeps(store))

	proof, err := c.Proof(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, "transfer.pdf", proof.Name)
	assert.Equal(t, "application/pdf", proof.MIME)
	assert.Equal(t, []byte("%PDF-1.4"), proof.Data)

	_, err = c.Proof(ctx, "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "reserva sin comprobante")
	_, err = c.Proof(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteUser_CascadaSoloSobreSusReservas(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store, "u1", "uid-1", "ana@example.com")
	seedUser(t, store, "u2", "uid-2", "ben@example.com")
	seedBooking(t, store, "b1", "uid-1")
	seedBooking(t, store, "b2", "uid-1")
	seedBooking(t, store, "b3", "uid-2")
	c := newConsole(t, storeDeps(store))
	_, err := c.LoadAll(context.Background())
	require.NoError(t, err)

	before, _ := store.Bookings().List(context.Background())
	require.Len(t, before, 3)

	n, err := c.DeleteUser(context.Background(), "u1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	after, _ := store.Bookings().List(context.Background())
	assert.Len(t, after, len(before)-2)
	assert.Equal(t, 0, countByUser(t, store, "uid-1"))
	assert.Equal(t, 1, countByUser(t, store, "uid-2"))

	gone, err := store.Users().GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	_, indexed := c.UserByIdentity("uid-1")
	assert.False(t, indexed)
	assert.Len(t, c.Bookings(), 1)
}

func TestDeleteUser_AdminProtegido(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Admins().Add(context.Background(), "admin@hotel.com"))
	seedUser(t, store, "u1", "uid-1", "admin@hotel.com")
	c := newConsole(t, storeDeps(store))

	_, err := c.DeleteUser(context.Background(), "u1", true)
	assert.ErrorIs(t, err, domain.ErrProtectedUser)
	u, _ := store.Users().GetByID(context.Background(), "u1")
	assert.NotNil(t, u)
}

func TestDeleteUser_FalloDeConsultaNoBorra(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store, "u1", "uid-1", "ana@example.com")
	dir := &directoryMock{}
	dir.On("IsAdmin", mock.Anything, "ana@example.com").Return(false, errUnreachable)
	deps := storeDeps(store)
	deps.Directory = dir
	c := newConsole(t, deps)

	_, err := c.DeleteUser(context.Background(), "u1", true)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	u, _ := store.Users().GetByID(context.Background(), "u1")
	assert.NotNil(t, u)
}

func TestDeleteUser_FalloDeTransaccionEsWriteError(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store, "u1", "uid-1", "ana@example.com")
	seedBooking(t, store, "b1", "uid-1")
	deps := storeDeps(store)
	deps.Tx = failingTx{err: errUnreachable}
	c := newConsole(t, deps)

	_, err := c.DeleteUser(context.Background(), "u1", true)
	var werr *domain.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, notify.SeverityError, lastNotification(t, c).Severity)
	assert.Equal(t, 1, countByUser(t, store, "uid-1"))
}

func TestDeleteUser_RequiereConfirmacion(t *testing.T) {
	c := newConsole(t, storeDeps(memory.NewStore()))
	_, err := c.DeleteUser(context.Background(), "u1", false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_MontaSoloAdministradores(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Admins().Add(context.Background(), "admin@hotel.com"))
	reg := console.NewRegistry(context.Background(), storeDeps(store), testConfig(), logger.Nop())
	defer reg.Close()

	_, _, err := reg.Mount(context.Background(), &entity.Session{UID: "g", Email: "guest@example.com"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := &entity.Session{UID: "a", Email: "admin@hotel.com"}
	c, res, err := reg.Mount(context.Background(), admin)
	require.NoError(t, err)
	assert.True(t, res.Complete)

	got, err := reg.Get(admin)
	require.NoError(t, err)
	assert.Same(t, c, got)

	reg.OnSessionChange(identity.SessionEvent{UID: "a"})
	assert.True(t, c.Closed())
	_, err = reg.Get(admin)
	assert.ErrorIs(t, err, console.ErrNotMounted)
	assert.Equal(t, 0, reg.Len())
}
