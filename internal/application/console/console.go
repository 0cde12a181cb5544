// Package console controlador de la consola de administración: carga masiva con reintentos
// acotados y operaciones sobre habitaciones, reservas y usuarios.
package console

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/application/notify"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// Config política de carga y notificaciones.
type Config struct {
	LoadRetries   int           // reintentos además del primer intento
	LoadBackoff   time.Duration // espera fija entre intentos
	NotifyTimeout time.Duration
	MaxImageBytes int64
}

// Deps puertos que usa la consola.
type Deps struct {
	Rooms     repository.RoomRepository
	Bookings  repository.BookingRepository
	Users     repository.UserRepository
	Tx        repository.TxRunner
	Directory AdminDirectory
}

// LoadResult resumen de una carga masiva.
type LoadResult struct {
	Attempts int
	Complete bool
	Rooms    int
	Bookings int
	Users    int
}

// RoomInput formulario de habitación. Image es opcional si ImageRef ya trae la referencia.
type RoomInput struct {
	Name           string             `field:"name" validate:"required,max=200"`
	Category       string             `field:"category" validate:"required"`
	Price          int64              `field:"price" validate:"gte=0"`
	AvailableCount int                `field:"available" validate:"gte=0"`
	Description    string             `field:"details" validate:"max=2000"`
	ImageRef       string             `field:"image"`
	Image          *attachment.Upload `field:"-"`
}

// Console estado de la consola de un administrador. Vive mientras la vista está montada;
// Close cancela cualquier carga en curso.
type Console struct {
	ctx    context.Context
	cancel context.CancelFunc

	deps     Deps
	cfg      Config
	notifier *notify.Notifier
	images   *attachment.Encoder
	log      *logger.Logger
	now      func() time.Time

	loadMu    sync.Mutex
	mu        sync.RWMutex
	rooms     []*entity.Room
	bookings  []*entity.Booking
	users     []*entity.User
	userIndex map[string]*entity.User // por AuthIdentity
	loadedAt  time.Time
}

// New crea la consola ligada a parent. Cancelar parent equivale a Close.
func New(parent context.Context, deps Deps, cfg Config, log *logger.Logger) *Console {
	if cfg.LoadRetries < 0 {
		cfg.LoadRetries = 0
	}
	ctx, cancel := context.WithCancel(parent)
	return &Console{
		ctx:       ctx,
		cancel:    cancel,
		deps:      deps,
		cfg:       cfg,
		notifier:  notify.New(cfg.NotifyTimeout),
		images:    attachment.NewImageEncoder(cfg.MaxImageBytes),
		log:       log,
		now:       time.Now,
		userIndex: map[string]*entity.User{},
	}
}

// Notifier notificación visible de la consola.
func (c *Console) Notifier() *notify.Notifier { return c.notifier }

// Close desmonta la consola. Una carga en curso se abandona sin escribir más estado.
func (c *Console) Close() {
	c.cancel()
	c.notifier.Close()
}

// Closed indica si la consola ya fue desmontada.
func (c *Console) Closed() bool { return c.ctx.Err() != nil }

// ─── Carga masiva ─────────────────────────────────────────────────────────────

// LoadAll lee rooms, bookings y users en secuencia. Si cualquier paso falla se repite la
// secuencia completa hasta LoadRetries veces con espera fija. Al agotar los intentos conserva
// lo cargado, notifica un aviso y devuelve *domain.LoadError.
func (c *Console) LoadAll(ctx context.Context) (LoadResult, error) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	maxAttempts := 1 + c.cfg.LoadRetries
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(c.cfg.LoadBackoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return c.result(attempt-1, false), ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = c.loadOnce(ctx)
		if lastErr == nil {
			res := c.result(attempt, true)
			c.log.Info().Int("attempt", attempt).Int("rooms", res.Rooms).Int("bookings", res.Bookings).
				Int("users", res.Users).Msg("consola cargada")
			return res, nil
		}
		if ctx.Err() != nil {
			return c.result(attempt, false), ctx.Err()
		}
		c.log.Warn().Err(lastErr).Int("attempt", attempt).Int("max", maxAttempts).Msg("carga de consola fallida")
	}

	c.notifier.Notify("No se pudieron cargar todos los datos. Se muestran datos parciales.", notify.SeverityWarning)
	return c.result(maxAttempts, false), &domain.LoadError{Attempts: maxAttempts, Err: lastErr}
}

// loadOnce cada paso exitoso se publica de inmediato para que sobreviva a un fallo posterior.
func (c *Console) loadOnce(ctx context.Context) error {
	rooms, err := c.deps.Rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("listar habitaciones: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.rooms = rooms
	c.mu.Unlock()

	bookings, err := c.deps.Bookings.List(ctx)
	if err != nil {
		return fmt.Errorf("listar reservas: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.bookings = bookings
	c.mu.Unlock()

	users, err := c.deps.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("listar usuarios: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.setUsers(users)
	c.loadedAt = c.now()
	c.mu.Unlock()
	return nil
}

// setUsers requiere c.mu tomado.
func (c *Console) setUsers(users []*entity.User) {
	c.users = users
	c.userIndex = make(map[string]*entity.User, len(users))
	for _, u := range users {
		c.userIndex[u.AuthIdentity] = u
	}
}

func (c *Console) result(attempts int, complete bool) LoadResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return LoadResult{
		Attempts: attempts,
		Complete: complete,
		Rooms:    len(c.rooms),
		Bookings: len(c.bookings),
		Users:    len(c.users),
	}
}

// Rooms habitaciones cargadas.
func (c *Console) Rooms() []*entity.Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*entity.Room(nil), c.rooms...)
}

// Bookings reservas cargadas.
func (c *Console) Bookings() []*entity.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*entity.Booking(nil), c.bookings...)
}

// Users usuarios cargados.
func (c *Console) Users() []*entity.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*entity.User(nil), c.users...)
}

// UserByIdentity resuelve el autor de una reserva para la vista de reservas.
func (c *Console) UserByIdentity(uid string) (*entity.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.userIndex[uid]
	return u, ok
}

// LoadedAt momento de la última carga completa.
func (c *Console) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// ─── Habitaciones ─────────────────────────────────────────────────────────────

// CreateRoom da de alta una habitación. Exige imagen: adjunta o como referencia.
func (c *Console) CreateRoom(ctx context.Context, in RoomInput) (*entity.Room, error) {
	category, err := validateRoom(&in)
	if err != nil {
		return nil, err
	}
	image, err := c.resolveImage(ctx, in)
	if err != nil {
		return nil, err
	}
	if image == "" {
		return nil, domain.ErrImageRequired
	}

	now := c.now().UTC()
	room := &entity.Room{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Category:       category,
		Price:          in.Price,
		AvailableCount: in.AvailableCount,
		Description:    in.Description,
		ImageRef:       image,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := c.deps.Rooms.Create(ctx, room); err != nil {
		return nil, c.writeFailed("create room", err)
	}

	c.mu.Lock()
	c.rooms = append([]*entity.Room{room}, c.rooms...)
	c.mu.Unlock()
	c.log.Info().Str("room_id", room.ID).Str("category", string(room.Category)).Msg("habitación creada")
	c.notifier.Notify("Habitación creada", notify.SeveritySuccess)
	return room, nil
}

// UpdateRoom reemplaza todos los campos editables. Sin imagen nueva conserva la actual.
func (c *Console) UpdateRoom(ctx context.Context, id string, in RoomInput) (*entity.Room, error) {
	category, err := validateRoom(&in)
	if err != nil {
		return nil, err
	}
	current, err := c.deps.Rooms.GetByID(ctx, id)
	if err != nil {
		return nil, c.writeFailed("update room", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	image, err := c.resolveImage(ctx, in)
	if err != nil {
		return nil, err
	}
	if image == "" {
		image = current.ImageRef
	}

	room := &entity.Room{
		ID:             current.ID,
		Name:           in.Name,
		Category:       category,
		Price:          in.Price,
		AvailableCount: in.AvailableCount,
		Description:    in.Description,
		ImageRef:       image,
		CreatedAt:      current.CreatedAt,
		UpdatedAt:      c.now().UTC(),
	}
	if err := c.deps.Rooms.Update(ctx, room); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, c.writeFailed("update room", err)
	}

	c.mu.Lock()
	for i, r := range c.rooms {
		if r.ID == id {
			c.rooms[i] = room
		}
	}
	c.mu.Unlock()
	c.log.Info().Str("room_id", id).Msg("habitación actualizada")
	c.notifier.Notify("Habitación actualizada", notify.SeveritySuccess)
	return room, nil
}

// DeleteRoom borra la habitación sin tocar las reservas que la referencian.
func (c *Console) DeleteRoom(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if err := c.deps.Rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return c.writeFailed("delete room", err)
	}
	c.mu.Lock()
	c.rooms = removeByID(c.rooms, func(r *entity.Room) bool { return r.ID == id })
	c.mu.Unlock()
	c.log.Info().Str("room_id", id).Msg("habitación eliminada")
	c.notifier.Notify("Habitación eliminada", notify.SeveritySuccess)
	return nil
}

func (c *Console) resolveImage(ctx context.Context, in RoomInput) (string, error) {
	if in.Image != nil {
		att, err := c.images.Encode(ctx, *in.Image)
		if err != nil {
			if errors.Is(err, domain.ErrAttachmentTooLarge) {
				c.notifier.Notify("La imagen excede el tamaño máximo", notify.SeverityWarning)
			}
			return "", err
		}
		return att.Content, nil
	}
	return strings.TrimSpace(in.ImageRef), nil
}

// ─── Reservas ─────────────────────────────────────────────────────────────────

// MarkCompleted fija status=completed y sella completedAt. Repetirlo sobre una reserva ya
// completada vuelve a sellar la fecha.
func (c *Console) MarkCompleted(ctx context.Context, id string) (*entity.Booking, error) {
	at := c.now().UTC()
	if err := c.deps.Bookings.MarkCompleted(ctx, id, at); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, c.writeFailed("complete booking", err)
	}

	var updated *entity.Booking
	c.mu.Lock()
	for i, b := range c.bookings {
		if b.ID == id {
			cp := *b
			cp.MarkCompleted(at)
			c.bookings[i] = &cp
			updated = &cp
		}
	}
	c.mu.Unlock()
	if updated == nil {
		b, err := c.deps.Bookings.GetByID(ctx, id)
		if err == nil && b != nil {
			updated = b
		}
	}
	c.log.Info().Str("booking_id", id).Time("completed_at", at).Msg("reserva completada")
	c.notifier.Notify("Reserva marcada como completada", notify.SeveritySuccess)
	return updated, nil
}

// ProofFile comprobante de transferencia listo para descargar.
type ProofFile struct {
	Name string
	MIME string
	Data []byte
}

// Proof decodifica el comprobante adjunto a la reserva.
func (c *Console) Proof(ctx context.Context, id string) (*ProofFile, error) {
	var booking *entity.Booking
	c.mu.RLock()
	for _, b := range c.bookings {
		if b.ID == id {
			booking = b
			break
		}
	}
	c.mu.RUnlock()
	if booking == nil {
		b, err := c.deps.Bookings.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("obtener reserva: %w", err)
		}
		booking = b
	}
	if booking == nil || booking.TransferProof.Content == "" {
		return nil, domain.ErrNotFound
	}

	mime, data, err := attachment.Decode(booking.TransferProof.Content)
	if err != nil {
		c.log.Warn().Err(err).Str("booking_id", id).Msg("comprobante ilegible")
		return nil, err
	}
	name := booking.TransferProof.Name
	if name == "" {
		name = "proof-" + booking.ID
	}
	return &ProofFile{Name: name, MIME: mime, Data: data}, nil
}

// DeleteBooking borra la reserva. Irreversible.
func (c *Console) DeleteBooking(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if err := c.deps.Bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return c.writeFailed("delete booking", err)
	}
	c.mu.Lock()
	c.bookings = removeByID(c.bookings, func(b *entity.Booking) bool { return b.ID == id })
	c.mu.Unlock()
	c.log.Info().Str("booking_id", id).Msg("reserva eliminada")
	c.notifier.Notify("Reserva eliminada", notify.SeveritySuccess)
	return nil
}

// ─── Usuarios ─────────────────────────────────────────────────────────────────

// DeleteUser borra el usuario y todas sus reservas en una sola transacción.
// Los administradores no pueden eliminarse; si la lista no se puede consultar se rechaza.
func (c *Console) DeleteUser(ctx context.Context, id string, confirmed bool) (int64, error) {
	if !confirmed {
		return 0, domain.ErrConfirmationRequired
	}
	user, err := c.deps.Users.GetByID(ctx, id)
	if err != nil {
		return 0, c.writeFailed("delete user", err)
	}
	if user == nil {
		return 0, domain.ErrUserNotFound
	}

	admin, err := c.deps.Directory.IsAdmin(ctx, user.Email)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("no se pudo verificar si el usuario es administrador")
		return 0, &domain.PermissionError{Reason: "no se pudo verificar el administrador", Err: &domain.ProbeFailure{Err: err}}
	}
	if admin {
		return 0, domain.ErrProtectedUser
	}

	var removed int64
	err = c.deps.Tx.Run(ctx, func(users repository.UserRepository, bookings repository.BookingRepository) error {
		if err := users.Delete(ctx, user.ID); err != nil {
			return err
		}
		n, err := bookings.DeleteByUserRef(ctx, user.AuthIdentity)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, err
		}
		return 0, c.writeFailed("delete user", err)
	}

	c.mu.Lock()
	users := removeByID(c.users, func(u *entity.User) bool { return u.ID == user.ID })
	c.setUsers(users)
	c.bookings = removeByID(c.bookings, func(b *entity.Booking) bool { return b.UserRef == user.AuthIdentity })
	c.mu.Unlock()

	c.log.Info().Str("user_id", user.ID).Str("uid", user.AuthIdentity).Int64("bookings_deleted", removed).Msg("usuario eliminado")
	c.notifier.Notify(fmt.Sprintf("Usuario eliminado junto con %d reservas", removed), notify.SeveritySuccess)
	return removed, nil
}

// writeFailed registra, notifica y envuelve el fallo del almacén.
func (c *Console) writeFailed(op string, err error) error {
	c.log.Error().Err(err).Str("op", op).Msg("operación de consola fallida")
	c.notifier.Notify("Error: no se pudo completar la operación", notify.SeverityError)
	return &domain.WriteError{Op: op, Err: err}
}

func removeByID[T any](items []T, match func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}

// ─── Validación ───────────────────────────────────────────────────────────────

var roomValidator = newRoomValidator()

func newRoomValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("field")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateRoom(in *RoomInput) (entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	var fields []string
	if err := roomValidator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return "", err
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}
	category, ok := entity.ParseCategory(in.Category)
	if !ok && in.Category != "" {
		fields = append(fields, "category")
	}
	if err := domain.NewValidationError(fields...); err != nil {
		return "", err
	}
	return category, nil
}
