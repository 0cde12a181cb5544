// Package memory adaptador de persistencia en proceso. Implementa los mismos puertos que el
// adaptador PostgreSQL; se usa con STORE_DRIVER=memory y como fixture en los tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
)

var (
	_ repository.RoomRepository       = (*RoomRepo)(nil)
	_ repository.BookingRepository    = (*BookingRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.CredentialRepository = (*CredentialRepo)(nil)
	_ repository.AdminRepository      = (*AdminRepo)(nil)
	_ repository.TxRunner             = (*Store)(nil)
)

type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// noLock lo usan los repos atados a una transacción: el Store ya tiene el lock tomado.
type noLock struct{}

func (noLock) Lock()    {}
func (noLock) Unlock()  {}
func (noLock) RLock()   {}
func (noLock) RUnlock() {}

type data struct {
	rooms    map[string]entity.Room
	bookings map[string]entity.Booking
	users    map[string]entity.User
	creds    map[string]entity.Credential // por email
	admins   map[string]struct{}
}

func newData() *data {
	return &data{
		rooms:    map[string]entity.Room{},
		bookings: map[string]entity.Booking{},
		users:    map[string]entity.User{},
		creds:    map[string]entity.Credential{},
		admins:   map[string]struct{}{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.rooms {
		c.rooms[k] = v
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.creds {
		c.creds[k] = v
	}
	for k := range d.admins {
		c.admins[k] = struct{}{}
	}
	return c
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu sync.RWMutex
	d  *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// Rooms repositorio de habitaciones.
func (s *Store) Rooms() *RoomRepo { return &RoomRepo{mu: &s.mu, d: s.d} }

// Bookings repositorio de reservas.
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{mu: &s.mu, d: s.d} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{mu: &s.mu, d: s.d} }

// Credentials repositorio de credenciales.
func (s *Store) Credentials() *CredentialRepo { return &CredentialRepo{mu: &s.mu, d: s.d} }

// Admins lista de administradores.
func (s *Store) Admins() *AdminRepo { return &AdminRepo{mu: &s.mu, d: s.d} }

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
// El lock se mantiene durante toda la transacción.
func (s *Store) Run(ctx context.Context, fn func(users repository.UserRepository, bookings repository.BookingRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.d.clone()
	if err := fn(&UserRepo{mu: noLock{}, d: tx}, &BookingRepo{mu: noLock{}, d: tx}); err != nil {
		return err
	}
	*s.d = *tx
	return nil
}

// ─── Rooms ────────────────────────────────────────────────────────────────────

// RoomRepo vista de habitaciones.
type RoomRepo struct {
	mu locker
	d  *data
}

func (r *RoomRepo) Create(_ context.Context, room *entity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.d.rooms[room.ID]; ok {
		return domain.ErrDuplicate
	}
	if room.AvailableCount < 0 || room.Price < 0 {
		return domain.ErrInvalidInput
	}
	r.d.rooms[room.ID] = *room
	return nil
}

func (r *RoomRepo) GetByID(_ context.Context, id string) (*entity.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.d.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r *RoomRepo) List(_ context.Context) ([]*entity.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Room, 0, len(r.d.rooms))
	for _, room := range r.d.rooms {
		room := room
		list = append(list, &room)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *RoomRepo) Update(_ context.Context, room *entity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.d.rooms[room.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if room.AvailableCount < 0 || room.Price < 0 {
		return domain.ErrInvalidInput
	}
	next := *room
	next.CreatedAt = cur.CreatedAt
	r.d.rooms[room.ID] = next
	return nil
}

func (r *RoomRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.d.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.d.rooms, id)
	return nil
}

// ─── Bookings ─────────────────────────────────────────────────────────────────

// BookingRepo vista de reservas.
type BookingRepo struct {
	mu locker
	d  *data
}

func (r *BookingRepo) Create(_ context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.d.bookings[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.d.bookings[b.ID] = *b
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.d.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BookingRepo) List(_ context.Context) ([]*entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(*entity.Booking) bool { return true }), nil
}

func (r *BookingRepo) ListByUserRef(_ context.Context, userRef string) ([]*entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(b *entity.Booking) bool { return b.UserRef == userRef }), nil
}

func (r *BookingRepo) filter(keep func(*entity.Booking) bool) []*entity.Booking {
	list := make([]*entity.Booking, 0)
	for _, b := range r.d.bookings {
		b := b
		if keep(&b) {
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r *BookingRepo) MarkCompleted(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.d.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.MarkCompleted(at)
	// la clave sale de la entidad: id puede apuntar a un buffer que el llamador reutiliza
	r.d.bookings[b.ID] = b
	return nil
}

func (r *BookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.d.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.d.bookings, id)
	return nil
}

func (r *BookingRepo) DeleteByUserRef(_ context.Context, userRef string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, b := range r.d.bookings {
		if b.UserRef == userRef {
			delete(r.d.bookings, id)
			n++
		}
	}
	return n, nil
}

func (r *BookingRepo) OrphanUserRefs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	known := make(map[string]struct{}, len(r.d.users))
	for _, u := range r.d.users {
		known[u.AuthIdentity] = struct{}{}
	}
	seen := map[string]struct{}{}
	var refs []string
	for _, b := range r.d.bookings {
		if _, ok := known[b.UserRef]; ok {
			continue
		}
		if _, ok := seen[b.UserRef]; ok {
			continue
		}
		seen[b.UserRef] = struct{}{}
		refs = append(refs, b.UserRef)
	}
	sort.Strings(refs)
	return refs, nil
}

// ─── Users ────────────────────────────────────────────────────────────────────

// UserRepo vista de usuarios.
type UserRepo struct {
	mu locker
	d  *data
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.d.users {
		if cur.ID == u.ID || cur.AuthIdentity == u.AuthIdentity || strings.EqualFold(cur.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.d.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *UserRepo) GetByAuthIdentity(_ context.Context, uid string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.AuthIdentity == uid }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) find(match func(*entity.User) bool) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.d.users {
		u := u
		if match(&u) {
			return &u
		}
	}
	return nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.User, 0, len(r.d.users))
	for _, u := range r.d.users {
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.d.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.d.users, id)
	return nil
}

// ─── Credenciales y administradores ───────────────────────────────────────────

// CredentialRepo vista de credenciales.
type CredentialRepo struct {
	mu locker
	d  *data
}

func (r *CredentialRepo) Create(_ context.Context, c *entity.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(c.Email)
	if _, ok := r.d.creds[key]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.d.creds[key] = *c
	return nil
}

func (r *CredentialRepo) GetByEmail(_ context.Context, email string) (*entity.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.d.creds[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// AdminRepo vista de la lista de administradores.
type AdminRepo struct {
	mu locker
	d  *data
}

func (r *AdminRepo) ListEmails(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	emails := make([]string, 0, len(r.d.admins))
	for e := range r.d.admins {
		emails = append(emails, e)
	}
	sort.Strings(emails)
	return emails, nil
}

func (r *AdminRepo) Add(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.d.admins[strings.Clone(email)] = struct{}{}
	return nil
}
