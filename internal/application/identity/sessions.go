package identity

import (
	"sync"
	"time"

	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// SessionEvent cambio de sesión. Session nil significa sesión cerrada.
type SessionEvent struct {
	UID     string
	Email   string
	Session *entity.Session
}

// Sessions feed de cambios de sesión y lista de tokens revocados.
// Se crea en la raíz de la aplicación y se inyecta en quien lo necesite.
type Sessions struct {
	mu      sync.RWMutex
	subs    map[int]func(SessionEvent)
	next    int
	revoked map[string]time.Time // jti -> expiración
	now     func() time.Time
}

// NewSessions crea el feed vacío.
func NewSessions() *Sessions {
	return &Sessions{
		subs:    map[int]func(SessionEvent){},
		revoked: map[string]time.Time{},
		now:     time.Now,
	}
}

// Subscribe registra fn y devuelve la función para darse de baja.
// fn se invoca de forma síncrona; no debe bloquear.
func (s *Sessions) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Sessions) publish(ev SessionEvent) {
	s.mu.RLock()
	fns := make([]func(SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Sessions) revoke(tokenID string, exp time.Time) {
	if tokenID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = exp
	now := s.now()
	for id, e := range s.revoked {
		if !e.IsZero() && e.Before(now) {
			delete(s.revoked, id)
		}
	}
}

func (s *Sessions) isRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok
}
