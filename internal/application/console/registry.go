package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Hotel-api/internal/application/identity"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// ErrNotMounted la consola no está montada para la sesión.
var ErrNotMounted = fmt.Errorf("%w: la consola no está montada", domain.ErrConflict)

// Registry una consola por administrador. Cada consola vive desde Mount hasta Unmount o el cierre de sesión.
type Registry struct {
	root  context.Context
	deps  Deps
	guard *Guard
	cfg   Config
	log   *logger.Logger

	mu       sync.Mutex
	consoles map[string]*Console
}

// NewRegistry root acota la vida de todas las consolas (apagado del servicio).
func NewRegistry(root context.Context, deps Deps, cfg Config, log *logger.Logger) *Registry {
	return &Registry{
		root:     root,
		deps:     deps,
		guard:    NewGuard(deps.Directory, log),
		cfg:      cfg,
		log:      log,
		consoles: map[string]*Console{},
	}
}

// Guard control de acceso compartido por el middleware HTTP.
func (r *Registry) Guard() *Guard { return r.guard }

// Mount verifica el acceso, crea la consola si hace falta y ejecuta la carga masiva.
// Un *domain.LoadError acompaña a una consola válida con datos parciales.
func (r *Registry) Mount(ctx context.Context, s *entity.Session) (*Console, LoadResult, error) {
	if err := r.guard.Authorize(ctx, s); err != nil {
		return nil, LoadResult{}, err
	}

	r.mu.Lock()
	c, ok := r.consoles[s.UID]
	if !ok || c.Closed() {
		c = New(r.root, r.deps, r.cfg, r.log.Component("console"))
		r.consoles[s.UID] = c
	}
	r.mu.Unlock()

	res, err := c.LoadAll(ctx)
	return c, res, err
}

// Get consola montada de la sesión.
func (r *Registry) Get(s *entity.Session) (*Console, error) {
	if s == nil {
		return nil, domain.ErrAuthRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consoles[s.UID]
	if !ok || c.Closed() {
		return nil, ErrNotMounted
	}
	return c, nil
}

// Unmount desmonta la consola de uid y cancela su carga en curso.
func (r *Registry) Unmount(uid string) {
	r.mu.Lock()
	c, ok := r.consoles[uid]
	delete(r.consoles, uid)
	r.mu.Unlock()
	if ok {
		c.Close()
	}
}

// OnSessionChange suscriptor del feed de identidad.
func (r *Registry) OnSessionChange(ev identity.SessionEvent) {
	if ev.Session == nil {
		r.Unmount(ev.UID)
	}
}

// Len consolas montadas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consoles)
}

// Close desmonta todas las consolas.
func (r *Registry) Close() {
	r.mu.Lock()
	consoles := r.consoles
	r.consoles = map[string]*Console{}
	r.mu.Unlock()
	for _, c := range consoles {
		c.Close()
	}
}
