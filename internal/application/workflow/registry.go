package workflow

import (
	"sync"
	"time"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/application/identity"
	"github.com/jhoicas/Hotel-api/internal/application/notify"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/pricing"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// Config parámetros del flujo.
type Config struct {
	MaxAttachmentBytes int64
	NotifyTimeout      time.Duration
}

// Registry un flujo por identidad de sesión. Al cerrar sesión el flujo se descarta.
type Registry struct {
	mu       sync.Mutex
	machines map[string]*Machine

	writer  Committer
	encoder *attachment.Encoder
	calc    pricing.Calculator
	cfg     Config
	log     *logger.Logger
}

// NewRegistry construye el registro de flujos.
func NewRegistry(writer Committer, calc pricing.Calculator, cfg Config, log *logger.Logger) *Registry {
	return &Registry{
		machines: map[string]*Machine{},
		writer:   writer,
		encoder:  attachment.NewProofEncoder(cfg.MaxAttachmentBytes),
		calc:     calc,
		cfg:      cfg,
		log:      log,
	}
}

// For devuelve el flujo de la sesión, creándolo si no existe, y le asocia la sesión vigente.
func (r *Registry) For(s *entity.Session) *Machine {
	r.mu.Lock()
	m, ok := r.machines[s.UID]
	if !ok {
		m = NewMachine(r.writer, r.encoder, r.calc, notify.New(r.cfg.NotifyTimeout), r.log)
		r.machines[s.UID] = m
	}
	r.mu.Unlock()
	m.SetSession(s)
	return m
}

// Drop descarta el flujo de uid.
func (r *Registry) Drop(uid string) {
	r.mu.Lock()
	m, ok := r.machines[uid]
	delete(r.machines, uid)
	r.mu.Unlock()
	if ok {
		m.SetSession(nil)
		m.notifier.Close()
	}
}

// OnSessionChange suscriptor del feed de identidad.
func (r *Registry) OnSessionChange(ev identity.SessionEvent) {
	if ev.Session == nil {
		r.Drop(ev.UID)
	}
}

// Len flujos activos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.machines)
}

// Close descarta todos los flujos.
func (r *Registry) Close() {
	r.mu.Lock()
	machines := r.machines
	r.machines = map[string]*Machine{}
	r.mu.Unlock()
	for _, m := range machines {
		m.SetSession(nil)
		m.notifier.Close()
	}
}
