// Package notify canal de retroalimentación efímero de una sola posición.
// La notificación más reciente reemplaza a la anterior y se limpia sola tras un timeout
// o al descartarla explícitamente.
package notify

import (
	"sync"
	"time"
)

// Severity nivel visual de la notificación.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification mensaje visible.
type Notification struct {
	ID        uint64
	Message   string
	Severity  Severity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier estado de una sola posición. Seguro para uso concurrente.
type Notifier struct {
	mu      sync.Mutex
	timeout time.Duration
	seq     uint64
	current *Notification
	timer   *time.Timer
	closed  bool
	now     func() time.Time
}

// New crea un notificador con auto-limpieza tras timeout. timeout <= 0 desactiva la auto-limpieza.
func New(timeout time.Duration) *Notifier {
	return &Notifier{timeout: timeout, now: time.Now}
}

// Notify reemplaza la notificación visible. Severity vacío equivale a success.
func (n *Notifier) Notify(message string, severity Severity) Notification {
	if severity == "" {
		severity = SeveritySuccess
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	now := n.now()
	note := Notification{
		ID:        n.seq,
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
	}
	if n.timeout > 0 {
		note.ExpiresAt = now.Add(n.timeout)
	}
	if n.closed {
		return note
	}
	n.current = &note
	n.stopTimer()
	if n.timeout > 0 {
		id := note.ID
		n.timer = time.AfterFunc(n.timeout, func() { n.expire(id) })
	}
	return note
}

// Current devuelve la notificación visible, si hay.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss limpia la notificación visible.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
	n.stopTimer()
}

// Close detiene el temporizador pendiente; las notificaciones posteriores no se muestran.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.current = nil
	n.stopTimer()
}

// expire solo limpia si la notificación visible sigue siendo la que programó el timer.
func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current = nil
		n.timer = nil
	}
}

func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
