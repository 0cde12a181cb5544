// Package workflow máquina de estados que guía a un huésped desde la selección de habitación
// hasta la confirmación del pago por transferencia.
//
//	Browsing -select-> RoomDetail -bookNow|reserve-> PaymentMethod -continue-> PaymentInstruction -submit-> Completed -done-> Browsing
//
// Una transición inválida devuelve domain.ErrInvalidTransition sin cambiar el estado.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/application/notify"
	"github.com/jhoicas/Hotel-api/internal/application/reservation"
	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/pricing"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// State estado del flujo.
type State string

const (
	StateBrowsing           State = "browsing"
	StateRoomDetail         State = "room_detail"
	StatePaymentMethod      State = "payment_method"
	StatePaymentInstruction State = "payment_instruction"
	StateCompleted          State = "completed"
)

// Committer puerto hacia el escritor de reservas.
type Committer interface {
	Commit(ctx context.Context, p reservation.Payload, sessionIdentity string) (string, error)
}

// Snapshot vista inmutable del flujo para la capa HTTP.
type Snapshot struct {
	State     State
	Room      *entity.Room
	Action    entity.Action
	Quote     *pricing.Quote
	BookingID string
}

// Machine flujo de un huésped. Seguro para uso concurrente; submit serializa con el resto de transiciones.
type Machine struct {
	mu        sync.Mutex
	state     State
	session   *entity.Session
	room      *entity.Room
	action    entity.Action
	bookingID string

	writer   Committer
	encoder  *attachment.Encoder
	calc     pricing.Calculator
	notifier *notify.Notifier
	log      *logger.Logger
}

// NewMachine crea un flujo en Browsing sin sesión.
func NewMachine(writer Committer, encoder *attachment.Encoder, calc pricing.Calculator, notifier *notify.Notifier, log *logger.Logger) *Machine {
	return &Machine{
		state:    StateBrowsing,
		writer:   writer,
		encoder:  encoder,
		calc:     calc,
		notifier: notifier,
		log:      log,
	}
}

// SetSession asocia (o con nil, retira) la sesión. Sin sesión el flujo vuelve a Browsing.
func (m *Machine) SetSession(s *entity.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	if s == nil {
		m.reset()
	}
}

// Notifier canal de notificaciones del huésped.
func (m *Machine) Notifier() *notify.Notifier { return m.notifier }

// Snapshot estado actual.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Machine) snapshot() Snapshot {
	s := Snapshot{State: m.state, Action: m.action, BookingID: m.bookingID}
	if m.room != nil {
		room := *m.room
		s.Room = &room
		q := m.calc.Quote(room.Price)
		s.Quote = &q
	}
	return s
}

// Select Browsing -> RoomDetail. Sin sesión devuelve domain.ErrAuthRequired (ir a autenticación).
func (m *Machine) Select(room *entity.Room) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateBrowsing {
		return m.snapshot(), domain.ErrInvalidTransition
	}
	if m.session == nil {
		return m.snapshot(), domain.ErrAuthRequired
	}
	if room == nil {
		return m.snapshot(), domain.ErrNotFound
	}
	r := *room
	m.room = &r
	m.state = StateRoomDetail
	return m.snapshot(), nil
}

// BookNow RoomDetail -> PaymentMethod(book).
func (m *Machine) BookNow() (Snapshot, error) {
	return m.choose(entity.ActionBook)
}

// Reserve RoomDetail -> PaymentMethod(reserve).
func (m *Machine) Reserve() (Snapshot, error) {
	return m.choose(entity.ActionReserve)
}

func (m *Machine) choose(action entity.Action) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRoomDetail {
		return m.snapshot(), domain.ErrInvalidTransition
	}
	m.action = action
	m.state = StatePaymentMethod
	return m.snapshot(), nil
}

// Continue PaymentMethod -> PaymentInstruction con la misma acción.
func (m *Machine) Continue() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePaymentMethod {
		return m.snapshot(), domain.ErrInvalidTransition
	}
	m.state = StatePaymentInstruction
	return m.snapshot(), nil
}

// Back RoomDetail|PaymentMethod -> Browsing (suelta la habitación); PaymentInstruction -> PaymentMethod.
func (m *Machine) Back() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateRoomDetail, StatePaymentMethod:
		m.reset()
	case StatePaymentInstruction:
		m.state = StatePaymentMethod
	default:
		return m.snapshot(), domain.ErrInvalidTransition
	}
	return m.snapshot(), nil
}

// Submit PaymentInstruction -> Completed. Orden: esquema de campos requeridos, tamaño del
// comprobante, conversión y commit síncrono. Cualquier fallo deja el flujo en PaymentInstruction.
func (m *Machine) Submit(ctx context.Context, form InstructionForm) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePaymentInstruction {
		return m.snapshot(), domain.ErrInvalidTransition
	}
	if m.session == nil {
		return m.snapshot(), domain.ErrAuthRequired
	}

	form.normalize()
	if err := validateForm(form); err != nil {
		return m.snapshot(), err
	}
	if err := m.encoder.CheckSize(form.TransferProof.Size); err != nil {
		m.notifier.Notify("El comprobante supera el tamaño máximo permitido.", notify.SeverityWarning)
		return m.snapshot(), err
	}
	proof, err := m.encoder.Encode(ctx, *form.TransferProof)
	if err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			m.notifier.Notify("No se pudo procesar el comprobante.", notify.SeverityWarning)
		}
		return m.snapshot(), err
	}

	id, err := m.writer.Commit(ctx, reservation.Payload{
		Room:          m.room.Snapshot(),
		Action:        m.action,
		CheckInDate:   form.CheckInDate,
		CheckInTime:   form.CheckInTime,
		OriginBank:    form.OriginBank,
		SenderName:    form.SenderName,
		TransferProof: proof,
	}, m.session.UID)
	if err != nil {
		m.log.Warn().Err(err).Str("uid", m.session.UID).Msg("commit de reserva fallido")
		m.notifier.Notify("No se pudo guardar la reserva. Intente de nuevo.", notify.SeverityError)
		return m.snapshot(), err
	}

	m.bookingID = id
	m.state = StateCompleted
	if m.action == entity.ActionReserve {
		m.notifier.Notify("Reserva registrada.", notify.SeveritySuccess)
	} else {
		m.notifier.Notify("Pago registrado.", notify.SeveritySuccess)
	}
	return m.snapshot(), nil
}

// Done Completed -> Browsing; limpia habitación y acción.
func (m *Machine) Done() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateCompleted {
		return m.snapshot(), domain.ErrInvalidTransition
	}
	m.reset()
	return m.snapshot(), nil
}

func (m *Machine) reset() {
	m.state = StateBrowsing
	m.room = nil
	m.action = ""
	m.bookingID = ""
}
