package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action distingue una estadía inmediata de una reserva a futuro.
type Action string

const (
	ActionBook    Action = "book"
	ActionReserve Action = "reserve"
)

// Valid indica si la acción es conocida.
func (a Action) Valid() bool {
	return a == ActionBook || a == ActionReserve
}

// BookingStatus ciclo de vida de la reserva.
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCompleted BookingStatus = "completed"
)

// Attachment comprobante embebido: nombre, tamaño en bytes, tipo MIME y contenido como data URL.
type Attachment struct {
	Name    string
	Size    int64
	MIME    string
	Content string // data:<mime>;base64,<payload>
}

// Booking representa una reserva creada por un huésped al completar el flujo.
// Subtotal, Tax y Total se derivan del precio de la habitación; nunca los edita el usuario.
// UserRef es la identidad de sesión (User.AuthIdentity) del huésped.
type Booking struct {
	ID            string
	Room          RoomSnapshot
	Action        Action
	CheckInDate   string // YYYY-MM-DD
	CheckInTime   string // HH:MM (24h)
	Subtotal      int64
	Tax           int64
	Total         int64
	TaxRate       decimal.Decimal
	OriginBank    string
	SenderName    string
	TransferProof Attachment
	UserRef       string
	Status        BookingStatus
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// MarkCompleted pasa la reserva a completed y sella completedAt.
// Aplicarlo sobre una reserva ya completada vuelve a sellar la fecha.
func (b *Booking) MarkCompleted(now time.Time) {
	b.Status = BookingStatusCompleted
	b.CompletedAt = &now
}
