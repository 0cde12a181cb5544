package dto

import "time"

// BookingRoom copia de la habitación guardada en la reserva.
type BookingRoom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Details  string `json:"details"`
	Image    string `json:"image"`
}

// TransferProofResponse comprobante; Data solo se incluye en vistas de detalle.
type TransferProofResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// BookingUser datos del huésped unidos por uid en la consola.
type BookingUser struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// BookingResponse reserva con los nombres de campo del documento bookings.
type BookingResponse struct {
	ID                 string                `json:"id"`
	Room               BookingRoom           `json:"room"`
	Action             string                `json:"action"`
	CheckInDate        string                `json:"checkInDate"`
	CheckInTime        string                `json:"checkInTime"`
	CheckInTimeDisplay string                `json:"checkInTimeDisplay"`
	Subtotal           int64                 `json:"subtotal"`
	Tax                int64                 `json:"tax"`
	Total              int64                 `json:"total"`
	OriginBank         string                `json:"originBank"`
	SenderName         string                `json:"senderName"`
	TransferProof      TransferProofResponse `json:"transferProof"`
	UserID             string                `json:"userId"`
	User               *BookingUser          `json:"user,omitempty"`
	Status             string                `json:"status"`
	CreatedAt          time.Time             `json:"createdAt"`
	CompletedAt        *time.Time            `json:"completedAt,omitempty"`
}
