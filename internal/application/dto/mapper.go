package dto

import "github.com/jhoicas/Hotel-api/internal/domain/entity"

// ToRoomResponse mapea una habitación al documento rooms.
func ToRoomResponse(r *entity.Room) RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Category:  string(r.Category),
		Price:     r.Price,
		Available: r.AvailableCount,
		Details:   r.Description,
		Image:     r.ImageRef,
	}
}

// ToRoomResponses mapea una lista; nunca devuelve nil para serializar [] y no null.
func ToRoomResponses(rooms []*entity.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, ToRoomResponse(r))
	}
	return out
}

// ToUserResponse mapea un usuario.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UID:         u.AuthIdentity,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// ToBookingResponse mapea una reserva. user puede ser nil (huésped borrado o vista propia).
// withProof incluye el contenido del comprobante.
func ToBookingResponse(b *entity.Booking, user *entity.User, withProof bool) BookingResponse {
	resp := BookingResponse{
		ID: b.ID,
		Room: BookingRoom{
			ID:       b.Room.ID,
			Name:     b.Room.Name,
			Category: string(b.Room.Category),
			Price:    b.Room.Price,
			Details:  b.Room.Description,
			Image:    b.Room.ImageRef,
		},
		Action:             string(b.Action),
		CheckInDate:        b.CheckInDate,
		CheckInTime:        b.CheckInTime,
		CheckInTimeDisplay: FormatTime12Hour(b.CheckInTime),
		Subtotal:           b.Subtotal,
		Tax:                b.Tax,
		Total:              b.Total,
		OriginBank:         b.OriginBank,
		SenderName:         b.SenderName,
		TransferProof: TransferProofResponse{
			Name: b.TransferProof.Name,
			Size: b.TransferProof.Size,
			Type: b.TransferProof.MIME,
		},
		UserID:      b.UserRef,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		CompletedAt: b.CompletedAt,
	}
	if withProof {
		resp.TransferProof.Data = b.TransferProof.Content
	}
	if user != nil {
		resp.User = &BookingUser{DisplayName: user.DisplayName, Email: user.Email}
	}
	return resp
}
