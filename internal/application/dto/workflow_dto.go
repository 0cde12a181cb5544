package dto

// SelectRoomRequest elección de habitación en Browsing.
type SelectRoomRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

// WorkflowResponse estado del flujo del huésped.
type WorkflowResponse struct {
	State        string                `json:"state"`
	Room         *RoomResponse         `json:"room,omitempty"`
	Action       string                `json:"action,omitempty"`
	Subtotal     int64                 `json:"subtotal,omitempty"`
	Tax          int64                 `json:"tax,omitempty"`
	Total        int64                 `json:"total,omitempty"`
	BookingID    string                `json:"bookingId,omitempty"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

// ConsoleLoadResponse resultado de la carga masiva de la consola.
type ConsoleLoadResponse struct {
	Complete bool   `json:"complete"`
	Attempts int    `json:"attempts"`
	Rooms    int    `json:"rooms"`
	Bookings int    `json:"bookings"`
	Users    int    `json:"users"`
	Warning  string `json:"warning,omitempty"`
}

// DeleteUserResponse resultado del borrado en cascada.
type DeleteUserResponse struct {
	UserID          string `json:"userId"`
	BookingsDeleted int64  `json:"bookingsDeleted"`
}
