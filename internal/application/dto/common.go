package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// NotificationResponse notificación visible de un canal (huésped o consola).
type NotificationResponse struct {
	ID       uint64 `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// FormatTime12Hour convierte "HH:MM" a "h:MM AM/PM". Vacío o inválido devuelve "N/A".
func FormatTime12Hour(hhmm string) string {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return "N/A"
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return "N/A"
	}
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%s %s", h12, minutes, ampm)
}
