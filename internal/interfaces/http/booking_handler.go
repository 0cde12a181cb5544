package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/application/receipt"
	"github.com/jhoicas/Hotel-api/internal/application/reservation"
)

// BookingHandler historial y comprobantes del huésped.
type BookingHandler struct {
	writer   *reservation.Writer
	receipts *receipt.Service
}

// NewBookingHandler construye el handler.
func NewBookingHandler(writer *reservation.Writer, receipts *receipt.Service) *BookingHandler {
	return &BookingHandler{writer: writer, receipts: receipts}
}

// Mine godoc
// @Summary      Reservas del huésped autenticado
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.BookingResponse
// @Router       /api/me/bookings [get]
func (h *BookingHandler) Mine(c *fiber.Ctx) error {
	list, err := h.writer.History(c.UserContext(), GetUID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ToBookingResponse(b, nil, false))
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una reserva (propietario o administrador)
// @Tags         bookings
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bookings/{id}/receipt [get]
func (h *BookingHandler) Receipt(c *fiber.Ctx) error {
	out, name, err := h.receipts.Render(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	return c.Send(out)
}
