package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/application/catalog"
	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/application/notify"
	"github.com/jhoicas/Hotel-api/internal/application/workflow"
)

// WorkflowHandler expone el flujo de reserva del huésped autenticado.
type WorkflowHandler struct {
	flows   *workflow.Registry
	catalog *catalog.Catalog
}

// NewWorkflowHandler construye el handler.
func NewWorkflowHandler(flows *workflow.Registry, c *catalog.Catalog) *WorkflowHandler {
	return &WorkflowHandler{flows: flows, catalog: c}
}

func (h *WorkflowHandler) machine(c *fiber.Ctx) *workflow.Machine {
	return h.flows.For(GetSession(c))
}

// Get godoc
// @Summary      Estado del flujo de reserva
// @Tags         workflow
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.WorkflowResponse
// @Router       /api/workflow [get]
func (h *WorkflowHandler) Get(c *fiber.Ctx) error {
	m := h.machine(c)
	return c.JSON(workflowResponse(m.Snapshot(), m.Notifier()))
}

// Select godoc
// @Summary      Elegir habitación (Browsing → RoomDetail)
// @Tags         workflow
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectRoomRequest  true  "room_id"
// @Success      200  {object}  dto.WorkflowResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/workflow/select [post]
func (h *WorkflowHandler) Select(c *fiber.Ctx) error {
	var in dto.SelectRoomRequest
	if err := c.BodyParser(&in); err != nil || in.RoomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "room_id requerido", Fields: []string{"room_id"}})
	}
	room, err := h.catalog.Room(c.UserContext(), in.RoomID)
	if err != nil {
		return writeError(c, err)
	}
	if room == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "habitación no encontrada"})
	}
	m := h.machine(c)
	return h.respond(c, m, func() (workflow.Snapshot, error) { return m.Select(room) })
}

// BookNow godoc
// @Summary      Reservar ahora (RoomDetail → PaymentMethod)
// @Tags         workflow
// @Security     BearerAuth
// @Success      200  {object}  dto.WorkflowResponse
// @Router       /api/workflow/book-now [post]
func (h *WorkflowHandler) BookNow(c *fiber.Ctx) error {
	m := h.machine(c)
	return h.respond(c, m, m.BookNow)
}

// Reserve godoc
// @Summary      Reservar a futuro (RoomDetail → PaymentMethod)
// @Tags         workflow
// @Security     BearerAuth
// @Success      200  {object}  dto.WorkflowResponse
// @Router       /api/workflow/reserve [post]
func (h *WorkflowHandler) Reserve(c *fiber.Ctx) error {
	m := h.machine(c)
	return h.respond(c, m, m.Reserve)
}

// Continue godoc
// @Summary      Continuar a las instrucciones de pago
// @Tags         workflow
// @Security     BearerAuth
// @Success      200  {object}  dto.WorkflowResponse
// @Router       /api/workflow/continue [post]
func (h *WorkflowHandler) Continue(c *fiber.Ctx) error {
	m := h.machine(c)
	return h.respond(c, m, m.Continue)
}

// Back godoc
// @Summary      Volver al paso anterior
// @Tags         workflow
// @Security     BearerAuth
// @Success      200  {object}  dto.WorkflowResponse
// @Router       /api/workflow/back [post]
func (h *WorkflowHandler) Back(c *fiber.Ctx) error {
	m := h.machine(c)
	return h.respond(c, m, m.Back)
}

// Submit godoc
// @Summary      Enviar comprobante de transferencia (PaymentInstruction → Completed)
// @Tags         workflow
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        checkInDate    formData  string  true  "YYYY-MM-DD"
// @Param        checkInTime    formData  string  true  "HH:MM"
// @Param        originBank     formData  string  true  "banco de origen"
// @Param        senderName     formData  string  true  "nombre del remitente"
// @Param        transferProof  formData  file    true  "imagen o PDF, máx. 10 MiB"
// @Success      200  {object}  dto.WorkflowResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/workflow/submit [post]
func (h *WorkflowHandler) Submit(c *fiber.Ctx) error {
	form := workflow.InstructionForm{
		CheckInDate: c.FormValue("checkInDate"),
		CheckInTime: c.FormValue("checkInTime"),
		OriginBank:  c.FormValue("originBank"),
		SenderName:  c.FormValue("senderName"),
	}
	if fh, err := c.FormFile("transferProof"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
		}
		defer f.Close()
		form.TransferProof = &attachment.Upload{
			Name:         fh.Filename,
			Size:         fh.Size,
			DeclaredMIME: fh.Header.Get("Content-Type"),
			Body:         f,
		}
	}
	m := h.machine(c)
	snap, err := m.Submit(c.UserContext(), form)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(workflowResponse(snap, m.Notifier()))
}

// Done godoc
// @Summary      Cerrar la confirmación y volver al catálogo
// @Tags         workflow
// @Security     BearerAuth
// @Success      200  {object}  dto.WorkflowResponse
// @Router       /api/workflow/done [post]
func (h *WorkflowHandler) Done(c *fiber.Ctx) error {
	m := h.machine(c)
	return h.respond(c, m, m.Done)
}

// Notification godoc
// @Summary      Notificación visible del huésped
// @Tags         workflow
// @Security     BearerAuth
// @Success      200  {object}  dto.NotificationResponse
// @Success      204
// @Router       /api/workflow/notification [get]
func (h *WorkflowHandler) Notification(c *fiber.Ctx) error {
	return notificationReply(c, h.machine(c).Notifier())
}

// DismissNotification godoc
// @Summary      Descartar la notificación visible
// @Tags         workflow
// @Security     BearerAuth
// @Success      204
// @Router       /api/workflow/notification [delete]
func (h *WorkflowHandler) DismissNotification(c *fiber.Ctx) error {
	h.machine(c).Notifier().Dismiss()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *WorkflowHandler) respond(c *fiber.Ctx, m *workflow.Machine, step func() (workflow.Snapshot, error)) error {
	snap, err := step()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(workflowResponse(snap, m.Notifier()))
}

func workflowResponse(s workflow.Snapshot, n *notify.Notifier) dto.WorkflowResponse {
	out := dto.WorkflowResponse{
		State:        string(s.State),
		Action:       string(s.Action),
		BookingID:    s.BookingID,
		Notification: notificationResponse(n),
	}
	if s.Room != nil {
		room := dto.ToRoomResponse(s.Room)
		out.Room = &room
	}
	if s.Quote != nil {
		out.Subtotal, out.Tax, out.Total = s.Quote.Subtotal, s.Quote.Tax, s.Quote.Total
	}
	return out
}

func notificationResponse(n *notify.Notifier) *dto.NotificationResponse {
	note, ok := n.Current()
	if !ok {
		return nil
	}
	return &dto.NotificationResponse{ID: note.ID, Message: note.Message, Severity: string(note.Severity)}
}

func notificationReply(c *fiber.Ctx, n *notify.Notifier) error {
	resp := notificationResponse(n)
	if resp == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(resp)
}
