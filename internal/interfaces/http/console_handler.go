package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/application/console"
	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/domain"
)

// ConsoleHandler consola de administración (protegido por RequireAdmin).
type ConsoleHandler struct {
	consoles *console.Registry
}

// NewConsoleHandler construye el handler.
func NewConsoleHandler(consoles *console.Registry) *ConsoleHandler {
	return &ConsoleHandler{consoles: consoles}
}

func (h *ConsoleHandler) current(c *fiber.Ctx) (*console.Console, error) {
	return h.consoles.Get(GetSession(c))
}

// Mount godoc
// @Summary      Montar la consola y cargar rooms, bookings y users
// @Description  Con fallos persistentes responde 206 con los datos parciales y un aviso.
// @Tags         console
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.ConsoleLoadResponse
// @Success      206  {object}  dto.ConsoleLoadResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/console/mount [post]
func (h *ConsoleHandler) Mount(c *fiber.Ctx) error {
	_, res, err := h.consoles.Mount(c.UserContext(), GetSession(c))
	return loadReply(c, res, err)
}

// Reload godoc
// @Summary      Recargar los datos de la consola
// @Tags         console
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.ConsoleLoadResponse
// @Success      206  {object}  dto.ConsoleLoadResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/console/reload [post]
func (h *ConsoleHandler) Reload(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := con.LoadAll(c.UserContext())
	return loadReply(c, res, err)
}

// Unmount godoc
// @Summary      Desmontar la consola
// @Tags         console
// @Security     BearerAuth
// @Success      204
// @Router       /api/console/unmount [post]
func (h *ConsoleHandler) Unmount(c *fiber.Ctx) error {
	h.consoles.Unmount(GetUID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func loadReply(c *fiber.Ctx, res console.LoadResult, err error) error {
	out := dto.ConsoleLoadResponse{
		Complete: res.Complete,
		Attempts: res.Attempts,
		Rooms:    res.Rooms,
		Bookings: res.Bookings,
		Users:    res.Users,
	}
	var lerr *domain.LoadError
	if errors.As(err, &lerr) {
		out.Warning = "datos parciales: " + lerr.Err.Error()
		return c.Status(fiber.StatusPartialContent).JSON(out)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rooms godoc
// @Summary      Habitaciones cargadas en la consola
// @Tags         console
// @Security     BearerAuth
// @Success      200  {array}  dto.RoomResponse
// @Router       /api/console/rooms [get]
func (h *ConsoleHandler) Rooms(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToRoomResponses(con.Rooms()))
}

// Bookings godoc
// @Summary      Reservas cargadas, unidas con su huésped
// @Tags         console
// @Security     BearerAuth
// @Success      200  {array}  dto.BookingResponse
// @Router       /api/console/bookings [get]
func (h *ConsoleHandler) Bookings(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	list := con.Bookings()
	out := make([]dto.BookingResponse, 0, len(list))
	for _, b := range list {
		user, _ := con.UserByIdentity(b.UserRef)
		out = append(out, dto.ToBookingResponse(b, user, true))
	}
	return c.JSON(out)
}

// Users godoc
// @Summary      Usuarios cargados
// @Tags         console
// @Security     BearerAuth
// @Success      200  {array}  dto.UserResponse
// @Router       /api/console/users [get]
func (h *ConsoleHandler) Users(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	list := con.Users()
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.ToUserResponse(u))
	}
	return c.JSON(out)
}

// CreateRoom godoc
// @Summary      Crear habitación (imagen obligatoria)
// @Tags         console
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        body       body      dto.RoomRequest  true   "name, category, price, available, details, image"
// @Param        imageFile  formData  file             false  "imagen de la habitación"
// @Success      201  {object}  dto.RoomResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/console/rooms [post]
func (h *ConsoleHandler) CreateRoom(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	in, closeFile, err := roomInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	defer closeFile()
	room, err := con.CreateRoom(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRoomResponse(room))
}

// UpdateRoom godoc
// @Summary      Editar habitación (sin imagen conserva la actual)
// @Tags         console
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        id    path  string           true  "ID"
// @Param        body  body  dto.RoomRequest  true  "campos editables"
// @Success      200  {object}  dto.RoomResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/console/rooms/{id} [put]
func (h *ConsoleHandler) UpdateRoom(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	in, closeFile, err := roomInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	defer closeFile()
	room, err := con.UpdateRoom(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToRoomResponse(room))
}

// DeleteRoom godoc
// @Summary      Eliminar habitación (requiere confirm=true)
// @Tags         console
// @Security     BearerAuth
// @Param        id       path   string  true  "ID"
// @Param        confirm  query  bool    true  "confirmación"
// @Success      204
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/console/rooms/{id} [delete]
func (h *ConsoleHandler) DeleteRoom(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := con.DeleteRoom(c.UserContext(), c.Params("id"), c.QueryBool("confirm")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteBooking godoc
// @Summary      Marcar reserva como completada
// @Tags         console
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.BookingResponse
// @Router       /api/console/bookings/{id}/complete [post]
func (h *ConsoleHandler) CompleteBooking(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	b, err := con.MarkCompleted(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if b == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	user, _ := con.UserByIdentity(b.UserRef)
	return c.JSON(dto.ToBookingResponse(b, user, false))
}

// Proof godoc
// @Summary      Descargar el comprobante de transferencia de una reserva
// @Tags         console
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/console/bookings/{id}/proof [get]
func (h *ConsoleHandler) Proof(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	proof, err := con.Proof(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, proof.MIME)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+proof.Name+`"`)
	return c.Send(proof.Data)
}

// DeleteBooking godoc
// @Summary      Eliminar reserva (requiere confirm=true)
// @Tags         console
// @Security     BearerAuth
// @Param        id       path   string  true  "ID"
// @Param        confirm  query  bool    true  "confirmación"
// @Success      204
// @Router       /api/console/bookings/{id} [delete]
func (h *ConsoleHandler) DeleteBooking(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := con.DeleteBooking(c.UserContext(), c.Params("id"), c.QueryBool("confirm")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteUser godoc
// @Summary      Eliminar usuario y todas sus reservas (requiere confirm=true)
// @Tags         console
// @Security     BearerAuth
// @Param        id       path   string  true  "ID del documento users"
// @Param        confirm  query  bool    true  "confirmación"
// @Success      200  {object}  dto.DeleteUserResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/console/users/{id} [delete]
func (h *ConsoleHandler) DeleteUser(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	id := c.Params("id")
	n, err := con.DeleteUser(c.UserContext(), id, c.QueryBool("confirm"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteUserResponse{UserID: id, BookingsDeleted: n})
}

// Notification godoc
// @Summary      Notificación visible de la consola
// @Tags         console
// @Security     BearerAuth
// @Success      200  {object}  dto.NotificationResponse
// @Success      204
// @Router       /api/console/notification [get]
func (h *ConsoleHandler) Notification(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	return notificationReply(c, con.Notifier())
}

// DismissNotification godoc
// @Summary      Descartar la notificación de la consola
// @Tags         console
// @Security     BearerAuth
// @Success      204
// @Router       /api/console/notification [delete]
func (h *ConsoleHandler) DismissNotification(c *fiber.Ctx) error {
	con, err := h.current(c)
	if err != nil {
		return writeError(c, err)
	}
	con.Notifier().Dismiss()
	return c.SendStatus(fiber.StatusNoContent)
}

// roomInput lee JSON o multipart. El archivo opcional va en imageFile.
func roomInput(c *fiber.Ctx) (console.RoomInput, func(), error) {
	noop := func() {}
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return console.RoomInput{}, noop, err
	}
	in := console.RoomInput{
		Name:           req.Name,
		Category:       req.Category,
		Price:          req.Price,
		AvailableCount: req.Available,
		Description:    req.Details,
		ImageRef:       req.Image,
	}
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return in, noop, nil
	}
	fh, err := c.FormFile("imageFile")
	if err != nil {
		return in, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return console.RoomInput{}, noop, err
	}
	in.Image = &attachment.Upload{Name: fh.Filename, Size: fh.Size, DeclaredMIME: fh.Header.Get("Content-Type"), Body: f}
	return in, func() { _ = f.Close() }, nil
}
