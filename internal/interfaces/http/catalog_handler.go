package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Hotel-api/internal/application/catalog"
	"github.com/jhoicas/Hotel-api/internal/application/dto"
)

// CatalogHandler catálogo público de habitaciones.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// List godoc
// @Summary      Listar habitaciones
// @Description  Filtra por categoría (All, Silver Tier, Gold Tier, Penthouse, Beach/Seaside, Romance, Family) y busca en nombre, categoría y descripción.
// @Tags         catalog
// @Produce      json
// @Param        category  query  string  false  "categoría"
// @Param        q         query  string  false  "texto a buscar"
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/rooms [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	view, err := h.catalog.Load(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	filter := c.Query("category", catalog.FilterAll)
	term := c.Query("q")
	view.FilterByCategory(filter)
	rooms := view.Search(term)
	return c.JSON(dto.CatalogResponse{Filter: filter, Query: term, Rooms: dto.ToRoomResponses(rooms)})
}

// GetByID godoc
// @Summary      Detalle de habitación
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.RoomResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rooms/{id} [get]
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	room, err := h.catalog.Room(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if room == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "habitación no encontrada"})
	}
	return c.JSON(dto.ToRoomResponse(room))
}
