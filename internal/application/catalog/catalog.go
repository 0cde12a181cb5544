// Package catalog proyección de solo lectura de la colección rooms, con filtro por categoría y búsqueda.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// FilterAll etiqueta que deja pasar todas las categorías.
const FilterAll = "All"

// aliases etiquetas de filtro que no coinciden con el nombre de la categoría.
var aliases = map[string]entity.Category{
	"Seaside": entity.CategoryBeach,
}

// Catalog carga instantáneas del catálogo. No tiene camino de escritura.
type Catalog struct {
	rooms repository.RoomRepository
	log   *logger.Logger
	now   func() time.Time
}

// New construye el catálogo.
func New(rooms repository.RoomRepository, log *logger.Logger) *Catalog {
	return &Catalog{rooms: rooms, log: log, now: time.Now}
}

// Load lee la colección completa una vez. Para ver cambios del admin hay que volver a cargar.
func (c *Catalog) Load(ctx context.Context) (*View, error) {
	rooms, err := c.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar catálogo: %w", err)
	}
	c.log.Debug().Int("rooms", len(rooms)).Msg("catálogo cargado")
	return NewView(rooms, c.now()), nil
}

// Room busca una habitación en el almacén (no en la instantánea).
func (c *Catalog) Room(ctx context.Context, id string) (*entity.Room, error) {
	return c.rooms.GetByID(ctx, id)
}

// View instantánea con el filtro y el término de búsqueda activos.
type View struct {
	mu       sync.RWMutex
	rooms    []*entity.Room
	loadedAt time.Time
	filter   string
	term     string
}

// NewView crea una vista sobre rooms con filtro All y sin término.
func NewView(rooms []*entity.Room, loadedAt time.Time) *View {
	return &View{rooms: rooms, loadedAt: loadedAt, filter: FilterAll}
}

// LoadedAt momento de la carga.
func (v *View) LoadedAt() time.Time { return v.loadedAt }

// Rooms instantánea completa sin filtrar.
func (v *View) Rooms() []*entity.Room {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*entity.Room, len(v.rooms))
	copy(out, v.rooms)
	return out
}

// FilterByCategory fija el filtro activo y devuelve el resultado combinado con la búsqueda activa.
func (v *View) FilterByCategory(tag string) []*entity.Room {
	v.mu.Lock()
	v.filter = tag
	v.mu.Unlock()
	return v.Results()
}

// Search fija el término activo y devuelve el resultado combinado con el filtro activo.
func (v *View) Search(term string) []*entity.Room {
	v.mu.Lock()
	v.term = term
	v.mu.Unlock()
	return v.Results()
}

// Results aplica filtro AND búsqueda sobre la instantánea.
func (v *View) Results() []*entity.Room {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Query(v.rooms, v.filter, v.term)
}

// Query función pura usada por la vista y por el endpoint público.
// Una etiqueta desconocida no devuelve habitaciones.
func Query(rooms []*entity.Room, tag, term string) []*entity.Room {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(term))
	out := make([]*entity.Room, 0, len(rooms))
	for _, r := range rooms {
		if !matchesCategory(r, tag) {
			continue
		}
		if needle != "" &&
			!strings.Contains(folder.String(r.Name), needle) &&
			!strings.Contains(folder.String(string(r.Category)), needle) &&
			!strings.Contains(folder.String(r.Description), needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesCategory(r *entity.Room, tag string) bool {
	if tag == "" || tag == FilterAll {
		return true
	}
	if cat, ok := aliases[tag]; ok {
		return r.Category == cat
	}
	return string(r.Category) == tag
}
