package entity

import (
	"strings"
	"time"
)

// Category etiqueta de clasificación de una habitación.
type Category string

const (
	CategorySilverTier Category = "Silver Tier"
	CategoryGoldTier   Category = "Gold Tier"
	CategoryPenthouse  Category = "Penthouse"
	CategoryBeach      Category = "Beach"
	CategoryRomance    Category = "Romance"
	CategoryFamily     Category = "Family"
)

// Categories lista en el orden en que se muestran los filtros.
var Categories = []Category{
	CategorySilverTier,
	CategoryGoldTier,
	CategoryPenthouse,
	CategoryBeach,
	CategoryRomance,
	CategoryFamily,
}

// Valid indica si la categoría pertenece al catálogo.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ParseCategory acepta la etiqueta sin distinguir mayúsculas.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, v := range Categories {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

// Room representa una habitación del catálogo. Solo el administrador la crea o modifica.
// Price está en unidades menores de la moneda. AvailableCount es un número administrado
// a mano: las reservas no lo descuentan.
type Room struct {
	ID             string
	Name           string
	Category       Category
	Price          int64
	AvailableCount int
	Description    string
	ImageRef       string // URL o data URL de la imagen
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Snapshot copia los campos de la habitación que se congelan en la reserva.
func (r *Room) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		Description: r.Description,
		ImageRef:    r.ImageRef,
	}
}

// RoomSnapshot copia de la habitación al momento de reservar.
// Borrar la habitación no altera el historial de reservas.
type RoomSnapshot struct {
	ID          string
	Name        string
	Category    Category
	Price       int64
	Description string
	ImageRef    string
}
