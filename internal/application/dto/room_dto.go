package dto

// RoomRequest alta o edición de una habitación. En edición Image puede ir vacío y se conserva la actual.
type RoomRequest struct {
	Name      string `json:"name" form:"name" validate:"required,max=200"`
	Category  string `json:"category" form:"category" validate:"required"`
	Price     int64  `json:"price" form:"price" validate:"gte=0"`
	Available int    `json:"available" form:"available" validate:"gte=0"`
	Details   string `json:"details" form:"details" validate:"max=2000"`
	Image     string `json:"image" form:"image"`
}

// RoomResponse habitación con los nombres de campo del documento rooms.
type RoomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Available int    `json:"available"`
	Details   string `json:"details"`
	Image     string `json:"image"`
}

// CatalogResponse resultado del catálogo público.
type CatalogResponse struct {
	Filter string         `json:"filter"`
	Query  string         `json:"q"`
	Rooms  []RoomResponse `json:"rooms"`
}
