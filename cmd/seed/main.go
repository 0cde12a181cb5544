// seed carga el catálogo inicial de habitaciones y el primer administrador.
//
// Uso: go run ./cmd/seed
// Las habitaciones solo se insertan si el catálogo está vacío. El administrador se toma de
// SEED_ADMIN_EMAIL y se agrega a la lista permitida (idempotente).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Hotel-api/pkg/config"
)

type seedRoom struct {
	name     string
	category entity.Category
	price    int64
	count    int
	details  string
	image    string
}

var defaultRooms = []seedRoom{
	{"Silver Tier Room", entity.CategorySilverTier, 299, 5, "Habitación estándar con cama queen y baño privado.", "https://images.unsplash.com/photo-1611892440504-42a792e24d32"},
	{"Gold Tier Room", entity.CategoryGoldTier, 399, 4, "Cama king, sala de estar y vista al jardín.", "https://images.unsplash.com/photo-1590490360182-c33d57733427"},
	{"Penthouse Suite", entity.CategoryPenthouse, 599, 1, "Último piso con terraza privada y jacuzzi.", "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b"},
	{"Seaside View", entity.CategoryBeach, 349, 3, "Balcón frente al mar y acceso directo a la playa.", "https://images.unsplash.com/photo-1566073771259-6a8506099945"},
	{"Couple's Retreat", entity.CategoryRomance, 259, 2, "Decoración romántica, desayuno en la habitación.", "https://images.unsplash.com/photo-1578683010236-d716f9a3f461"},
	{"Family Suite", entity.CategoryFamily, 329, 3, "Dos habitaciones conectadas para hasta seis huéspedes.", "https://images.unsplash.com/photo-1596394516093-501ba68a0ba6"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL", err)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		fail("migrar", err)
	}

	rooms := postgres.NewRoomRepository(pool)
	existing, err := rooms.List(ctx)
	if err != nil {
		fail("listar habitaciones", err)
	}
	if len(existing) == 0 {
		now := time.Now()
		for _, s := range defaultRooms {
			room := &entity.Room{
				ID:             uuid.New().String(),
				Name:           s.name,
				Category:       s.category,
				Price:          s.price,
				AvailableCount: s.count,
				Description:    s.details,
				ImageRef:       s.image,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := rooms.Create(ctx, room); err != nil {
				fail("crear "+s.name, err)
			}
		}
		fmt.Printf("Insertadas %d habitaciones\n", len(defaultRooms))
	} else {
		fmt.Printf("Catálogo con %d habitaciones, no se insertan las predeterminadas\n", len(existing))
	}

	if cfg.Seed.AdminEmail != "" {
		if err := postgres.NewAdminRepository(pool).Add(ctx, cfg.Seed.AdminEmail); err != nil {
			fail("agregar administrador", err)
		}
		fmt.Printf("Administrador permitido: %s\n", cfg.Seed.AdminEmail)
	}
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
