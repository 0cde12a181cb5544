package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Hotel-api/internal/application/catalog"
	"github.com/jhoicas/Hotel-api/internal/application/console"
	"github.com/jhoicas/Hotel-api/internal/application/identity"
	"github.com/jhoicas/Hotel-api/internal/application/maintenance"
	"github.com/jhoicas/Hotel-api/internal/application/receipt"
	"github.com/jhoicas/Hotel-api/internal/application/reservation"
	"github.com/jhoicas/Hotel-api/internal/application/workflow"
	"github.com/jhoicas/Hotel-api/internal/domain/pricing"
	"github.com/jhoicas/Hotel-api/internal/domain/repository"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Hotel-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Hotel-api/internal/interfaces/http"
	"github.com/jhoicas/Hotel-api/pkg/config"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// stores repositorios del adaptador elegido por STORE_DRIVER.
type stores struct {
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	creds    repository.CredentialRepository
	admins   repository.AdminRepository
	tx       repository.TxRunner
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &stores{
			rooms: s.Rooms(), bookings: s.Bookings(), users: s.Users(),
			creds: s.Credentials(), admins: s.Admins(), tx: s,
			close: func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		rooms:    postgres.NewRoomRepository(pool),
		bookings: postgres.NewBookingRepository(pool),
		users:    postgres.NewUserRepository(pool),
		creds:    postgres.NewCredentialRepository(pool),
		admins:   postgres.NewAdminRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(rootCtx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	sessions := identity.NewSessions()
	provider := identity.NewProvider(st.creds, st.users, sessions, identity.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("identity"))

	calc := pricing.NewCalculator(cfg.Booking.TaxRate)
	writer := reservation.NewWriter(st.bookings, st.users, calc, log.Component("reservation"))
	rooms := catalog.New(st.rooms, log.Component("catalog"))
	directory := console.NewAllowlistDirectory(st.admins)

	flows := workflow.NewRegistry(writer, calc, workflow.Config{
		MaxAttachmentBytes: cfg.Booking.MaxAttachmentBytes,
		NotifyTimeout:      cfg.Guest.NotifyTimeout,
	}, log.Component("workflow"))
	consoles := console.NewRegistry(rootCtx, console.Deps{
		Rooms:     st.rooms,
		Bookings:  st.bookings,
		Users:     st.users,
		Tx:        st.tx,
		Directory: directory,
	}, console.Config{
		LoadRetries:   cfg.Console.LoadRetries,
		LoadBackoff:   cfg.Console.LoadBackoff,
		NotifyTimeout: cfg.Console.NotifyTimeout,
		MaxImageBytes: cfg.Booking.MaxAttachmentBytes,
	}, log)

	// el cierre de sesión descarta el flujo y desmonta la consola
	sessions.Subscribe(flows.OnSessionChange)
	sessions.Subscribe(consoles.OnSessionChange)

	receipts := receipt.NewService(cfg.App.Name, st.bookings, st.users, directory,
		infrapdf.NewReceiptGenerator(), log.Component("receipt"))

	sched := scheduler.New(log.Component("scheduler"))
	if cfg.Maintenance.Enabled {
		sweeper := maintenance.NewOrphanSweeper(st.bookings, st.tx, log.Component("maintenance"))
		if err := sched.Add("orphan-sweep", cfg.Maintenance.OrphanSweepSpec, sweeper.Job); err != nil {
			log.Fatal().Err(err).Msg("programar barrido de huérfanos")
		}
	}
	sched.Start()

	app := httpRouter.NewApp(cfg.App.Name, int(cfg.Booking.MaxAttachmentBytes)+1<<20)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Hotel API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Identity:  provider,
		Catalog:   rooms,
		Workflows: flows,
		Writer:    writer,
		Receipts:  receipts,
		Consoles:  consoles,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("detener tareas programadas")
	}
	stop()
	flows.Close()
	consoles.Close()

	log.Info().Msg("aplicación detenida")
}
