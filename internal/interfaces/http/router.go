package http

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Hotel-api/internal/application/catalog"
	"github.com/jhoicas/Hotel-api/internal/application/console"
	"github.com/jhoicas/Hotel-api/internal/application/identity"
	"github.com/jhoicas/Hotel-api/internal/application/receipt"
	"github.com/jhoicas/Hotel-api/internal/application/reservation"
	"github.com/jhoicas/Hotel-api/internal/application/workflow"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Identity  *identity.Provider
	Catalog   *catalog.Catalog
	Workflows *workflow.Registry
	Writer    *reservation.Writer
	Receipts  *receipt.Service
	Consoles  *console.Registry
}

// NewApp crea la aplicación Fiber con el codec JSON de goccy y recuperación de pánicos.
// bodyLimit debe cubrir el comprobante más el resto del formulario.
func NewApp(name string, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    bodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		Immutable:    true, // los parámetros de ruta llegan a los repositorios
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Identity)

	// Auth (público salvo logout)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.Identity)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/provider/:provider", authHandler.LoginWithProvider)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	// Catálogo (público)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	api.Get("/rooms", catalogHandler.List)
	api.Get("/rooms/:id", catalogHandler.GetByID)

	// Flujo de reserva (requiere sesión)
	wf := api.Group("/workflow", requireAuth)
	workflowHandler := NewWorkflowHandler(deps.Workflows, deps.Catalog)
	wf.Get("/", workflowHandler.Get)
	wf.Post("/select", workflowHandler.Select)
	wf.Post("/book-now", workflowHandler.BookNow)
	wf.Post("/reserve", workflowHandler.Reserve)
	wf.Post("/continue", workflowHandler.Continue)
	wf.Post("/back", workflowHandler.Back)
	wf.Post("/submit", workflowHandler.Submit)
	wf.Post("/done", workflowHandler.Done)
	wf.Get("/notification", workflowHandler.Notification)
	wf.Delete("/notification", workflowHandler.DismissNotification)

	// Reservas del huésped
	bookingHandler := NewBookingHandler(deps.Writer, deps.Receipts)
	api.Get("/me/bookings", requireAuth, bookingHandler.Mine)
	api.Get("/bookings/:id/receipt", requireAuth, bookingHandler.Receipt)

	// Consola de administración (sesión + lista de administradores)
	con := api.Group("/console", requireAuth, RequireAdmin(deps.Consoles.Guard()))
	consoleHandler := NewConsoleHandler(deps.Consoles)
	con.Post("/mount", consoleHandler.Mount)
	con.Post("/unmount", consoleHandler.Unmount)
	con.Post("/reload", consoleHandler.Reload)
	con.Get("/rooms", consoleHandler.Rooms)
	con.Post("/rooms", consoleHandler.CreateRoom)
	con.Put("/rooms/:id", consoleHandler.UpdateRoom)
	con.Delete("/rooms/:id", consoleHandler.DeleteRoom)
	con.Get("/bookings", consoleHandler.Bookings)
	con.Post("/bookings/:id/complete", consoleHandler.CompleteBooking)
	con.Get("/bookings/:id/proof", consoleHandler.Proof)
	con.Delete("/bookings/:id", consoleHandler.DeleteBooking)
	con.Get("/users", consoleHandler.Users)
	con.Delete("/users/:id", consoleHandler.DeleteUser)
	con.Get("/notification", consoleHandler.Notification)
	con.Delete("/notification", consoleHandler.DismissNotification)
}
