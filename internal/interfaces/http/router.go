package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/application/booking"
	"github.com/jhoicas/turnos-api/internal/application/catalog"
	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/application/tabs"
	"github.com/jhoicas/turnos-api/internal/application/ventas"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Clients     *catalog.Service[entity.Client]
	Articulos   *catalog.Service[entity.Articulo]
	Categorias  *catalog.Service[entity.Categoria]
	Proveedores *catalog.Service[entity.Proveedor]
	MetodosPago *catalog.Service[entity.MetodoPago]
	Courts      *catalog.Service[entity.Court]
	TurnoTypes  *catalog.Service[entity.TurnoType]
	Bookings    *booking.UseCase
	Tabs        *tabs.UseCase
	Ventas      *ventas.UseCase
	VentasState *ventas.ListState
	Receipts    ventas.ReceiptGenerator
	Tracker     *opstatus.Tracker
	JWTSecret   string
	JWTAudience string
	Log         zerolog.Logger
}

// Router registra las rutas de la API. Todo /api salvo /api/status requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	// Público: se registra antes del middleware del grupo
	statusHandler := NewStatusHandler(deps.Tracker)
	app.Get("/api/status", statusHandler.Snapshot)
	app.Get("/api/status/stream", statusHandler.Stream)

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTAudience))

	// Catálogos
	NewCatalogHandler(deps.Clients, "Cliente", func(c *entity.Client, id int64) { c.ID = id }, deps.Log).mount(api, "/clients")
	NewCatalogHandler(deps.Articulos, "Artículo", func(a *entity.Articulo, id int64) { a.ID = id }, deps.Log).mount(api, "/articulos")
	NewCatalogHandler(deps.Categorias, "Categoría", func(c *entity.Categoria, id int64) { c.ID = id }, deps.Log).mount(api, "/categorias")
	NewCatalogHandler(deps.Proveedores, "Proveedor", func(p *entity.Proveedor, id int64) { p.ID = id }, deps.Log).mount(api, "/proveedores")
	NewCatalogHandler(deps.MetodosPago, "Método de pago", func(m *entity.MetodoPago, id int64) { m.ID = id }, deps.Log).mount(api, "/metodos-pago")

	// Canchas y tipos de turno: solo listado y alta
	courts := NewCatalogHandler(deps.Courts, "Cancha", func(c *entity.Court, id int64) { c.ID = id }, deps.Log)
	api.Get("/courts", courts.List)
	api.Post("/courts", courts.Create)
	turnoTypes := NewCatalogHandler(deps.TurnoTypes, "Tipo de turno", func(t *entity.TurnoType, id int64) { t.ID = id }, deps.Log)
	api.Get("/turnos-types", turnoTypes.List)
	api.Post("/turnos-types", turnoTypes.Create)

	// Turnos
	turnoHandler := NewTurnoHandler(deps.Bookings)
	turnos := api.Group("/turnos")
	turnos.Get("/", turnoHandler.List)
	turnos.Post("/", turnoHandler.Create)
	turnos.Post("/series", turnoHandler.CreateSeries)
	turnos.Delete("/:id", turnoHandler.Remove)

	// Cuentas
	tabHandler := NewTabHandler(deps.Tabs)
	tabsGroup := api.Group("/tabs")
	tabsGroup.Get("/turno/:turnoId", tabHandler.Bundle)
	tabsGroup.Post("/turno/:turnoId", tabHandler.Open)
	tabsGroup.Get("/:id", tabHandler.GetByID)
	tabsGroup.Post("/:id/close", tabHandler.Close)
	tabsGroup.Post("/:id/cancel", tabHandler.Cancel)
	tabsGroup.Get("/:id/items", tabHandler.ListItems)
	tabsGroup.Post("/:id/items", tabHandler.AddProduct)
	tabsGroup.Post("/:id/items/manual", tabHandler.AddManual)
	api.Patch("/tab-items/:id", tabHandler.UpdateQty)
	api.Delete("/tab-items/:id", tabHandler.RemoveItem)

	// Ventas
	ventaHandler := NewVentaHandler(deps.Ventas, deps.VentasState, deps.Receipts, deps.Log)
	ventasGroup := api.Group("/ventas")
	ventasGroup.Get("/", ventaHandler.List)
	ventasGroup.Post("/", ventaHandler.Create)
	ventasGroup.Get("/recientes", ventaHandler.Recent)
	ventasGroup.Get("/:id", ventaHandler.GetByID)
	ventasGroup.Delete("/:id", ventaHandler.Delete)
	ventasGroup.Get("/:id/items", ventaHandler.ListItems)
	ventasGroup.Post("/:id/items", ventaHandler.AddItem)
	ventasGroup.Post("/:id/completar", ventaHandler.Complete)
	ventasGroup.Post("/:id/cancelar", ventaHandler.Cancel)
	ventasGroup.Get("/:id/comprobante", ventaHandler.Receipt)
	api.Delete("/venta-items/:id", ventaHandler.RemoveItem)
}
