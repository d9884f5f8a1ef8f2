package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/turnos-api/internal/application/booking"
	"github.com/jhoicas/turnos-api/internal/application/calendar"
	"github.com/jhoicas/turnos-api/internal/application/catalog"
	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/application/tabs"
	"github.com/jhoicas/turnos-api/internal/application/ventas"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/turnos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/turnos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/turnos-api/internal/infrastructure/queue"
	httpRouter "github.com/jhoicas/turnos-api/internal/interfaces/http"
	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		AppName: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	mapper, err := calendar.NewMapper(cfg.Business.CalendarTZ)
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del calendario")
	}
	loc, _ := time.LoadLocation(cfg.Business.CalendarTZ)

	tracker := opstatus.NewTracker(log.Component("opstatus"))

	// Eventos: RabbitMQ opcional
	var publisher ports.EventPublisher = ports.NoopPublisher{}
	if cfg.Events.AMQPURL != "" {
		p, err := queue.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, log.Zerolog())
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible, eventos desactivados")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	// Catálogos, con caché Redis opcional
	clientRepo := repository.ClientRepository(postgres.NewClientRepository(pool))
	articuloRepo := repository.ArticuloRepository(postgres.NewArticuloRepository(pool))
	categoriaRepo := repository.CategoriaRepository(postgres.NewCategoriaRepository(pool))
	proveedorRepo := repository.ProveedorRepository(postgres.NewProveedorRepository(pool))
	metodoPagoRepo := repository.MetodoPagoRepository(postgres.NewMetodoPagoRepository(pool))
	courtRepo := repository.CourtRepository(postgres.NewCourtRepository(pool))
	turnoTypeRepo := repository.TurnoTypeRepository(postgres.NewTurnoTypeRepository(pool))
	var stockCache ventas.StockCache
	if cfg.Cache.RedisURL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, caché desactivada")
		} else {
			defer rdb.Close()
			zl := log.Zerolog()
			clientRepo = cache.NewCatalog(clientRepo, rdb, "clients", cfg.Cache.TTL, zl)
			articuloCache := cache.NewCatalog(articuloRepo, rdb, "articulos", cfg.Cache.TTL, zl)
			articuloRepo, stockCache = articuloCache, articuloCache
			categoriaRepo = cache.NewCatalog(categoriaRepo, rdb, "categorias", cfg.Cache.TTL, zl)
			proveedorRepo = cache.NewCatalog(proveedorRepo, rdb, "proveedores", cfg.Cache.TTL, zl)
			metodoPagoRepo = cache.NewCatalog(metodoPagoRepo, rdb, "metodos_pago", cfg.Cache.TTL, zl)
			courtRepo = cache.NewCatalog(courtRepo, rdb, "courts", cfg.Cache.TTL, zl)
			turnoTypeRepo = cache.NewCatalog(turnoTypeRepo, rdb, "turnos_types", cfg.Cache.TTL, zl)
		}
	}

	clientSvc := catalog.NewService("clients", clientRepo, tracker, catalog.ValidateClient, domain.CodeClientNotFound)
	articuloSvc := catalog.NewService("articulos", articuloRepo, tracker, catalog.ValidateArticulo, domain.CodeProductNotFound)
	categoriaSvc := catalog.NewService("categorias", categoriaRepo, tracker, catalog.ValidateCategoria, "")
	proveedorSvc := catalog.NewService("proveedores", proveedorRepo, tracker, catalog.ValidateProveedor, "")
	metodoPagoSvc := catalog.NewService("metodos_pago", metodoPagoRepo, tracker, catalog.ValidateMetodoPago, "")
	courtSvc := catalog.NewService("courts", courtRepo, tracker, catalog.ValidateCourt, "")
	turnoTypeSvc := catalog.NewService("turnos_types", turnoTypeRepo, tracker, catalog.ValidateTurnoType, "")

	bookingUC := booking.NewUseCase(postgres.NewTurnoRepository(pool), mapper, tracker, publisher, log.Component("bookings"))
	tabsUC := tabs.NewUseCase(postgres.NewTabRepository(pool), postgres.NewTabItemRepository(pool), tracker, publisher, log.Component("tabs"))
	ventasUC := ventas.NewUseCase(
		postgres.NewVentaRepository(pool), postgres.NewVentaItemRepository(pool), postgres.NewTxRunner(pool),
		tracker, publisher, log.Component("ventas"),
	)
	if stockCache != nil {
		// los ítems mueven stock_actual en la base
		ventasUC.WithStockCache(stockCache)
	}

	// Vista de ventas recientes: primera página sin filtros
	from, to := 0, 49
	ventasState := ventas.NewListState(ventasUC, repository.VentaFilter{From: &from, To: &to})
	if err := ventasState.Refresh(ctx, nil); err != nil {
		log.Warn().Err(err).Msg("no se pudo cargar la vista de ventas recientes")
	}

	receipts := infrapdf.NewReceiptGenerator(cfg.Business.Name, loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Turnos API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Clients:     clientSvc,
		Articulos:   articuloSvc,
		Categorias:  categoriaSvc,
		Proveedores: proveedorSvc,
		MetodosPago: metodoPagoSvc,
		Courts:      courtSvc,
		TurnoTypes:  turnoTypeSvc,
		Bookings:    bookingUC,
		Tabs:        tabsUC,
		Ventas:      ventasUC,
		VentasState: ventasState,
		Receipts:    receipts,
		Tracker:     tracker,
		JWTSecret:   cfg.Auth.JWTSecret,
		JWTAudience: cfg.Auth.Audience,
		Log:         log.Component("http"),
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

	log.Info().Msg("aplicación detenida")
}
