package router

import (
	"time"

	"reportes/internal/config"
	"reportes/internal/handler"
	"reportes/internal/infra"
	"reportes/internal/middleware"
	"reportes/internal/model"
	"reportes/internal/normalizer"
	"reportes/internal/repository"
	"reportes/internal/service"
	"reportes/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services groups the business services shared by the HTTP layer and the
// worker pool.
type Services struct {
	Importacion  service.ImportacionService
	Conciliacion service.ConciliacionService
	Papelera     service.PapeleraService
	Conflictos   service.ConflictoService
	Catalogo     service.CatalogoService
	Libro        service.LibroService
}

// NewServices wires repositories and services.
// Dependency graph: Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	importacionRepo := repository.NewImportacionRepository(db)
	conflictoRepo := repository.NewConflictoRepository(db)
	papeleraRepo := repository.NewPapeleraRepository(db)

	// ── Infrastructure ───────────────────────────────────────────────────────
	// Without redis uploads run unlocked and batch processing answers 503.
	var (
		locker service.Bloqueador
		cola   service.Encolador
	)
	if rdb != nil {
		locker = infra.NewLocker(rdb)
		cola = worker.NewDispatcher(rdb)
	}
	norm := normalizer.New(cfg.ImportLocale)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(productoRepo, movimientoRepo, cfg.StockPermitirNegativo)
	stagingSvc := service.NewStagingService(importacionRepo, norm)

	return &Services{
		Importacion: service.NewImportacionService(stagingSvc, locker, cfg.ImportMaxBytes(), cfg.ImportLockTTL()),
		Conciliacion: service.NewConciliacionService(importacionRepo, productoRepo, clienteRepo, proveedorRepo,
			ventaRepo, compraRepo, stockSvc, norm, cola),
		Papelera:   service.NewPapeleraService(papeleraRepo, conflictoRepo, stockSvc, cfg.VentanaColision()),
		Conflictos: service.NewConflictoService(conflictoRepo, papeleraRepo, stockSvc, cfg.VentanaColision()),
		Catalogo:   service.NewCatalogoService(productoRepo, clienteRepo, proveedorRepo, movimientoRepo),
		Libro:      service.NewLibroService(compraRepo, ventaRepo, productoRepo, clienteRepo, proveedorRepo, stockSvc),
	}
}

// papeleraRutas maps each URL segment to the soft-deletable kind behind it.
var papeleraRutas = []struct {
	segmento string
	tipo     model.TipoModelo
}{
	{"productos", model.TipoProducto},
	{"clientes", model.TipoCliente},
	{"proveedores", model.TipoProveedor},
	{"ventas", model.TipoVenta},
	{"compras", model.TipoCompra},
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, cfg.RateLimitPorMinuto, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	importacionesH := handler.NewImportacionesHandler(svcs.Importacion, cfg.ImportMaxBytes())
	conciliacionH := handler.NewConciliacionHandler(svcs.Conciliacion)
	papeleraH := handler.NewPapeleraHandler(svcs.Papelera)
	conflictosH := handler.NewConflictosHandler(svcs.Conflictos)
	catalogoH := handler.NewCatalogoHandler(svcs.Catalogo)
	libroH := handler.NewLibroHandler(svcs.Libro)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes: gerente and empleado share everything except
	// conflict resolution.
	v1 := r.Group("/v1",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(middleware.RolGerente, middleware.RolEmpleado),
	)
	{
		imp := v1.Group("/importaciones")
		{
			imp.POST("/ventas", importacionesH.CargarVentas)
			imp.POST("/compras", importacionesH.CargarCompras)
			imp.POST("/unificado", importacionesH.CargarUnificado)
		}

		for seg, tipo := range map[string]service.TipoImportacion{
			"/ventas-importadas":  service.ImportacionVenta,
			"/compras-importadas": service.ImportacionCompra,
		} {
			g := v1.Group(seg)
			g.GET("", conciliacionH.Listar(tipo))
			g.POST("/procesar-lote", conciliacionH.ProcesarLote(tipo))
			g.GET("/:id", conciliacionH.Obtener(tipo))
			g.POST("/:id/procesar", conciliacionH.Procesar(tipo))
			g.POST("/:id/ignorar", conciliacionH.Ignorar(tipo))
		}

		v1.POST("/productos", catalogoH.CrearProducto)
		v1.GET("/productos/:id", catalogoH.ObtenerProducto)
		v1.GET("/productos/:id/movimientos", catalogoH.ListarMovimientos)
		v1.POST("/clientes", catalogoH.CrearCliente)
		v1.POST("/proveedores", catalogoH.CrearProveedor)

		v1.POST("/ventas", libroH.RegistrarVenta)
		v1.GET("/ventas", libroH.ListarVentas)
		v1.POST("/compras", libroH.RegistrarCompra)
		v1.GET("/compras", libroH.ListarCompras)

		for _, pr := range papeleraRutas {
			g := v1.Group("/" + pr.segmento)
			g.DELETE("/:id", papeleraH.Eliminar(pr.tipo))
			g.POST("/:id/restaurar", papeleraH.Restaurar(pr.tipo))
			g.GET("/papelera", papeleraH.Listar(pr.tipo))
			g.GET("/papelera/exportar", papeleraH.Exportar(pr.tipo))
		}

		conf := v1.Group("/conflictos")
		{
			conf.GET("", conflictosH.Listar)
			conf.GET("/:id", conflictosH.Obtener)
			conf.POST("/:id/resolver", middleware.RequireRole(middleware.RolGerente), conflictosH.Resolver)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
