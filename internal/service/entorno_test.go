package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reportes/internal/dto"
	"reportes/internal/infra"
	"reportes/internal/model"
	"reportes/internal/normalizer"
	"reportes/internal/repository"
	"reportes/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// entorno wires every service against a private in-memory SQLite database.
type entorno struct {
	db *gorm.DB

	productos     repository.ProductoRepository
	clientes      repository.ClienteRepository
	proveedores   repository.ProveedorRepository
	ventas        repository.VentaRepository
	compras       repository.CompraRepository
	movimientos   repository.MovimientoStockRepository
	importaciones repository.ImportacionRepository
	conflictosRep repository.ConflictoRepository
	papeleraRep   repository.PapeleraRepository

	stock        service.StockService
	staging      service.StagingService
	conciliacion service.ConciliacionService
	papelera     service.PapeleraService
	conflictos   service.ConflictoService
	libro        service.LibroService
	catalogo     service.CatalogoService
}

type opciones struct {
	sinNegativo bool
	ventana     time.Duration
	cola        service.Encolador
}

func nuevoEntorno(t *testing.T, op opciones) *entorno {
	t.Helper()
	db, err := infra.NewDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if op.ventana == 0 {
		op.ventana = 24 * time.Hour
	}

	e := &entorno{
		db:            db,
		productos:     repository.NewProductoRepository(db),
		clientes:      repository.NewClienteRepository(db),
		proveedores:   repository.NewProveedorRepository(db),
		ventas:        repository.NewVentaRepository(db),
		compras:       repository.NewCompraRepository(db),
		movimientos:   repository.NewMovimientoStockRepository(db),
		importaciones: repository.NewImportacionRepository(db),
		conflictosRep: repository.NewConflictoRepository(db),
		papeleraRep:   repository.NewPapeleraRepository(db),
	}
	norm := normalizer.New(normalizer.LocaleES)
	e.stock = service.NewStockService(e.productos, e.movimientos, !op.sinNegativo)
	e.staging = service.NewStagingService(e.importaciones, norm)
	e.conciliacion = service.NewConciliacionService(e.importaciones, e.productos, e.clientes, e.proveedores,
		e.ventas, e.compras, e.stock, norm, op.cola)
	e.papelera = service.NewPapeleraService(e.papeleraRep, e.conflictosRep, e.stock, op.ventana)
	e.conflictos = service.NewConflictoService(e.conflictosRep, e.papeleraRep, e.stock, op.ventana)
	e.libro = service.NewLibroService(e.compras, e.ventas, e.productos, e.clientes, e.proveedores, e.stock)
	e.catalogo = service.NewCatalogoService(e.productos, e.clientes, e.proveedores, e.movimientos)
	return e
}

var (
	gerente  = service.Actor{ID: uuid.New(), Username: "gerente", Privilegiado: true}
	empleado = service.Actor{ID: uuid.New(), Username: "empleado"}
)

func (e *entorno) producto(t *testing.T, nombre string, stock int) uuid.UUID {
	t.Helper()
	p, err := e.catalogo.CrearProducto(context.Background(), dto.CrearProductoRequest{Nombre: nombre, Stock: stock})
	require.NoError(t, err)
	return uuid.MustParse(p.ID)
}

func (e *entorno) cliente(t *testing.T, nombre string, email *string) uuid.UUID {
	t.Helper()
	c, err := e.catalogo.CrearCliente(context.Background(), dto.CrearClienteRequest{Nombre: nombre, Email: email})
	require.NoError(t, err)
	return uuid.MustParse(c.ID)
}

func (e *entorno) proveedor(t *testing.T, nombre string) uuid.UUID {
	t.Helper()
	p, err := e.catalogo.CrearProveedor(context.Background(), dto.CrearProveedorRequest{Nombre: nombre})
	require.NoError(t, err)
	return uuid.MustParse(p.ID)
}

func (e *entorno) stockDe(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := e.productos.FindByID(context.Background(), id, true)
	require.NoError(t, err)
	return p.Stock
}

func (e *entorno) compra(t *testing.T, productoID, proveedorID uuid.UUID, cantidad int, precio string) uuid.UUID {
	t.Helper()
	prov := proveedorID.String()
	c, err := e.libro.RegistrarCompra(context.Background(), dto.RegistrarCompraRequest{
		ProductoID:           productoID.String(),
		ProveedorID:          &prov,
		Cantidad:             cantidad,
		PrecioCompraUnitario: decimal.RequireFromString(precio),
	})
	require.NoError(t, err)
	return uuid.MustParse(c.ID)
}

func (e *entorno) venta(t *testing.T, productoID, clienteID uuid.UUID, cantidad int, precio string) uuid.UUID {
	t.Helper()
	cli := clienteID.String()
	v, err := e.libro.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		ProductoID:  productoID.String(),
		ClienteID:   &cli,
		Cantidad:    cantidad,
		PrecioVenta: decimal.RequireFromString(precio),
	})
	require.NoError(t, err)
	return uuid.MustParse(v.ID)
}

// ventaImportada stages one sale row and returns its id.
func (e *entorno) ventaImportada(t *testing.T, actor service.Actor, campos map[string]any) uuid.UUID {
	t.Helper()
	antes := e.idsStaged(t, &model.VentaImportada{})
	_, err := e.staging.IngestarVentas(context.Background(), []dto.FilaImportada{{Numero: 2, Campos: campos, Original: campos}}, actor)
	require.NoError(t, err)
	return e.nuevoID(t, &model.VentaImportada{}, antes)
}

func (e *entorno) compraImportada(t *testing.T, actor service.Actor, campos map[string]any) uuid.UUID {
	t.Helper()
	antes := e.idsStaged(t, &model.CompraImportada{})
	_, err := e.staging.IngestarCompras(context.Background(), []dto.FilaImportada{{Numero: 2, Campos: campos, Original: campos}}, actor)
	require.NoError(t, err)
	return e.nuevoID(t, &model.CompraImportada{}, antes)
}

func (e *entorno) idsStaged(t *testing.T, m interface{}) map[uuid.UUID]bool {
	t.Helper()
	var ids []uuid.UUID
	require.NoError(t, e.db.Model(m).Pluck("id", &ids).Error)
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func (e *entorno) nuevoID(t *testing.T, m interface{}, antes map[uuid.UUID]bool) uuid.UUID {
	t.Helper()
	for id := range e.idsStaged(t, m) {
		if !antes[id] {
			return id
		}
	}
	t.Fatal("no staged row was created")
	return uuid.Nil
}

// netoEsperado recomputes stock from scratch: initial stock plus active
// purchases minus active sales.
func (e *entorno) netoEsperado(t *testing.T, productoID uuid.UUID, inicial int) int {
	t.Helper()
	var compras, ventas int
	require.NoError(t, e.db.Model(&model.Compra{}).Where("producto_id = ? AND deleted_at IS NULL", productoID).
		Select("COALESCE(SUM(cantidad), 0)").Scan(&compras).Error)
	require.NoError(t, e.db.Model(&model.Venta{}).Where("producto_id = ? AND deleted_at IS NULL", productoID).
		Select("COALESCE(SUM(cantidad), 0)").Scan(&ventas).Error)
	return inicial + compras - ventas
}

func ptr[T any](v T) *T { return &v }
