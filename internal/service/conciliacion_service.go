package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"reportes/internal/dto"
	"reportes/internal/model"
	"reportes/internal/normalizer"
	"reportes/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TipoImportacion names the two staged-row kinds.
type TipoImportacion string

const (
	ImportacionVenta  TipoImportacion = "venta"
	ImportacionCompra TipoImportacion = "compra"
)

func (t TipoImportacion) Valido() bool {
	return t == ImportacionVenta || t == ImportacionCompra
}

// TrabajoConciliacion is one queued procesar call.
type TrabajoConciliacion struct {
	Tipo  TipoImportacion
	ID    uuid.UUID
	Actor Actor
}

// Encolador hands procesar calls to the background workers.
type Encolador interface {
	EncolarConciliacion(ctx context.Context, t TrabajoConciliacion) error
}

const (
	msgVentaProcesada  = "Venta procesada y creada exitosamente."
	msgCompraProcesada = "Compra procesada y creada exitosamente."
)

// ConciliacionService drives staged rows through their lifecycle. Procesar is
// the same call for a first attempt and for a retry of a CONFLICTO row.
type ConciliacionService interface {
	ProcesarVenta(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ResultadoProceso, error)
	ProcesarCompra(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ResultadoProceso, error)
	Procesar(ctx context.Context, tipo TipoImportacion, id uuid.UUID, actor Actor) (*dto.ResultadoProceso, error)
	IgnorarVenta(ctx context.Context, id uuid.UUID, actor Actor) (*dto.VentaImportadaResponse, error)
	IgnorarCompra(ctx context.Context, id uuid.UUID, actor Actor) (*dto.CompraImportadaResponse, error)

	ListarVentasImportadas(ctx context.Context, filter dto.ImportacionFilter, actor Actor) (*dto.VentaImportadaListResponse, error)
	ListarComprasImportadas(ctx context.Context, filter dto.ImportacionFilter, actor Actor) (*dto.CompraImportadaListResponse, error)
	ObtenerVentaImportada(ctx context.Context, id uuid.UUID, actor Actor) (*dto.VentaImportadaResponse, error)
	ObtenerCompraImportada(ctx context.Context, id uuid.UUID, actor Actor) (*dto.CompraImportadaResponse, error)

	EncolarLote(ctx context.Context, tipo TipoImportacion, ids []string, actor Actor) (*dto.ProcesarLoteResponse, error)
}

type conciliacionService struct {
	importaciones repository.ImportacionRepository
	productos     repository.ProductoRepository
	clientes      repository.ClienteRepository
	proveedores   repository.ProveedorRepository
	ventas        repository.VentaRepository
	compras       repository.CompraRepository
	stock         StockService
	norm          *normalizer.Normalizador
	cola          Encolador
}

// NewConciliacionService wires the state machine. cola may be nil, in which
// case EncolarLote returns ErrColaNoDisponible.
func NewConciliacionService(
	importaciones repository.ImportacionRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	proveedores repository.ProveedorRepository,
	ventas repository.VentaRepository,
	compras repository.CompraRepository,
	stock StockService,
	norm *normalizer.Normalizador,
	cola Encolador,
) ConciliacionService {
	return &conciliacionService{
		importaciones: importaciones,
		productos:     productos,
		clientes:      clientes,
		proveedores:   proveedores,
		ventas:        ventas,
		compras:       compras,
		stock:         stock,
		norm:          norm,
		cola:          cola,
	}
}

func (s *conciliacionService) Procesar(ctx context.Context, tipo TipoImportacion, id uuid.UUID, actor Actor) (*dto.ResultadoProceso, error) {
	switch tipo {
	case ImportacionVenta:
		return s.ProcesarVenta(ctx, id, actor)
	case ImportacionCompra:
		return s.ProcesarCompra(ctx, id, actor)
	}
	return nil, ErrTipoInvalido
}

// ─── Procesar ─────────────────────────────────────────────────────────────────

func (s *conciliacionService) ProcesarVenta(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ResultadoProceso, error) {
	var detalles map[string]string

	err := runTx(ctx, s.importaciones.DB(), func(tx *gorm.DB) error {
		fila, err := s.importaciones.BloquearVentaTx(tx, id)
		if err != nil {
			return noEncontrado(err)
		}
		if !fila.Estado.Procesable() {
			return ErrEstadoInvalido
		}

		v := validarCampos(s.norm, map[string]any{
			"producto":     fila.ProductoNombre,
			"cliente":      fila.ClienteNombre,
			"cantidad":     fila.Cantidad,
			"precio_venta": fila.PrecioVenta,
		}, camposVenta)
		detalles = v.errores

		producto, err := s.resolverProducto(tx, fila.ProductoNombre, detalles)
		if err != nil {
			return err
		}
		var cliente *model.Cliente
		if _, invalido := detalles["cliente"]; !invalido {
			cliente, err = s.clientes.BuscarActivoPorNombreTx(tx, fila.ClienteNombre)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				detalles["cliente"] = fmt.Sprintf("El cliente '%s' no existe.", fila.ClienteNombre)
			case err != nil:
				return &ErrorInterno{Op: "buscando cliente", Err: err}
			}
		}

		if len(detalles) > 0 {
			return s.importaciones.ActualizarVentaTx(tx, fila.ID, map[string]interface{}{
				"estado":             model.EstadoEnConflicto,
				"detalles_conflicto": aJSONMap(detalles),
			})
		}

		cantidad, _ := strconv.Atoi(v.valores["cantidad"])
		precio, _ := decimal.NewFromString(v.valores["precio_venta"])
		ahora := time.Now().UTC()
		venta := model.Venta{
			ProductoID:  producto.ID,
			ClienteID:   &cliente.ID,
			Cantidad:    cantidad,
			PrecioVenta: precio,
			FechaVenta:  ahora,
		}
		if err := s.ventas.CreateTx(tx, &venta); err != nil {
			return &ErrorInterno{Op: "creando venta", Err: err}
		}
		if err := s.stock.AplicarVentaTx(tx, &venta); err != nil {
			if errors.Is(err, ErrStockInsuficiente) {
				return err
			}
			return &ErrorInterno{Op: "actualizando stock", Err: err}
		}
		return s.importaciones.ActualizarVentaTx(tx, fila.ID, map[string]interface{}{
			"estado":             model.EstadoProcesado,
			"detalles_conflicto": nil,
			"producto_id":        producto.ID,
			"cliente_id":         cliente.ID,
			"venta_id":           venta.ID,
			"fecha_resolucion":   ahora,
		})
	})
	if err != nil {
		var interno *ErrorInterno
		if errors.As(err, &interno) {
			log.Error().Err(err).Str("venta_importada_id", id.String()).Msg("error procesando venta importada")
		}
		return nil, err
	}
	if len(detalles) > 0 {
		log.Info().Str("venta_importada_id", id.String()).Str("usuario", actor.Username).
			Interface("detalles", detalles).Msg("venta importada en conflicto")
		return nil, &ConflictoReferenciaError{Detalles: detalles}
	}

	fila, err := s.importaciones.FindVenta(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Str("venta_importada_id", id.String()).Str("venta_id", uuidStr(fila.VentaID)).
		Str("usuario", actor.Username).Msg("importacion procesada")
	return &dto.ResultadoProceso{Mensaje: msgVentaProcesada, VentaImportada: ventaImportadaToResponse(fila)}, nil
}

func (s *conciliacionService) ProcesarCompra(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ResultadoProceso, error) {
	var detalles map[string]string

	err := runTx(ctx, s.importaciones.DB(), func(tx *gorm.DB) error {
		fila, err := s.importaciones.BloquearCompraTx(tx, id)
		if err != nil {
			return noEncontrado(err)
		}
		if !fila.Estado.Procesable() {
			return ErrEstadoInvalido
		}

		v := validarCampos(s.norm, map[string]any{
			"producto":               fila.ProductoNombre,
			"proveedor":              fila.ProveedorNombre,
			"cantidad":               fila.Cantidad,
			"precio_compra_unitario": fila.PrecioCompraUnitario,
		}, camposCompra)
		detalles = v.errores

		producto, err := s.resolverProducto(tx, fila.ProductoNombre, detalles)
		if err != nil {
			return err
		}
		var proveedor *model.Proveedor
		if _, invalido := detalles["proveedor"]; !invalido {
			proveedor, err = s.proveedores.BuscarActivoPorNombreTx(tx, fila.ProveedorNombre)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				detalles["proveedor"] = fmt.Sprintf("El proveedor '%s' no existe.", fila.ProveedorNombre)
			case err != nil:
				return &ErrorInterno{Op: "buscando proveedor", Err: err}
			}
		}

		if len(detalles) > 0 {
			return s.importaciones.ActualizarCompraTx(tx, fila.ID, map[string]interface{}{
				"estado":             model.EstadoEnConflicto,
				"detalles_conflicto": aJSONMap(detalles),
			})
		}

		cantidad, _ := strconv.Atoi(v.valores["cantidad"])
		precio, _ := decimal.NewFromString(v.valores["precio_compra_unitario"])
		ahora := time.Now().UTC()
		compra := model.Compra{
			ProductoID:           producto.ID,
			ProveedorID:          &proveedor.ID,
			Cantidad:             cantidad,
			PrecioCompraUnitario: precio,
			FechaCompra:          ahora,
		}
		if err := s.compras.CreateTx(tx, &compra); err != nil {
			return &ErrorInterno{Op: "creando compra", Err: err}
		}
		if err := s.stock.AplicarCompraTx(tx, &compra); err != nil {
			return &ErrorInterno{Op: "actualizando stock", Err: err}
		}
		return s.importaciones.ActualizarCompraTx(tx, fila.ID, map[string]interface{}{
			"estado":             model.EstadoProcesado,
			"detalles_conflicto": nil,
			"producto_id":        producto.ID,
			"proveedor_id":       proveedor.ID,
			"compra_id":          compra.ID,
			"fecha_resolucion":   ahora,
		})
	})
	if err != nil {
		var interno *ErrorInterno
		if errors.As(err, &interno) {
			log.Error().Err(err).Str("compra_importada_id", id.String()).Msg("error procesando compra importada")
		}
		return nil, err
	}
	if len(detalles) > 0 {
		log.Info().Str("compra_importada_id", id.String()).Str("usuario", actor.Username).
			Interface("detalles", detalles).Msg("compra importada en conflicto")
		return nil, &ConflictoReferenciaError{Detalles: detalles}
	}

	fila, err := s.importaciones.FindCompra(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Str("compra_importada_id", id.String()).Str("compra_id", uuidStr(fila.CompraID)).
		Str("usuario", actor.Username).Msg("importacion procesada")
	return &dto.ResultadoProceso{Mensaje: msgCompraProcesada, CompraImportada: compraImportadaToResponse(fila)}, nil
}

// resolverProducto looks the product up unless its name already failed
// validation. A missing product is recorded in detalles, not returned.
func (s *conciliacionService) resolverProducto(tx *gorm.DB, nombre string, detalles map[string]string) (*model.Producto, error) {
	if _, invalido := detalles["producto"]; invalido {
		return nil, nil
	}
	p, err := s.productos.BuscarActivoPorNombreTx(tx, nombre)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		detalles["producto"] = fmt.Sprintf("El producto '%s' no existe.", nombre)
		return nil, nil
	}
	if err != nil {
		return nil, &ErrorInterno{Op: "buscando producto", Err: err}
	}
	return p, nil
}

func uuidStr(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// ─── Ignorar ──────────────────────────────────────────────────────────────────

func (s *conciliacionService) IgnorarVenta(ctx context.Context, id uuid.UUID, actor Actor) (*dto.VentaImportadaResponse, error) {
	err := runTx(ctx, s.importaciones.DB(), func(tx *gorm.DB) error {
		fila, err := s.importaciones.BloquearVentaTx(tx, id)
		if err != nil {
			return noEncontrado(err)
		}
		if !fila.Estado.Procesable() {
			return ErrEstadoInvalido
		}
		return s.importaciones.ActualizarVentaTx(tx, fila.ID, map[string]interface{}{
			"estado":           model.EstadoIgnorado,
			"fecha_resolucion": time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	fila, err := s.importaciones.FindVenta(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Str("venta_importada_id", id.String()).Str("usuario", actor.Username).Msg("venta importada ignorada")
	return ventaImportadaToResponse(fila), nil
}

func (s *conciliacionService) IgnorarCompra(ctx context.Context, id uuid.UUID, actor Actor) (*dto.CompraImportadaResponse, error) {
	err := runTx(ctx, s.importaciones.DB(), func(tx *gorm.DB) error {
		fila, err := s.importaciones.BloquearCompraTx(tx, id)
		if err != nil {
			return noEncontrado(err)
		}
		if !fila.Estado.Procesable() {
			return ErrEstadoInvalido
		}
		return s.importaciones.ActualizarCompraTx(tx, fila.ID, map[string]interface{}{
			"estado":           model.EstadoIgnorado,
			"fecha_resolucion": time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	fila, err := s.importaciones.FindCompra(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Str("compra_importada_id", id.String()).Str("usuario", actor.Username).Msg("compra importada ignorada")
	return compraImportadaToResponse(fila), nil
}

// ─── Consultas ────────────────────────────────────────────────────────────────

// importacionFiltro applies the visibility rule: only privileged actors may
// look at other users' imports.
func importacionFiltro(filter dto.ImportacionFilter, actor Actor) (repository.ImportacionFiltro, error) {
	f := repository.ImportacionFiltro{
		Estado: model.EstadoImportacion(filter.Estado),
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	switch {
	case !actor.Privilegiado:
		id := actor.ID
		f.ImportadoPorID = &id
	case filter.ImportadoPor != "":
		id, err := uuid.Parse(filter.ImportadoPor)
		if err != nil {
			return f, fmt.Errorf("importado_por inválido: %w", err)
		}
		f.ImportadoPorID = &id
	}
	return f, nil
}

func (s *conciliacionService) ListarVentasImportadas(ctx context.Context, filter dto.ImportacionFilter, actor Actor) (*dto.VentaImportadaListResponse, error) {
	f, err := importacionFiltro(filter, actor)
	if err != nil {
		return nil, err
	}
	filas, total, err := s.importaciones.ListVentas(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaImportadaResponse, 0, len(filas))
	for i := range filas {
		data = append(data, *ventaImportadaToResponse(&filas[i]))
	}
	return &dto.VentaImportadaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *conciliacionService) ListarComprasImportadas(ctx context.Context, filter dto.ImportacionFilter, actor Actor) (*dto.CompraImportadaListResponse, error) {
	f, err := importacionFiltro(filter, actor)
	if err != nil {
		return nil, err
	}
	filas, total, err := s.importaciones.ListCompras(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraImportadaResponse, 0, len(filas))
	for i := range filas {
		data = append(data, *compraImportadaToResponse(&filas[i]))
	}
	return &dto.CompraImportadaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *conciliacionService) ObtenerVentaImportada(ctx context.Context, id uuid.UUID, actor Actor) (*dto.VentaImportadaResponse, error) {
	fila, err := s.importaciones.FindVenta(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if !actor.Privilegiado && fila.ImportadoPorID != actor.ID {
		return nil, ErrNoEncontrado
	}
	return ventaImportadaToResponse(fila), nil
}

func (s *conciliacionService) ObtenerCompraImportada(ctx context.Context, id uuid.UUID, actor Actor) (*dto.CompraImportadaResponse, error) {
	fila, err := s.importaciones.FindCompra(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	if !actor.Privilegiado && fila.ImportadoPorID != actor.ID {
		return nil, ErrNoEncontrado
	}
	return compraImportadaToResponse(fila), nil
}

// ─── Lote ─────────────────────────────────────────────────────────────────────

// EncolarLote queues one procesar job per id. Ids are parsed up front so a
// malformed batch queues nothing.
func (s *conciliacionService) EncolarLote(ctx context.Context, tipo TipoImportacion, ids []string, actor Actor) (*dto.ProcesarLoteResponse, error) {
	if !tipo.Valido() {
		return nil, ErrTipoInvalido
	}
	if s.cola == nil {
		return nil, ErrColaNoDisponible
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("id inválido %q: %w", raw, err)
		}
		parsed = append(parsed, id)
	}

	encolados := 0
	for _, id := range parsed {
		if err := s.cola.EncolarConciliacion(ctx, TrabajoConciliacion{Tipo: tipo, ID: id, Actor: actor}); err != nil {
			log.Error().Err(err).Str("id", id.String()).Int("encolados", encolados).Msg("error encolando conciliacion")
			return nil, ErrColaNoDisponible
		}
		encolados++
	}
	log.Info().Str("tipo", string(tipo)).Int("encolados", encolados).Str("usuario", actor.Username).Msg("lote de conciliacion encolado")
	return &dto.ProcesarLoteResponse{Encolados: encolados}, nil
}
