package service

import (
	"context"
	"fmt"
	"strings"

	"reportes/internal/dto"
	"reportes/internal/model"
	"reportes/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CatalogoService creates the reference entities that staged rows are
// resolved against. Active-name uniqueness is enforced by partial indexes;
// a violation surfaces as ErrDuplicado.
type CatalogoService interface {
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	CrearProveedor(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ListarMovimientos(ctx context.Context, productoID uuid.UUID, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error)
}

type catalogoService struct {
	productos   repository.ProductoRepository
	clientes    repository.ClienteRepository
	proveedores repository.ProveedorRepository
	movimientos repository.MovimientoStockRepository
}

func NewCatalogoService(
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	proveedores repository.ProveedorRepository,
	movimientos repository.MovimientoStockRepository,
) CatalogoService {
	return &catalogoService{productos: productos, clientes: clientes, proveedores: proveedores, movimientos: movimientos}
}

func (s *catalogoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	proveedorID, err := parseUUIDPtr(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	if proveedorID != nil {
		if _, err := s.proveedores.FindByID(ctx, *proveedorID, false); err != nil {
			return nil, noEncontrado(err)
		}
	}
	p := &model.Producto{
		Nombre:             strings.TrimSpace(req.Nombre),
		Descripcion:        req.Descripcion,
		ProveedorID:        proveedorID,
		Stock:              req.Stock,
		PrecioCompraActual: req.PrecioCompraActual,
	}
	if err := s.productos.Create(ctx, p); err != nil {
		if esDuplicado(err) {
			return nil, ErrDuplicado
		}
		return nil, err
	}
	log.Info().Str("producto_id", p.ID.String()).Str("nombre", p.Nombre).Msg("producto creado")
	return productoToResponse(p), nil
}

func (s *catalogoService) CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:    strings.TrimSpace(req.Nombre),
		Email:     req.Email,
		Telefono:  req.Telefono,
		PaginaWeb: req.PaginaWeb,
	}
	if err := s.clientes.Create(ctx, c); err != nil {
		if esDuplicado(err) {
			return nil, ErrDuplicado
		}
		return nil, err
	}
	log.Info().Str("cliente_id", c.ID.String()).Str("nombre", c.Nombre).Msg("cliente creado")
	return clienteToResponse(c), nil
}

func (s *catalogoService) CrearProveedor(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		Nombre:          strings.TrimSpace(req.Nombre),
		PersonaContacto: req.PersonaContacto,
		Email:           req.Email,
		Telefono:        req.Telefono,
		PaginaWeb:       req.PaginaWeb,
	}
	if err := s.proveedores.Create(ctx, p); err != nil {
		if esDuplicado(err) {
			return nil, ErrDuplicado
		}
		return nil, err
	}
	log.Info().Str("proveedor_id", p.ID.String()).Str("nombre", p.Nombre).Msg("proveedor creado")
	return proveedorToResponse(p), nil
}

func (s *catalogoService) ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id, false)
	if err != nil {
		return nil, noEncontrado(err)
	}
	return productoToResponse(p), nil
}

func (s *catalogoService) ListarMovimientos(ctx context.Context, productoID uuid.UUID, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error) {
	if _, err := s.productos.FindByID(ctx, productoID, true); err != nil {
		return nil, noEncontrado(err)
	}
	f := repository.MovimientosFilter{Tipo: filter.Tipo, Page: filter.Page, Limit: filter.Limit}
	if filter.ReferenciaID != "" {
		ref, err := uuid.Parse(filter.ReferenciaID)
		if err != nil {
			return nil, ErrNoEncontrado
		}
		f.ReferenciaID = &ref
	}
	movs, total, err := s.movimientos.ListByProducto(ctx, productoID, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		data = append(data, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			ReferenciaID:  uuidPtrStr(m.ReferenciaID),
			CreatedAt:     m.CreatedAt,
		})
	}
	return &dto.MovimientoStockListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
