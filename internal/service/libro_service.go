package service

import (
	"context"
	"errors"
	"fmt"

	"reportes/internal/dto"
	"reportes/internal/model"
	"reportes/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LibroService creates ledger entries (Compra, Venta) outside of the import
// flow. Each entry and its stock side effect commit together.
type LibroService interface {
	RegistrarCompra(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ListarCompras(ctx context.Context, filter dto.LibroFilter) (*dto.CompraListResponse, error)
	ListarVentas(ctx context.Context, filter dto.LibroFilter) (*dto.VentaListResponse, error)
}

type libroService struct {
	compras     repository.CompraRepository
	ventas      repository.VentaRepository
	productos   repository.ProductoRepository
	clientes    repository.ClienteRepository
	proveedores repository.ProveedorRepository
	stock       StockService
}

func NewLibroService(
	compras repository.CompraRepository,
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	proveedores repository.ProveedorRepository,
	stock StockService,
) LibroService {
	return &libroService{
		compras:     compras,
		ventas:      ventas,
		productos:   productos,
		clientes:    clientes,
		proveedores: proveedores,
		stock:       stock,
	}
}

func (s *libroService) RegistrarCompra(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	proveedorID, err := parseUUIDPtr(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	if _, err := s.productos.FindByID(ctx, productoID, false); err != nil {
		return nil, noEncontrado(err)
	}
	if proveedorID != nil {
		if _, err := s.proveedores.FindByID(ctx, *proveedorID, false); err != nil {
			return nil, noEncontrado(err)
		}
	}

	compra := model.Compra{
		ProductoID:           productoID,
		ProveedorID:          proveedorID,
		Cantidad:             req.Cantidad,
		PrecioCompraUnitario: req.PrecioCompraUnitario,
	}
	err = runTx(ctx, s.compras.DB(), func(tx *gorm.DB) error {
		if err := s.compras.CreateTx(tx, &compra); err != nil {
			return err
		}
		return s.stock.AplicarCompraTx(tx, &compra)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("compra_id", compra.ID.String()).Str("producto_id", productoID.String()).
		Int("cantidad", compra.Cantidad).Msg("compra registrada")
	resp := compraToResponse(&compra)
	return &resp, nil
}

func (s *libroService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	clienteID, err := parseUUIDPtr(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	if _, err := s.productos.FindByID(ctx, productoID, false); err != nil {
		return nil, noEncontrado(err)
	}
	if clienteID != nil {
		if _, err := s.clientes.FindByID(ctx, *clienteID, false); err != nil {
			return nil, noEncontrado(err)
		}
	}

	venta := model.Venta{
		ProductoID:  productoID,
		ClienteID:   clienteID,
		Cantidad:    req.Cantidad,
		PrecioVenta: req.PrecioVenta,
	}
	err = runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		if err := s.ventas.CreateTx(tx, &venta); err != nil {
			return err
		}
		return s.stock.AplicarVentaTx(tx, &venta)
	})
	if err != nil {
		if !errors.Is(err, ErrStockInsuficiente) {
			log.Error().Err(err).Str("producto_id", productoID.String()).Msg("error registrando venta")
		}
		return nil, err
	}

	log.Info().Str("venta_id", venta.ID.String()).Str("producto_id", productoID.String()).
		Int("cantidad", venta.Cantidad).Msg("venta registrada")
	resp := ventaToResponse(&venta)
	return &resp, nil
}

func libroFiltro(filter dto.LibroFilter) (repository.LibroFiltro, error) {
	f := repository.LibroFiltro{Page: filter.Page, Limit: filter.Limit}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return f, fmt.Errorf("producto_id inválido: %w", err)
		}
		f.ProductoID = &id
	}
	return f, nil
}

func (s *libroService) ListarCompras(ctx context.Context, filter dto.LibroFilter) (*dto.CompraListResponse, error) {
	f, err := libroFiltro(filter)
	if err != nil {
		return nil, err
	}
	compras, total, err := s.compras.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, compraToResponse(&compras[i]))
	}
	return &dto.CompraListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *libroService) ListarVentas(ctx context.Context, filter dto.LibroFilter) (*dto.VentaListResponse, error) {
	f, err := libroFiltro(filter)
	if err != nil {
		return nil, err
	}
	ventas, total, err := s.ventas.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
