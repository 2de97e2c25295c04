package service

import (
	"fmt"

	"reportes/internal/model"
	"reportes/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService keeps Producto.Stock equal to the net of its active purchases
// and sales. Callers invoke it explicitly inside the transaction that writes
// the ledger entry; nothing fires implicitly on save.
type StockService interface {
	AplicarCompraTx(tx *gorm.DB, c *model.Compra) error
	RevertirCompraTx(tx *gorm.DB, c *model.Compra) error
	ReaplicarCompraTx(tx *gorm.DB, c *model.Compra) error
	AplicarVentaTx(tx *gorm.DB, v *model.Venta) error
	RevertirVentaTx(tx *gorm.DB, v *model.Venta) error
	ReaplicarVentaTx(tx *gorm.DB, v *model.Venta) error
}

type stockService struct {
	productos        repository.ProductoRepository
	movimientos      repository.MovimientoStockRepository
	permitirNegativo bool
}

func NewStockService(productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository, permitirNegativo bool) StockService {
	return &stockService{productos: productos, movimientos: movimientos, permitirNegativo: permitirNegativo}
}

// AplicarCompraTx adds the quantity and records the unit price as the
// product's last purchase price, both in a single UPDATE.
func (s *stockService) AplicarCompraTx(tx *gorm.DB, c *model.Compra) error {
	n, err := s.productos.AplicarCompraTx(tx, c.ProductoID, c.Cantidad, c.PrecioCompraUnitario)
	if err != nil {
		return fmt.Errorf("aplicando compra al stock: %w", err)
	}
	if n == 0 {
		return ErrNoEncontrado
	}
	return s.registrar(tx, c.ProductoID, model.MovimientoCompra, c.Cantidad, c.ID)
}

func (s *stockService) RevertirCompraTx(tx *gorm.DB, c *model.Compra) error {
	return s.mover(tx, c.ProductoID, model.MovimientoReversionCompra, -c.Cantidad, c.ID)
}

// ReaplicarCompraTx restores a trashed purchase's quantity. The last purchase
// price is left alone: the restored purchase is not the most recent one.
func (s *stockService) ReaplicarCompraTx(tx *gorm.DB, c *model.Compra) error {
	return s.mover(tx, c.ProductoID, model.MovimientoRestauracionCompra, c.Cantidad, c.ID)
}

func (s *stockService) AplicarVentaTx(tx *gorm.DB, v *model.Venta) error {
	return s.descontar(tx, v.ProductoID, model.MovimientoVenta, v.Cantidad, v.ID)
}

func (s *stockService) RevertirVentaTx(tx *gorm.DB, v *model.Venta) error {
	return s.mover(tx, v.ProductoID, model.MovimientoReversionVenta, v.Cantidad, v.ID)
}

func (s *stockService) ReaplicarVentaTx(tx *gorm.DB, v *model.Venta) error {
	return s.descontar(tx, v.ProductoID, model.MovimientoRestauracionVenta, v.Cantidad, v.ID)
}

func (s *stockService) descontar(tx *gorm.DB, productoID uuid.UUID, tipo string, cantidad int, ref uuid.UUID) error {
	if s.permitirNegativo {
		return s.mover(tx, productoID, tipo, -cantidad, ref)
	}
	n, err := s.productos.DescontarStockSiAlcanzaTx(tx, productoID, cantidad)
	if err != nil {
		return fmt.Errorf("descontando stock: %w", err)
	}
	if n == 0 {
		// Either the product is gone or the stock would go negative.
		existe, err := s.productos.ExisteTx(tx, productoID)
		if err != nil {
			return err
		}
		if !existe {
			return ErrNoEncontrado
		}
		return ErrStockInsuficiente
	}
	return s.registrar(tx, productoID, tipo, -cantidad, ref)
}

func (s *stockService) mover(tx *gorm.DB, productoID uuid.UUID, tipo string, delta int, ref uuid.UUID) error {
	n, err := s.productos.UpdateStockTx(tx, productoID, delta)
	if err != nil {
		return fmt.Errorf("actualizando stock: %w", err)
	}
	if n == 0 {
		return ErrNoEncontrado
	}
	return s.registrar(tx, productoID, tipo, delta, ref)
}

// registrar writes the audit row. The stock is read back after the in-place
// update, inside the same transaction, so StockNuevo is what this update left.
func (s *stockService) registrar(tx *gorm.DB, productoID uuid.UUID, tipo string, delta int, ref uuid.UUID) error {
	nuevo, err := s.productos.StockTx(tx, productoID)
	if err != nil {
		return fmt.Errorf("leyendo stock: %w", err)
	}
	return s.movimientos.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: nuevo - delta,
		StockNuevo:    nuevo,
		ReferenciaID:  &ref,
	})
}
