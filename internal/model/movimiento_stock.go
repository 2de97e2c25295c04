package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipos de MovimientoStock.
const (
	MovimientoCompra             = "compra"
	MovimientoVenta              = "venta"
	MovimientoReversionCompra    = "reversion_compra"
	MovimientoReversionVenta     = "reversion_venta"
	MovimientoRestauracionCompra = "restauracion_compra"
	MovimientoRestauracionVenta  = "restauracion_venta"
)

// MovimientoStock is the audit row written next to every stock delta.
type MovimientoStock struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tipo          string     `gorm:"type:varchar(30);not null"`
	Cantidad      int        `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int        `gorm:"not null"`
	StockNuevo    int        `gorm:"not null"`
	ReferenciaID  *uuid.UUID `gorm:"type:uuid;index"` // compra_id or venta_id
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
