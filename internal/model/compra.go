package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Compra is a purchase ledger entry. Immutable after creation; the only
// lifecycle events are creation and (soft) deletion.
type Compra struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProveedorID          *uuid.UUID      `gorm:"type:uuid;index"`
	Cantidad             int             `gorm:"not null"`
	PrecioCompraUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FechaCompra          time.Time       `gorm:"not null;index"`
	CreatedAt            time.Time
	DeletedAt            *time.Time `gorm:"index"`

	Producto  *Producto  `gorm:"foreignKey:ProductoID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Compra) TableName() string { return "compras" }

func (c *Compra) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	if c.FechaCompra.IsZero() {
		c.FechaCompra = time.Now().UTC()
	}
	return nil
}

// Total is cantidad × precio unitario.
func (c *Compra) Total() decimal.Decimal {
	return c.PrecioCompraUnitario.Mul(decimal.NewFromInt(int64(c.Cantidad)))
}
