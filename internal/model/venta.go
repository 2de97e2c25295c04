package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venta is a sale ledger entry. TotalVenta is derived on insert and never
// edited afterwards.
type Venta struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID   *uuid.UUID      `gorm:"type:uuid;index"`
	Cantidad    int             `gorm:"not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalVenta  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FechaVenta  time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time
	DeletedAt   *time.Time `gorm:"index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Cliente  *Cliente  `gorm:"foreignKey:ClienteID"`
}

func (Venta) TableName() string { return "ventas" }

func (v *Venta) BeforeCreate(*gorm.DB) error {
	asignarID(&v.ID)
	if v.FechaVenta.IsZero() {
		v.FechaVenta = time.Now().UTC()
	}
	v.TotalVenta = v.PrecioVenta.Mul(decimal.NewFromInt(int64(v.Cantidad)))
	return nil
}
