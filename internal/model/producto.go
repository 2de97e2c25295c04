package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto carries the running stock total maintained by the stock ledger.
// Stock is signed: sales may drive it below zero unless the deployment
// forbids it (STOCK_PERMITIR_NEGATIVO=false).
type Producto struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Nombre      string     `gorm:"type:varchar(100);not null"`
	Descripcion *string    `gorm:"type:text"`
	ProveedorID *uuid.UUID `gorm:"type:uuid;index"`
	Stock       int        `gorm:"not null;default:0"`
	// PrecioCompraActual is the unit price of the most recently created Compra.
	PrecioCompraActual decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time `gorm:"index"`

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}
