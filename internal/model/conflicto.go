package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoModelo names the soft-deletable entity kinds.
type TipoModelo string

const (
	TipoProducto  TipoModelo = "PRODUCTO"
	TipoCliente   TipoModelo = "CLIENTE"
	TipoProveedor TipoModelo = "PROVEEDOR"
	TipoVenta     TipoModelo = "VENTA"
	TipoCompra    TipoModelo = "COMPRA"
)

// TiposModelo lists every kind in a stable order.
var TiposModelo = []TipoModelo{TipoProducto, TipoCliente, TipoProveedor, TipoVenta, TipoCompra}

func (t TipoModelo) Valido() bool {
	switch t {
	case TipoProducto, TipoCliente, TipoProveedor, TipoVenta, TipoCompra:
		return true
	}
	return false
}

// EstadoConflicto: PENDIENTE is the only non-terminal state.
type EstadoConflicto string

const (
	ConflictoPendiente         EstadoConflicto = "PENDIENTE"
	ConflictoResueltoRestaurar EstadoConflicto = "RESUELTO_RESTAURAR"
	ConflictoResueltoIgnorar   EstadoConflicto = "RESUELTO_IGNORAR"
)

// Conflicto records a restore attempt that collided with an active entity.
// While Estado is PENDIENTE the entity IDBorrado stays in the trash.
type Conflicto struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TipoModelo      TipoModelo      `gorm:"type:varchar(20);not null;index:idx_conflictos_entidad"`
	IDBorrado       uuid.UUID       `gorm:"column:id_borrado;type:uuid;not null;index:idx_conflictos_entidad"`
	IDExistente     uuid.UUID       `gorm:"column:id_existente;type:uuid;not null"`
	Estado          EstadoConflicto `gorm:"type:varchar(20);not null;default:'PENDIENTE';index"`
	DetectadoPorID  uuid.UUID       `gorm:"type:uuid;not null"`
	DetectadoPor    string          `gorm:"type:varchar(150)"`
	FechaDeteccion  time.Time       `gorm:"not null"`
	ResueltoPorID   *uuid.UUID      `gorm:"type:uuid"`
	ResueltoPor     *string         `gorm:"type:varchar(150)"`
	FechaResolucion *time.Time
	NotasResolucion *string `gorm:"type:text"`
}

func (Conflicto) TableName() string { return "conflictos" }

func (c *Conflicto) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	if c.FechaDeteccion.IsZero() {
		c.FechaDeteccion = time.Now().UTC()
	}
	return nil
}
