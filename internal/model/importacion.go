package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EstadoImportacion is the lifecycle state of a staged (imported) transaction.
//
//	PENDIENTE ──procesar──▶ PROCESADO
//	    │  ▲                    ▲
//	    │  └─────┐              │
//	    ▼        │              │
//	CONFLICTO ──procesar────────┘
//	PENDIENTE | CONFLICTO ──ignorar──▶ IGNORADO
type EstadoImportacion string

const (
	EstadoPendiente   EstadoImportacion = "PENDIENTE"
	EstadoEnConflicto EstadoImportacion = "CONFLICTO"
	EstadoProcesado   EstadoImportacion = "PROCESADO"
	EstadoIgnorado    EstadoImportacion = "IGNORADO"
)

// Procesable reports whether procesar may be invoked from this state.
func (e EstadoImportacion) Procesable() bool {
	return e == EstadoPendiente || e == EstadoEnConflicto
}

// VentaImportada is a staged sale row awaiting reconciliation.
// Cantidad and PrecioVenta stay as text until processing because staging
// must keep rows whose cells could not be normalized.
// DatosFilaOriginal is the untouched spreadsheet row and is never mutated.
type VentaImportada struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Estado            EstadoImportacion `gorm:"type:varchar(20);not null;default:'PENDIENTE';index"`
	DatosFilaOriginal datatypes.JSONMap `gorm:"not null"`
	DetallesConflicto datatypes.JSONMap
	ProductoNombre    string `gorm:"type:varchar(255)"`
	ClienteNombre     string `gorm:"type:varchar(255)"`
	Cantidad          string `gorm:"type:varchar(50)"`
	PrecioVenta       string `gorm:"type:varchar(50)"`
	ProductoID        *uuid.UUID `gorm:"type:uuid"`
	ClienteID         *uuid.UUID `gorm:"type:uuid"`
	VentaID           *uuid.UUID `gorm:"type:uuid"`
	ImportadoPorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ImportadoPor      string     `gorm:"type:varchar(150)"`
	FechaImportacion  time.Time  `gorm:"not null;index"`
	FechaResolucion   *time.Time
}

func (VentaImportada) TableName() string { return "ventas_importadas" }

func (v *VentaImportada) BeforeCreate(*gorm.DB) error {
	asignarID(&v.ID)
	if v.FechaImportacion.IsZero() {
		v.FechaImportacion = time.Now().UTC()
	}
	return nil
}

// CompraImportada is a staged purchase row awaiting reconciliation.
type CompraImportada struct {
	ID                   uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Estado               EstadoImportacion `gorm:"type:varchar(20);not null;default:'PENDIENTE';index"`
	DatosFilaOriginal    datatypes.JSONMap `gorm:"not null"`
	DetallesConflicto    datatypes.JSONMap
	ProductoNombre       string `gorm:"type:varchar(255)"`
	ProveedorNombre      string `gorm:"type:varchar(255)"`
	Cantidad             string `gorm:"type:varchar(50)"`
	PrecioCompraUnitario string `gorm:"type:varchar(50)"`
	ProductoID           *uuid.UUID `gorm:"type:uuid"`
	ProveedorID          *uuid.UUID `gorm:"type:uuid"`
	CompraID             *uuid.UUID `gorm:"type:uuid"`
	ImportadoPorID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ImportadoPor         string     `gorm:"type:varchar(150)"`
	FechaImportacion     time.Time  `gorm:"not null;index"`
	FechaResolucion      *time.Time
}

func (CompraImportada) TableName() string { return "compras_importadas" }

func (c *CompraImportada) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	if c.FechaImportacion.IsZero() {
		c.FechaImportacion = time.Now().UTC()
	}
	return nil
}
