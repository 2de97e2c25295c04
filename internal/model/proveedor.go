package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor represents a supplier. Nombre is unique among active suppliers
// (partial index uni_proveedores_nombre_activo).
type Proveedor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre          string    `gorm:"type:varchar(100);not null"`
	PersonaContacto *string   `gorm:"type:varchar(100)"`
	Email           *string   `gorm:"type:varchar(254)"`
	Telefono        *string   `gorm:"type:varchar(20)"`
	PaginaWeb       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time `gorm:"index"`
}

func (Proveedor) TableName() string { return "proveedores" }

func (p *Proveedor) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}
