package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente represents a customer. Email, when present, is unique among active
// clients (partial index uni_clientes_email_activo).
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"type:varchar(100);not null"`
	Email     *string   `gorm:"type:varchar(254)"`
	Telefono  *string   `gorm:"type:varchar(20)"`
	PaginaWeb *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
}

func (Cliente) TableName() string { return "clientes" }

func (c *Cliente) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
