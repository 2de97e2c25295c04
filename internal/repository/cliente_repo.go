package repository

import (
	"context"

	"reportes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Cliente, error)
	List(ctx context.Context, incluirBorrados bool) ([]model.Cliente, error)
	BuscarActivoPorNombreTx(tx *gorm.DB, nombre string) (*model.Cliente, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, incluirBorrados bool) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

// BuscarActivoPorNombreTx: client names are not unique, the oldest active
// match wins.
func (r *clienteRepo) BuscarActivoPorNombreTx(tx *gorm.DB, nombre string) (*model.Cliente, error) {
	var c model.Cliente
	err := tx.Scopes(alcanceBorrados(false)).
		Where("LOWER(nombre) = LOWER(?)", nombre).
		Order("created_at ASC").First(&c).Error
	return &c, err
}
