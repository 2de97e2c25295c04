package repository

import (
	"context"

	"reportes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Proveedor, error)
	List(ctx context.Context, incluirBorrados bool) ([]model.Proveedor, error)
	// BuscarActivoPorNombreTx matches names case-insensitively among active suppliers.
	BuscarActivoPorNombreTx(tx *gorm.DB, nombre string) (*model.Proveedor, error)
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context, incluirBorrados bool) ([]model.Proveedor, error) {
	var proveedores []model.Proveedor
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Order("nombre ASC").Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) BuscarActivoPorNombreTx(tx *gorm.DB, nombre string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := tx.Scopes(alcanceBorrados(false)).
		Where("LOWER(nombre) = LOWER(?)", nombre).
		Order("created_at ASC").First(&p).Error
	return &p, err
}
