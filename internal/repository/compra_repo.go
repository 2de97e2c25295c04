package repository

import (
	"context"

	"reportes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Compra, error)
	List(ctx context.Context, filtro LibroFiltro) ([]model.Compra, int64, error)
	Count(ctx context.Context) (int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, filtro LibroFiltro) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{}).Scopes(alcanceBorrados(false))
	if filtro.ProductoID != nil {
		q = q.Where("producto_id = ?", *filtro.ProductoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var compras []model.Compra
	err := q.Scopes(paginar(filtro.Page, filtro.Limit)).
		Order("fecha_compra DESC").Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Compra{}).Count(&n).Error
	return n, err
}
