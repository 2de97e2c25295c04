package repository

import (
	"context"

	"reportes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LibroFiltro narrows the ledger lists (ventas, compras).
type LibroFiltro struct {
	ProductoID *uuid.UUID
	Page       int
	Limit      int
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Venta, error)
	List(ctx context.Context, filtro LibroFiltro) ([]model.Venta, int64, error)
	Count(ctx context.Context) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Where("id = ?", id).First(&v).Error
	return &v, err
}

// List returns active sales, newest first.
func (r *ventaRepo) List(ctx context.Context, filtro LibroFiltro) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{}).Scopes(alcanceBorrados(false))
	if filtro.ProductoID != nil {
		q = q.Where("producto_id = ?", *filtro.ProductoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ventas []model.Venta
	err := q.Scopes(paginar(filtro.Page, filtro.Limit)).
		Order("fecha_venta DESC").Find(&ventas).Error
	return ventas, total, err
}

// Count includes trashed sales.
func (r *ventaRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).Count(&n).Error
	return n, err
}
