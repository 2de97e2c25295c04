package repository

import (
	"context"

	"reportes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientosFilter narrows the audit trail of one product.
type MovimientosFilter struct {
	Tipo         string
	ReferenciaID *uuid.UUID
	Page         int
	Limit        int
}

// MovimientoStockRepository stores the audit rows written by the stock
// ledger. Rows are append-only.
type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, filter MovimientosFilter) ([]model.MovimientoStock, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, filter MovimientosFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Where("producto_id = ?", productoID)
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.ReferenciaID != nil {
		q = q.Where("referencia_id = ?", *filter.ReferenciaID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movimientos []model.MovimientoStock
	err := q.Scopes(paginar(filter.Page, filter.Limit)).
		Order("created_at DESC").Order("id DESC").Find(&movimientos).Error
	return movimientos, total, err
}
