package repository

import (
	"context"

	"reportes/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Producto, error)
	List(ctx context.Context, incluirBorrados bool) ([]model.Producto, error)
	BuscarActivoPorNombreTx(tx *gorm.DB, nombre string) (*model.Producto, error)

	// Stock mutations are increment-in-place and report rows affected so the
	// caller can tell a missing product from a refused decrement.
	// Used inside transactions; callers must pass the tx instance.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error)
	DescontarStockSiAlcanzaTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error)
	AplicarCompraTx(tx *gorm.DB, id uuid.UUID, cantidad int, precio decimal.Decimal) (int64, error)
	StockTx(tx *gorm.DB, id uuid.UUID) (int, error)
	ExisteTx(tx *gorm.DB, id uuid.UUID) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID, incluirBorrados bool) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, incluirBorrados bool) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Scopes(alcanceBorrados(incluirBorrados)).
		Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) BuscarActivoPorNombreTx(tx *gorm.DB, nombre string) (*model.Producto, error) {
	var p model.Producto
	err := tx.Scopes(alcanceBorrados(false)).
		Where("LOWER(nombre) = LOWER(?)", nombre).
		Order("created_at ASC").First(&p).Error
	return &p, err
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	res := tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *productoRepo) DescontarStockSiAlcanzaTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	res := tx.Model(&model.Producto{}).Where("id = ? AND stock >= ?", id, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *productoRepo) AplicarCompraTx(tx *gorm.DB, id uuid.UUID, cantidad int, precio decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Producto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stock":                gorm.Expr("stock + ?", cantidad),
		"precio_compra_actual": precio,
	})
	return res.RowsAffected, res.Error
}

func (r *productoRepo) StockTx(tx *gorm.DB, id uuid.UUID) (int, error) {
	var stock int
	err := tx.Model(&model.Producto{}).Where("id = ?", id).Select("stock").Scan(&stock).Error
	return stock, err
}

func (r *productoRepo) ExisteTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&model.Producto{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
