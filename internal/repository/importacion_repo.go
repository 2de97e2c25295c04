package repository

import (
	"context"

	"reportes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportacionFiltro narrows the staged-row lists. ImportadoPorID is forced
// by the service for non-privileged actors.
type ImportacionFiltro struct {
	Estado         model.EstadoImportacion
	ImportadoPorID *uuid.UUID
	Page           int
	Limit          int
}

const tamanoLote = 200

// ImportacionRepository stores staged sales and purchases.
type ImportacionRepository interface {
	CrearVentasTx(tx *gorm.DB, filas []model.VentaImportada) error
	CrearComprasTx(tx *gorm.DB, filas []model.CompraImportada) error

	// Bloquear* read the row with FOR UPDATE; the lock lives until the tx ends.
	BloquearVentaTx(tx *gorm.DB, id uuid.UUID) (*model.VentaImportada, error)
	BloquearCompraTx(tx *gorm.DB, id uuid.UUID) (*model.CompraImportada, error)
	ActualizarVentaTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
	ActualizarCompraTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error

	FindVenta(ctx context.Context, id uuid.UUID) (*model.VentaImportada, error)
	FindCompra(ctx context.Context, id uuid.UUID) (*model.CompraImportada, error)
	ListVentas(ctx context.Context, filtro ImportacionFiltro) ([]model.VentaImportada, int64, error)
	ListCompras(ctx context.Context, filtro ImportacionFiltro) ([]model.CompraImportada, int64, error)

	DB() *gorm.DB
}

type importacionRepo struct{ db *gorm.DB }

func NewImportacionRepository(db *gorm.DB) ImportacionRepository { return &importacionRepo{db: db} }

func (r *importacionRepo) DB() *gorm.DB { return r.db }

func (r *importacionRepo) CrearVentasTx(tx *gorm.DB, filas []model.VentaImportada) error {
	if len(filas) == 0 {
		return nil
	}
	return tx.CreateInBatches(&filas, tamanoLote).Error
}

func (r *importacionRepo) CrearComprasTx(tx *gorm.DB, filas []model.CompraImportada) error {
	if len(filas) == 0 {
		return nil
	}
	return tx.CreateInBatches(&filas, tamanoLote).Error
}

func (r *importacionRepo) BloquearVentaTx(tx *gorm.DB, id uuid.UUID) (*model.VentaImportada, error) {
	var v model.VentaImportada
	err := tx.Scopes(paraActualizar).Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *importacionRepo) BloquearCompraTx(tx *gorm.DB, id uuid.UUID) (*model.CompraImportada, error) {
	var c model.CompraImportada
	err := tx.Scopes(paraActualizar).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *importacionRepo) ActualizarVentaTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.VentaImportada{}).Where("id = ?", id).Updates(campos).Error
}

func (r *importacionRepo) ActualizarCompraTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.CompraImportada{}).Where("id = ?", id).Updates(campos).Error
}

func (r *importacionRepo) FindVenta(ctx context.Context, id uuid.UUID) (*model.VentaImportada, error) {
	var v model.VentaImportada
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *importacionRepo) FindCompra(ctx context.Context, id uuid.UUID) (*model.CompraImportada, error) {
	var c model.CompraImportada
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func filtrarImportaciones(q *gorm.DB, filtro ImportacionFiltro) *gorm.DB {
	if filtro.Estado != "" {
		q = q.Where("estado = ?", filtro.Estado)
	}
	if filtro.ImportadoPorID != nil {
		q = q.Where("importado_por_id = ?", *filtro.ImportadoPorID)
	}
	return q
}

func (r *importacionRepo) ListVentas(ctx context.Context, filtro ImportacionFiltro) ([]model.VentaImportada, int64, error) {
	q := filtrarImportaciones(r.db.WithContext(ctx).Model(&model.VentaImportada{}), filtro)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var filas []model.VentaImportada
	err := q.Scopes(paginar(filtro.Page, filtro.Limit)).
		Order("fecha_importacion DESC").Find(&filas).Error
	return filas, total, err
}

func (r *importacionRepo) ListCompras(ctx context.Context, filtro ImportacionFiltro) ([]model.CompraImportada, int64, error) {
	q := filtrarImportaciones(r.db.WithContext(ctx).Model(&model.CompraImportada{}), filtro)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var filas []model.CompraImportada
	err := q.Scopes(paginar(filtro.Page, filtro.Limit)).
		Order("fecha_importacion DESC").Find(&filas).Error
	return filas, total, err
}
