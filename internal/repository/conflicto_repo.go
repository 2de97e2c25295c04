package repository

import (
	"context"
	"time"

	"reportes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConflictoFiltro struct {
	Estado     model.EstadoConflicto
	TipoModelo model.TipoModelo
}

type ConflictoRepository interface {
	CreateTx(tx *gorm.DB, c *model.Conflicto) error
	BloquearTx(tx *gorm.DB, id uuid.UUID) (*model.Conflicto, error)
	// BuscarPendienteTx returns the PENDIENTE conflict for one trashed entity,
	// or gorm.ErrRecordNotFound.
	BuscarPendienteTx(tx *gorm.DB, tipo model.TipoModelo, idBorrado uuid.UUID) (*model.Conflicto, error)
	SaveTx(tx *gorm.DB, c *model.Conflicto) error
	// CerrarPendientesTx marks every PENDIENTE conflict of an entity as
	// RESUELTO_RESTAURAR. Used when the entity was restored without one.
	CerrarPendientesTx(tx *gorm.DB, tipo model.TipoModelo, idBorrado uuid.UUID, actorID uuid.UUID, actor string, nota string) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Conflicto, error)
	List(ctx context.Context, filtro ConflictoFiltro) ([]model.Conflicto, error)
	DB() *gorm.DB
}

type conflictoRepo struct{ db *gorm.DB }

func NewConflictoRepository(db *gorm.DB) ConflictoRepository { return &conflictoRepo{db: db} }

func (r *conflictoRepo) DB() *gorm.DB { return r.db }

func (r *conflictoRepo) CreateTx(tx *gorm.DB, c *model.Conflicto) error {
	return tx.Create(c).Error
}

func (r *conflictoRepo) BloquearTx(tx *gorm.DB, id uuid.UUID) (*model.Conflicto, error) {
	var c model.Conflicto
	err := tx.Scopes(paraActualizar).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *conflictoRepo) BuscarPendienteTx(tx *gorm.DB, tipo model.TipoModelo, idBorrado uuid.UUID) (*model.Conflicto, error) {
	var c model.Conflicto
	err := tx.Where("tipo_modelo = ? AND id_borrado = ? AND estado = ?", tipo, idBorrado, model.ConflictoPendiente).
		Order("fecha_deteccion ASC").First(&c).Error
	return &c, err
}

func (r *conflictoRepo) SaveTx(tx *gorm.DB, c *model.Conflicto) error {
	return tx.Save(c).Error
}

func (r *conflictoRepo) CerrarPendientesTx(tx *gorm.DB, tipo model.TipoModelo, idBorrado uuid.UUID, actorID uuid.UUID, actor string, nota string) (int64, error) {
	res := tx.Model(&model.Conflicto{}).
		Where("tipo_modelo = ? AND id_borrado = ? AND estado = ?", tipo, idBorrado, model.ConflictoPendiente).
		Updates(map[string]interface{}{
			"estado":           model.ConflictoResueltoRestaurar,
			"resuelto_por_id":  actorID,
			"resuelto_por":     actor,
			"fecha_resolucion": time.Now().UTC(),
			"notas_resolucion": nota,
		})
	return res.RowsAffected, res.Error
}

func (r *conflictoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Conflicto, error) {
	var c model.Conflicto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *conflictoRepo) List(ctx context.Context, filtro ConflictoFiltro) ([]model.Conflicto, error) {
	q := r.db.WithContext(ctx).Model(&model.Conflicto{})
	if filtro.Estado != "" {
		q = q.Where("estado = ?", filtro.Estado)
	}
	if filtro.TipoModelo != "" {
		q = q.Where("tipo_modelo = ?", filtro.TipoModelo)
	}
	var conflictos []model.Conflicto
	err := q.Order("fecha_deteccion DESC").Find(&conflictos).Error
	return conflictos, err
}
