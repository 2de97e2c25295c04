package repository

import (
	"context"
	"fmt"
	"time"

	"reportes/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Registro is the kind-independent view of a soft-deletable row: enough to
// move it in and out of the trash and to look for collisions.
type Registro struct {
	Tipo      model.TipoModelo
	ID        uuid.UUID
	DeletedAt *time.Time
	CreatedAt time.Time

	// PRODUCTO, PROVEEDOR, CLIENTE
	Nombre string
	// CLIENTE
	Email *string

	// VENTA, COMPRA. ContraparteID is the cliente (venta) or proveedor (compra).
	ProductoID     uuid.UUID
	ContraparteID  *uuid.UUID
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Fecha          time.Time
}

// EnPapelera reports whether the row is soft-deleted.
func (r *Registro) EnPapelera() bool { return r.DeletedAt != nil }

// Descripcion is a short human label for listings and exports.
func (r *Registro) Descripcion() string {
	switch r.Tipo {
	case model.TipoVenta, model.TipoCompra:
		return fmt.Sprintf("%d × %s (%s)", r.Cantidad, r.PrecioUnitario.StringFixed(2), r.Fecha.Format("2006-01-02 15:04"))
	}
	return r.Nombre
}

// PapeleraRepository moves any soft-deletable kind in and out of the trash.
// There is a single store per kind; visibility of trashed rows is always an
// explicit choice of the query.
type PapeleraRepository interface {
	BloquearTx(tx *gorm.DB, tipo model.TipoModelo, id uuid.UUID) (*Registro, error)
	MarcarBorradoTx(tx *gorm.DB, tipo model.TipoModelo, id uuid.UUID, cuando time.Time) error
	RestaurarTx(tx *gorm.DB, tipo model.TipoModelo, id uuid.UUID) error
	// BuscarColisionTx returns the id of an active row occupying the same
	// identity slot as reg, or nil. ventana applies to VENTA and COMPRA.
	BuscarColisionTx(tx *gorm.DB, reg *Registro, ventana time.Duration) (*uuid.UUID, error)
	ListarBorrados(ctx context.Context, tipo model.TipoModelo) ([]Registro, error)
	DB() *gorm.DB
}

type papeleraRepo struct{ db *gorm.DB }

func NewPapeleraRepository(db *gorm.DB) PapeleraRepository { return &papeleraRepo{db: db} }

func (r *papeleraRepo) DB() *gorm.DB { return r.db }

func modeloDe(tipo model.TipoModelo) (interface{}, error) {
	switch tipo {
	case model.TipoProducto:
		return &model.Producto{}, nil
	case model.TipoCliente:
		return &model.Cliente{}, nil
	case model.TipoProveedor:
		return &model.Proveedor{}, nil
	case model.TipoVenta:
		return &model.Venta{}, nil
	case model.TipoCompra:
		return &model.Compra{}, nil
	}
	return nil, fmt.Errorf("tipo de modelo desconocido: %q", tipo)
}

func (r *papeleraRepo) BloquearTx(tx *gorm.DB, tipo model.TipoModelo, id uuid.UUID) (*Registro, error) {
	q := tx.Scopes(paraActualizar).Where("id = ?", id)
	switch tipo {
	case model.TipoProducto:
		var p model.Producto
		if err := q.First(&p).Error; err != nil {
			return nil, err
		}
		return registroProducto(p), nil
	case model.TipoCliente:
		var c model.Cliente
		if err := q.First(&c).Error; err != nil {
			return nil, err
		}
		return registroCliente(c), nil
	case model.TipoProveedor:
		var p model.Proveedor
		if err := q.First(&p).Error; err != nil {
			return nil, err
		}
		return registroProveedor(p), nil
	case model.TipoVenta:
		var v model.Venta
		if err := q.First(&v).Error; err != nil {
			return nil, err
		}
		return registroVenta(v), nil
	case model.TipoCompra:
		var c model.Compra
		if err := q.First(&c).Error; err != nil {
			return nil, err
		}
		return registroCompra(c), nil
	}
	return nil, fmt.Errorf("tipo de modelo desconocido: %q", tipo)
}

func (r *papeleraRepo) MarcarBorradoTx(tx *gorm.DB, tipo model.TipoModelo, id uuid.UUID, cuando time.Time) error {
	m, err := modeloDe(tipo)
	if err != nil {
		return err
	}
	return tx.Model(m).Where("id = ? AND deleted_at IS NULL", id).Update("deleted_at", cuando.UTC()).Error
}

func (r *papeleraRepo) RestaurarTx(tx *gorm.DB, tipo model.TipoModelo, id uuid.UUID) error {
	m, err := modeloDe(tipo)
	if err != nil {
		return err
	}
	return tx.Model(m).Where("id = ?", id).Update("deleted_at", nil).Error
}

func (r *papeleraRepo) BuscarColisionTx(tx *gorm.DB, reg *Registro, ventana time.Duration) (*uuid.UUID, error) {
	m, err := modeloDe(reg.Tipo)
	if err != nil {
		return nil, err
	}
	q := tx.Model(m).Scopes(alcanceBorrados(false)).Where("id <> ?", reg.ID)

	switch reg.Tipo {
	case model.TipoProducto, model.TipoProveedor:
		q = q.Where("LOWER(nombre) = LOWER(?)", reg.Nombre)
	case model.TipoCliente:
		if reg.Email == nil || *reg.Email == "" {
			return nil, nil
		}
		q = q.Where("email = ?", *reg.Email)
	case model.TipoVenta, model.TipoCompra:
		columnaContraparte, columnaFecha := "cliente_id", "fecha_venta"
		if reg.Tipo == model.TipoCompra {
			columnaContraparte, columnaFecha = "proveedor_id", "fecha_compra"
		}
		if reg.ContraparteID == nil {
			q = q.Where(columnaContraparte + " IS NULL")
		} else {
			q = q.Where(columnaContraparte+" = ?", *reg.ContraparteID)
		}
		desde, hasta := reg.Fecha.Add(-ventana).UTC(), reg.Fecha.Add(ventana).UTC()
		q = q.Where("cantidad = ?", reg.Cantidad).
			Where(columnaFecha+" BETWEEN ? AND ?", desde, hasta)
	}

	var ids []uuid.UUID
	if err := q.Order("created_at DESC").Limit(1).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

func (r *papeleraRepo) ListarBorrados(ctx context.Context, tipo model.TipoModelo) ([]Registro, error) {
	q := r.db.WithContext(ctx).Scopes(soloBorrados).Order("deleted_at DESC")
	var out []Registro
	switch tipo {
	case model.TipoProducto:
		var filas []model.Producto
		if err := q.Find(&filas).Error; err != nil {
			return nil, err
		}
		for _, f := range filas {
			out = append(out, *registroProducto(f))
		}
	case model.TipoCliente:
		var filas []model.Cliente
		if err := q.Find(&filas).Error; err != nil {
			return nil, err
		}
		for _, f := range filas {
			out = append(out, *registroCliente(f))
		}
	case model.TipoProveedor:
		var filas []model.Proveedor
		if err := q.Find(&filas).Error; err != nil {
			return nil, err
		}
		for _, f := range filas {
			out = append(out, *registroProveedor(f))
		}
	case model.TipoVenta:
		var filas []model.Venta
		if err := q.Find(&filas).Error; err != nil {
			return nil, err
		}
		for _, f := range filas {
			out = append(out, *registroVenta(f))
		}
	case model.TipoCompra:
		var filas []model.Compra
		if err := q.Find(&filas).Error; err != nil {
			return nil, err
		}
		for _, f := range filas {
			out = append(out, *registroCompra(f))
		}
	default:
		return nil, fmt.Errorf("tipo de modelo desconocido: %q", tipo)
	}
	return out, nil
}

func registroProducto(p model.Producto) *Registro {
	return &Registro{Tipo: model.TipoProducto, ID: p.ID, DeletedAt: p.DeletedAt, CreatedAt: p.CreatedAt, Nombre: p.Nombre}
}

func registroCliente(c model.Cliente) *Registro {
	return &Registro{Tipo: model.TipoCliente, ID: c.ID, DeletedAt: c.DeletedAt, CreatedAt: c.CreatedAt, Nombre: c.Nombre, Email: c.Email}
}

func registroProveedor(p model.Proveedor) *Registro {
	return &Registro{Tipo: model.TipoProveedor, ID: p.ID, DeletedAt: p.DeletedAt, CreatedAt: p.CreatedAt, Nombre: p.Nombre}
}

func registroVenta(v model.Venta) *Registro {
	return &Registro{
		Tipo: model.TipoVenta, ID: v.ID, DeletedAt: v.DeletedAt, CreatedAt: v.CreatedAt,
		ProductoID: v.ProductoID, ContraparteID: v.ClienteID, Cantidad: v.Cantidad,
		PrecioUnitario: v.PrecioVenta, Fecha: v.FechaVenta,
	}
}

func registroCompra(c model.Compra) *Registro {
	return &Registro{
		Tipo: model.TipoCompra, ID: c.ID, DeletedAt: c.DeletedAt, CreatedAt: c.CreatedAt,
		ProductoID: c.ProductoID, ContraparteID: c.ProveedorID, Cantidad: c.Cantidad,
		PrecioUnitario: c.PrecioCompraUnitario, Fecha: c.FechaCompra,
	}
}
