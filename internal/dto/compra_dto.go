package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistrarCompraRequest creates a purchase directly, outside of the import flow.
type RegistrarCompraRequest struct {
	ProductoID           string          `json:"producto_id"            validate:"required,uuid"`
	ProveedorID          *string         `json:"proveedor_id"           validate:"omitempty,uuid"`
	Cantidad             int             `json:"cantidad"               validate:"required,min=1"`
	PrecioCompraUnitario decimal.Decimal `json:"precio_compra_unitario" validate:"min=0"`
}

type CompraResponse struct {
	ID                   string          `json:"id"`
	ProductoID           string          `json:"producto_id"`
	ProveedorID          *string         `json:"proveedor_id"`
	Cantidad             int             `json:"cantidad"`
	PrecioCompraUnitario decimal.Decimal `json:"precio_compra_unitario"`
	Total                decimal.Decimal `json:"total"`
	FechaCompra          time.Time       `json:"fecha_compra"`
	DeletedAt            *time.Time      `json:"deleted_at"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
