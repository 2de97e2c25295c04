package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarVentaRequest creates a sale directly, outside of the import flow.
type RegistrarVentaRequest struct {
	ProductoID  string          `json:"producto_id"  validate:"required,uuid"`
	ClienteID   *string         `json:"cliente_id"   validate:"omitempty,uuid"`
	Cantidad    int             `json:"cantidad"     validate:"required,min=1"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// LibroFilter is bound from the query string of GET /v1/ventas and /v1/compras.
type LibroFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID          string          `json:"id"`
	ProductoID  string          `json:"producto_id"`
	ClienteID   *string         `json:"cliente_id"`
	Cantidad    int             `json:"cantidad"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	TotalVenta  decimal.Decimal `json:"total_venta"`
	FechaVenta  time.Time       `json:"fecha_venta"`
	DeletedAt   *time.Time      `json:"deleted_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
