package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre             string          `json:"nombre"               validate:"required,min=1,max=100"`
	Descripcion        *string         `json:"descripcion"`
	ProveedorID        *string         `json:"proveedor_id"         validate:"omitempty,uuid"`
	Stock              int             `json:"stock"`
	PrecioCompraActual decimal.Decimal `json:"precio_compra_actual" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                 string          `json:"id"`
	Nombre             string          `json:"nombre"`
	Descripcion        *string         `json:"descripcion"`
	ProveedorID        *string         `json:"proveedor_id"`
	Stock              int             `json:"stock"`
	PrecioCompraActual decimal.Decimal `json:"precio_compra_actual"`
	CreatedAt          time.Time       `json:"created_at"`
	DeletedAt          *time.Time      `json:"deleted_at"`
}

type MovimientoStockResponse struct {
	ID            string    `json:"id"`
	ProductoID    string    `json:"producto_id"`
	Tipo          string    `json:"tipo"`
	Cantidad      int       `json:"cantidad"`
	StockAnterior int       `json:"stock_anterior"`
	StockNuevo    int       `json:"stock_nuevo"`
	ReferenciaID  *string   `json:"referencia_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type MovimientoStockListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

// MovimientoStockFilter is bound from the query string of GET /v1/productos/:id/movimientos.
type MovimientoStockFilter struct {
	Tipo         string `form:"tipo"`
	ReferenciaID string `form:"referencia_id" validate:"omitempty,uuid"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}
