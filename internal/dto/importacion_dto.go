package dto

import "time"

// FilaImportada is one spreadsheet row after column mapping. Campos holds
// the canonical fields, Original every column of the row keyed by header.
// Numero is the spreadsheet row number (the header is row 1).
type FilaImportada struct {
	Numero   int
	Campos   map[string]any
	Original map[string]any
}

// ErrorFila reports a row that was staged in CONFLICTO.
type ErrorFila struct {
	FilaExcel       int               `json:"fila_excel"`
	DatosOriginales map[string]any    `json:"datos_originales"`
	Errores         map[string]string `json:"errores"`
}

// ResultadoIngesta summarizes one staged batch.
type ResultadoIngesta struct {
	Pendientes   int         `json:"pendientes"`
	Conflictos   int         `json:"conflictos"`
	ErroresFilas []ErrorFila `json:"errores_filas"`
}

// ResultadoCarga is returned by the upload endpoints.
type ResultadoCarga struct {
	Mensaje      string            `json:"mensaje"`
	Ventas       *ResultadoIngesta `json:"ventas,omitempty"`
	Compras      *ResultadoIngesta `json:"compras,omitempty"`
	ErroresFilas []ErrorFila       `json:"errores_filas"`
}

// ImportacionFilter is bound from the query string of the staged-row lists.
type ImportacionFilter struct {
	Estado       string `form:"estado"        validate:"omitempty,oneof=PENDIENTE CONFLICTO PROCESADO IGNORADO"`
	ImportadoPor string `form:"importado_por" validate:"omitempty,uuid"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaImportadaResponse struct {
	ID                string         `json:"id"`
	Estado            string         `json:"estado"`
	DatosFilaOriginal map[string]any `json:"datos_fila_original"`
	DetallesConflicto map[string]any `json:"detalles_conflicto"`
	ProductoNombre    string         `json:"producto_nombre"`
	ClienteNombre     string         `json:"cliente_nombre"`
	Cantidad          string         `json:"cantidad"`
	PrecioVenta       string         `json:"precio_venta"`
	ProductoID        *string        `json:"producto_id"`
	ClienteID         *string        `json:"cliente_id"`
	VentaID           *string        `json:"venta_id"`
	ImportadoPorID    string         `json:"importado_por_id"`
	ImportadoPor      string         `json:"importado_por"`
	FechaImportacion  time.Time      `json:"fecha_importacion"`
	FechaResolucion   *time.Time     `json:"fecha_resolucion"`
}

type CompraImportadaResponse struct {
	ID                   string         `json:"id"`
	Estado               string         `json:"estado"`
	DatosFilaOriginal    map[string]any `json:"datos_fila_original"`
	DetallesConflicto    map[string]any `json:"detalles_conflicto"`
	ProductoNombre       string         `json:"producto_nombre"`
	ProveedorNombre      string         `json:"proveedor_nombre"`
	Cantidad             string         `json:"cantidad"`
	PrecioCompraUnitario string         `json:"precio_compra_unitario"`
	ProductoID           *string        `json:"producto_id"`
	ProveedorID          *string        `json:"proveedor_id"`
	CompraID             *string        `json:"compra_id"`
	ImportadoPorID       string         `json:"importado_por_id"`
	ImportadoPor         string         `json:"importado_por"`
	FechaImportacion     time.Time      `json:"fecha_importacion"`
	FechaResolucion      *time.Time     `json:"fecha_resolucion"`
}

type VentaImportadaListResponse struct {
	Data  []VentaImportadaResponse `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}

type CompraImportadaListResponse struct {
	Data  []CompraImportadaResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

// ResultadoProceso is the success payload of procesar. Exactly one of the
// two staged rows is set.
type ResultadoProceso struct {
	Mensaje         string                   `json:"mensaje"`
	VentaImportada  *VentaImportadaResponse  `json:"venta_importada,omitempty"`
	CompraImportada *CompraImportadaResponse `json:"compra_importada,omitempty"`
}

type ProcesarLoteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,uuid"`
}

type ProcesarLoteResponse struct {
	Encolados int `json:"encolados"`
}
