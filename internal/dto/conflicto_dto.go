package dto

import "time"

type ResolverConflictoRequest struct {
	Resolucion string `json:"resolucion" validate:"required"`
	Notas      string `json:"notas"      validate:"max=2000"`
}

// ConflictoFilter is bound from the query string of GET /v1/conflictos.
type ConflictoFilter struct {
	Estado     string `form:"estado"      validate:"omitempty,oneof=PENDIENTE RESUELTO_RESTAURAR RESUELTO_IGNORAR"`
	TipoModelo string `form:"tipo_modelo" validate:"omitempty,oneof=PRODUCTO CLIENTE PROVEEDOR VENTA COMPRA"`
}

type ConflictoResponse struct {
	ID              string     `json:"id"`
	TipoModelo      string     `json:"tipo_modelo"`
	IDBorrado       string     `json:"id_borrado"`
	IDExistente     string     `json:"id_existente"`
	Estado          string     `json:"estado"`
	DetectadoPorID  string     `json:"detectado_por_id"`
	DetectadoPor    string     `json:"detectado_por"`
	FechaDeteccion  time.Time  `json:"fecha_deteccion"`
	ResueltoPorID   *string    `json:"resuelto_por_id"`
	ResueltoPor     *string    `json:"resuelto_por"`
	FechaResolucion *time.Time `json:"fecha_resolucion"`
	NotasResolucion *string    `json:"notas_resolucion"`
}

type ResolverConflictoResponse struct {
	Mensaje   string            `json:"mensaje"`
	Conflicto ConflictoResponse `json:"conflicto"`
}
