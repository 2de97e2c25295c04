package dto

import "time"

// Outcomes of a restore attempt.
const (
	RestauracionRestaurado = "restaurado"
	RestauracionConflicto  = "conflicto"
)

// ResultadoRestauracion is either a direct restore or a new (or still
// pending) conflict blocking it.
type ResultadoRestauracion struct {
	Estado      string  `json:"estado"`
	Mensaje     string  `json:"mensaje"`
	ConflictoID *string `json:"conflicto_id,omitempty"`
}

// ElementoPapelera is a trashed entity of any kind.
type ElementoPapelera struct {
	ID          string    `json:"id"`
	TipoModelo  string    `json:"tipo_modelo"`
	Descripcion string    `json:"descripcion"`
	DeletedAt   time.Time `json:"deleted_at"`
}
