package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	Nombre          string  `json:"nombre"           validate:"required,min=1,max=100"`
	PersonaContacto *string `json:"persona_contacto" validate:"omitempty,max=100"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Telefono        *string `json:"telefono"         validate:"omitempty,max=20"`
	PaginaWeb       *string `json:"pagina_web"       validate:"omitempty,url"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID              string     `json:"id"`
	Nombre          string     `json:"nombre"`
	PersonaContacto *string    `json:"persona_contacto"`
	Email           *string    `json:"email"`
	Telefono        *string    `json:"telefono"`
	PaginaWeb       *string    `json:"pagina_web"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
}
