package dto

import "time"

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"     validate:"required,min=1,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Telefono  *string `json:"telefono"   validate:"omitempty,max=20"`
	PaginaWeb *string `json:"pagina_web" validate:"omitempty,url"`
}

type ClienteResponse struct {
	ID        string     `json:"id"`
	Nombre    string     `json:"nombre"`
	Email     *string    `json:"email"`
	Telefono  *string    `json:"telefono"`
	PaginaWeb *string    `json:"pagina_web"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}
