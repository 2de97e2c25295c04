package service

import (
	"reportes/internal/dto"
	"reportes/internal/model"

	"github.com/google/uuid"
)

func uuidPtrStr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:                 p.ID.String(),
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		ProveedorID:        uuidPtrStr(p.ProveedorID),
		Stock:              p.Stock,
		PrecioCompraActual: p.PrecioCompraActual,
		CreatedAt:          p.CreatedAt,
		DeletedAt:          p.DeletedAt,
	}
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Email:     c.Email,
		Telefono:  c.Telefono,
		PaginaWeb: c.PaginaWeb,
		CreatedAt: c.CreatedAt,
		DeletedAt: c.DeletedAt,
	}
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		PersonaContacto: p.PersonaContacto,
		Email:           p.Email,
		Telefono:        p.Telefono,
		PaginaWeb:       p.PaginaWeb,
		CreatedAt:       p.CreatedAt,
		DeletedAt:       p.DeletedAt,
	}
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	return dto.VentaResponse{
		ID:          v.ID.String(),
		ProductoID:  v.ProductoID.String(),
		ClienteID:   uuidPtrStr(v.ClienteID),
		Cantidad:    v.Cantidad,
		PrecioVenta: v.PrecioVenta,
		TotalVenta:  v.TotalVenta,
		FechaVenta:  v.FechaVenta,
		DeletedAt:   v.DeletedAt,
	}
}

func compraToResponse(c *model.Compra) dto.CompraResponse {
	return dto.CompraResponse{
		ID:                   c.ID.String(),
		ProductoID:           c.ProductoID.String(),
		ProveedorID:          uuidPtrStr(c.ProveedorID),
		Cantidad:             c.Cantidad,
		PrecioCompraUnitario: c.PrecioCompraUnitario,
		Total:                c.Total(),
		FechaCompra:          c.FechaCompra,
		DeletedAt:            c.DeletedAt,
	}
}

// jsonMapOrNil keeps "no details" as null in responses; the JSON column
// scans NULL into an empty map.
func jsonMapOrNil(m map[string]interface{}) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

func ventaImportadaToResponse(v *model.VentaImportada) *dto.VentaImportadaResponse {
	return &dto.VentaImportadaResponse{
		ID:                v.ID.String(),
		Estado:            string(v.Estado),
		DatosFilaOriginal: v.DatosFilaOriginal,
		DetallesConflicto: jsonMapOrNil(v.DetallesConflicto),
		ProductoNombre:    v.ProductoNombre,
		ClienteNombre:     v.ClienteNombre,
		Cantidad:          v.Cantidad,
		PrecioVenta:       v.PrecioVenta,
		ProductoID:        uuidPtrStr(v.ProductoID),
		ClienteID:         uuidPtrStr(v.ClienteID),
		VentaID:           uuidPtrStr(v.VentaID),
		ImportadoPorID:    v.ImportadoPorID.String(),
		ImportadoPor:      v.ImportadoPor,
		FechaImportacion:  v.FechaImportacion,
		FechaResolucion:   v.FechaResolucion,
	}
}

func compraImportadaToResponse(c *model.CompraImportada) *dto.CompraImportadaResponse {
	return &dto.CompraImportadaResponse{
		ID:                   c.ID.String(),
		Estado:               string(c.Estado),
		DatosFilaOriginal:    c.DatosFilaOriginal,
		DetallesConflicto:    jsonMapOrNil(c.DetallesConflicto),
		ProductoNombre:       c.ProductoNombre,
		ProveedorNombre:      c.ProveedorNombre,
		Cantidad:             c.Cantidad,
		PrecioCompraUnitario: c.PrecioCompraUnitario,
		ProductoID:           uuidPtrStr(c.ProductoID),
		ProveedorID:          uuidPtrStr(c.ProveedorID),
		CompraID:             uuidPtrStr(c.CompraID),
		ImportadoPorID:       c.ImportadoPorID.String(),
		ImportadoPor:         c.ImportadoPor,
		FechaImportacion:     c.FechaImportacion,
		FechaResolucion:      c.FechaResolucion,
	}
}

func conflictoToResponse(c *model.Conflicto) dto.ConflictoResponse {
	return dto.ConflictoResponse{
		ID:              c.ID.String(),
		TipoModelo:      string(c.TipoModelo),
		IDBorrado:       c.IDBorrado.String(),
		IDExistente:     c.IDExistente.String(),
		Estado:          string(c.Estado),
		DetectadoPorID:  c.DetectadoPorID.String(),
		DetectadoPor:    c.DetectadoPor,
		FechaDeteccion:  c.FechaDeteccion,
		ResueltoPorID:   uuidPtrStr(c.ResueltoPorID),
		ResueltoPor:     c.ResueltoPor,
		FechaResolucion: c.FechaResolucion,
		NotasResolucion: c.NotasResolucion,
	}
}
