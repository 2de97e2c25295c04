package importer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"reportes/internal/dto"
)

var (
	ErrColumnasDuplicadas = errors.New("columnas duplicadas")
	ErrColumnasFaltantes  = errors.New("columnas faltantes")
)

// ColumnasError describes a header row that cannot be mapped. Mensaje is
// meant for the user who uploaded the file.
type ColumnasError struct {
	Causa   error
	Mensaje string
}

func (e *ColumnasError) Error() string { return e.Mensaje }
func (e *ColumnasError) Unwrap() error { return e.Causa }

// Mapeo maps a canonical field name to the header aliases accepted for it.
type Mapeo map[string][]string

var MapeoVentas = Mapeo{
	"producto":     {"producto", "nombre producto"},
	"cliente":      {"cliente", "nombre cliente"},
	"cantidad":     {"cantidad", "unidades"},
	"precio_venta": {"precio", "precio_venta", "precio unitario", "valor"},
}

var MapeoCompras = Mapeo{
	"producto":               {"producto", "nombre producto"},
	"proveedor":              {"proveedor", "nombre proveedor"},
	"cantidad":               {"cantidad", "unidades"},
	"precio_compra_unitario": {"precio", "costo", "precio_compra", "precio unitario", "valor"},
}

func clave(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func (m Mapeo) inverso() map[string]string {
	inv := make(map[string]string)
	for canonico, alias := range m {
		for _, a := range alias {
			inv[clave(a)] = canonico
		}
	}
	return inv
}

// NormalizarColumnas returns header index → canonical name for every header
// that matches an alias. Unrecognized headers are left out and still travel
// with the row as original data.
func NormalizarColumnas(encabezados []string, m Mapeo) (map[int]string, error) {
	inv := m.inverso()
	columnas := make(map[int]string)
	encontrados := make(map[string]bool)
	for i, h := range encabezados {
		canonico, ok := inv[clave(h)]
		if !ok {
			continue
		}
		if encontrados[canonico] {
			return nil, &ColumnasError{
				Causa:   ErrColumnasDuplicadas,
				Mensaje: fmt.Sprintf("El archivo contiene columnas duplicadas semánticamente para '%s'.", canonico),
			}
		}
		encontrados[canonico] = true
		columnas[i] = canonico
	}

	var faltantes []string
	for canonico := range m {
		if !encontrados[canonico] {
			faltantes = append(faltantes, canonico)
		}
	}
	if len(faltantes) > 0 {
		sort.Strings(faltantes)
		return nil, &ColumnasError{
			Causa:   ErrColumnasFaltantes,
			Mensaje: fmt.Sprintf("Faltan las siguientes columnas requeridas: %s.", strings.Join(faltantes, ", ")),
		}
	}
	return columnas, nil
}

// ConstruirFilas turns sheet rows into ingestor input: the canonical fields
// plus every original column keyed by its header.
func ConstruirFilas(h Hoja, columnas map[int]string) []dto.FilaImportada {
	filas := make([]dto.FilaImportada, 0, len(h.Filas))
	for _, f := range h.Filas {
		campos := make(map[string]any, len(columnas))
		original := make(map[string]any, len(h.Encabezados))
		for i, enc := range h.Encabezados {
			var v string
			if i < len(f.Celdas) {
				v = f.Celdas[i]
			}
			original[enc] = v
			if canonico, ok := columnas[i]; ok {
				campos[canonico] = v
			}
		}
		filas = append(filas, dto.FilaImportada{Numero: f.Numero, Campos: campos, Original: original})
	}
	return filas
}

// Tipo is the kind of staged transaction a sheet holds.
type Tipo string

const (
	TipoVentas  Tipo = "ventas"
	TipoCompras Tipo = "compras"
)

// Asignacion pairs a sheet with the kind of rows it is read as.
type Asignacion struct {
	Tipo Tipo
	Hoja Hoja
}

// HojasNombradas returns the sheets literally named "ventas" or "compras"
// (any case), ventas first.
func HojasNombradas(hojas []Hoja) []Asignacion {
	var out []Asignacion
	for _, tipo := range []Tipo{TipoVentas, TipoCompras} {
		for _, h := range hojas {
			if clave(h.Nombre) == string(tipo) {
				out = append(out, Asignacion{Tipo: tipo, Hoja: h})
				break
			}
		}
	}
	return out
}

// DetectarPorColumnas guesses the kind of a sheet from its headers: a client
// column means sales, otherwise a supplier column means purchases.
func DetectarPorColumnas(h Hoja) (Tipo, bool) {
	tiene := func(alias []string) bool {
		for _, enc := range h.Encabezados {
			for _, a := range alias {
				if clave(enc) == a {
					return true
				}
			}
		}
		return false
	}
	switch {
	case tiene(MapeoVentas["cliente"]):
		return TipoVentas, true
	case tiene(MapeoCompras["proveedor"]):
		return TipoCompras, true
	}
	return "", false
}

// DetectarTipo applies sheet names first and falls back to the headers of
// the first sheet.
func DetectarTipo(hojas []Hoja) []Asignacion {
	if nombradas := HojasNombradas(hojas); len(nombradas) > 0 {
		return nombradas
	}
	if len(hojas) == 0 {
		return nil
	}
	if tipo, ok := DetectarPorColumnas(hojas[0]); ok {
		return []Asignacion{{Tipo: tipo, Hoja: hojas[0]}}
	}
	return nil
}

// MapeoPara returns the column mapping for tipo.
func MapeoPara(tipo Tipo) Mapeo {
	if tipo == TipoCompras {
		return MapeoCompras
	}
	return MapeoVentas
}
