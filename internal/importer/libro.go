// Package importer reads spreadsheet workbooks and maps their columns onto
// the canonical field names the staging ingestor expects.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Hoja is one worksheet: its header row and the data rows below it.
type Hoja struct {
	Nombre      string
	Encabezados []string
	Filas       []Fila
}

// Fila is a data row. Numero is the row number as shown by the spreadsheet
// application, so the first data row under the header is 2.
type Fila struct {
	Numero int
	Celdas []string
}

// LeerLibro loads every sheet of an .xlsx workbook. Rows are padded to the
// header width and fully blank rows are skipped without renumbering.
func LeerLibro(r io.Reader) ([]Hoja, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("archivo xlsx ilegible: %w", err)
	}
	defer f.Close()

	var hojas []Hoja
	for _, nombre := range f.GetSheetList() {
		rows, err := f.GetRows(nombre)
		if err != nil {
			return nil, fmt.Errorf("leyendo hoja %q: %w", nombre, err)
		}
		hoja := Hoja{Nombre: nombre}
		if len(rows) == 0 {
			hojas = append(hojas, hoja)
			continue
		}
		hoja.Encabezados = encabezados(rows[0])
		for i, row := range rows[1:] {
			if filaVacia(row) {
				continue
			}
			celdas := make([]string, len(hoja.Encabezados))
			copy(celdas, row)
			hoja.Filas = append(hoja.Filas, Fila{Numero: i + 2, Celdas: celdas})
		}
		hojas = append(hojas, hoja)
	}
	return hojas, nil
}

func encabezados(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Sin nombre %d", i+1)
		}
		out[i] = h
	}
	return out
}

func filaVacia(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// EscribirHoja writes a single-sheet workbook with a header row.
func EscribirHoja(w io.Writer, nombre string, encabezados []string, filas [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), nombre); err != nil {
		return err
	}
	if err := f.SetSheetRow(nombre, "A1", &encabezados); err != nil {
		return err
	}
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(nombre, celda, &fila); err != nil {
			return err
		}
	}
	return f.Write(w)
}
