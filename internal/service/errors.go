package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNoEncontrado       = errors.New("recurso no encontrado")
	ErrEstadoInvalido     = errors.New("Esta transacción no está pendiente ni en conflicto para procesamiento.")
	ErrConflictoResuelto  = errors.New("Este conflicto ya fue resuelto.")
	ErrNoEnPapelera       = errors.New("El elemento no está en la papelera.")
	ErrResolucionInvalida = errors.New("Resolución inválida. Debe ser RESTAURAR o IGNORAR.")
	ErrTipoInvalido       = errors.New("Tipo de modelo inválido.")
	ErrDuplicado          = errors.New("Ya existe un registro activo con esos datos.")
	ErrStockInsuficiente  = errors.New("Stock insuficiente para registrar la venta.")
	ErrColaNoDisponible   = errors.New("La cola de procesamiento no está disponible.")
	ErrConflictoObsoleto  = errors.New("Otro registro activo ocupa el lugar del elemento a restaurar. Revise los conflictos pendientes.")

	// upload pipeline
	ErrFormatoArchivo  = errors.New("Formato de archivo inválido. Solo se aceptan archivos .xlsx.")
	ErrArchivoGrande   = errors.New("El archivo supera el tamaño máximo permitido.")
	ErrCargaEnCurso    = errors.New("Este archivo ya se está procesando.")
	ErrTipoNoDetectado = errors.New("No se pudo detectar el tipo de archivo. Asegúrese de usar hojas llamadas 'Ventas'/'Compras' o incluir columnas 'Cliente'/'Proveedor'.")
)

// ConflictoReferenciaError is returned by procesar when the named product or
// counterparty does not exist. The staged row has already been moved to
// CONFLICTO with the same Detalles when this error is returned.
type ConflictoReferenciaError struct {
	Detalles map[string]string
}

func (e *ConflictoReferenciaError) Error() string {
	claves := make([]string, 0, len(e.Detalles))
	for k := range e.Detalles {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	partes := make([]string, 0, len(claves))
	for _, k := range claves {
		partes = append(partes, k+": "+e.Detalles[k])
	}
	return "Se encontraron conflictos. " + strings.Join(partes, "; ")
}

// ErrorInterno wraps an unexpected failure after cross-reference resolution
// succeeded. Retrying the same call is safe: nothing was committed.
type ErrorInterno struct {
	Op  string
	Err error
}

func (e *ErrorInterno) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *ErrorInterno) Unwrap() error { return e.Err }

// ArchivoError carries a user-facing reason why an uploaded file was rejected.
type ArchivoError struct {
	Mensaje string
	Err     error
}

func (e *ArchivoError) Error() string { return e.Mensaje }
func (e *ArchivoError) Unwrap() error { return e.Err }

// noEncontrado maps gorm.ErrRecordNotFound to ErrNoEncontrado.
func noEncontrado(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoEncontrado
	}
	return err
}

// esDuplicado recognizes unique-index violations from PostgreSQL and SQLite.
func esDuplicado(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
