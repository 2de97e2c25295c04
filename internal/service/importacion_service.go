package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"reportes/internal/dto"
	"reportes/internal/importer"
	"reportes/internal/infra"

	"github.com/rs/zerolog/log"
)

// TipoCarga selects how an uploaded workbook is read.
type TipoCarga string

const (
	CargaVentas    TipoCarga = "ventas"
	CargaCompras   TipoCarga = "compras"
	CargaUnificado TipoCarga = "unificado"
)

// Bloqueador guards an upload against a concurrent upload of the same file.
// *infra.Locker satisfies it.
type Bloqueador interface {
	Obtener(ctx context.Context, key string, ttl time.Duration) (infra.Liberador, error)
}

// ImportacionService turns an uploaded workbook into staged rows.
type ImportacionService interface {
	Cargar(ctx context.Context, tipo TipoCarga, nombreArchivo string, data []byte, actor Actor) (*dto.ResultadoCarga, error)
}

type importacionService struct {
	staging  StagingService
	locker   Bloqueador
	maxBytes int64
	lockTTL  time.Duration
}

// NewImportacionService builds the upload pipeline. locker may be nil, which
// disables the duplicate-upload guard.
func NewImportacionService(staging StagingService, locker Bloqueador, maxBytes int64, lockTTL time.Duration) ImportacionService {
	return &importacionService{staging: staging, locker: locker, maxBytes: maxBytes, lockTTL: lockTTL}
}

const msgArchivoIlegible = "No se pudo leer el archivo. Verifique que sea un .xlsx válido."

func (s *importacionService) Cargar(ctx context.Context, tipo TipoCarga, nombreArchivo string, data []byte, actor Actor) (*dto.ResultadoCarga, error) {
	if !strings.EqualFold(filepath.Ext(nombreArchivo), ".xlsx") {
		return nil, ErrFormatoArchivo
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrArchivoGrande
	}

	if s.locker != nil {
		suma := sha256.Sum256(data)
		liberar, err := s.locker.Obtener(ctx, "importacion:"+hex.EncodeToString(suma[:]), s.lockTTL)
		if errors.Is(err, infra.ErrLockOcupado) {
			return nil, ErrCargaEnCurso
		}
		if err != nil {
			return nil, fmt.Errorf("obteniendo lock de importación: %w", err)
		}
		defer func() {
			if err := liberar(context.Background()); err != nil {
				log.Warn().Err(err).Str("archivo", nombreArchivo).Msg("no se pudo liberar el lock de importación")
			}
		}()
	}

	hojas, err := importer.LeerLibro(bytes.NewReader(data))
	if err != nil {
		return nil, &ArchivoError{Mensaje: msgArchivoIlegible, Err: errors.Join(ErrFormatoArchivo, err)}
	}
	if len(hojas) == 0 {
		return nil, &ArchivoError{Mensaje: msgArchivoIlegible, Err: ErrFormatoArchivo}
	}

	switch tipo {
	case CargaVentas, CargaCompras:
		res, err := s.ingestarHoja(ctx, importer.Tipo(tipo), hojas[0], actor)
		if err != nil {
			return nil, err
		}
		carga := &dto.ResultadoCarga{
			Mensaje:      fmt.Sprintf("Archivo procesado. %d %s en cola. %d errores.", res.Pendientes, tipo, len(res.ErroresFilas)),
			ErroresFilas: res.ErroresFilas,
		}
		if tipo == CargaVentas {
			carga.Ventas = res
		} else {
			carga.Compras = res
		}
		log.Info().Str("archivo", nombreArchivo).Str("tipo", string(tipo)).Str("usuario", actor.Username).Msg("lote importado")
		return carga, nil
	case CargaUnificado:
		return s.cargarUnificado(ctx, nombreArchivo, hojas, actor)
	}
	return nil, ErrTipoInvalido
}

// ingestarHoja maps the sheet headers and stages its rows. A header that
// cannot be mapped rejects the whole sheet.
func (s *importacionService) ingestarHoja(ctx context.Context, tipo importer.Tipo, h importer.Hoja, actor Actor) (*dto.ResultadoIngesta, error) {
	columnas, err := importer.NormalizarColumnas(h.Encabezados, importer.MapeoPara(tipo))
	if err != nil {
		var colErr *importer.ColumnasError
		if errors.As(err, &colErr) {
			return nil, &ArchivoError{Mensaje: colErr.Mensaje, Err: errors.Join(ErrFormatoArchivo, err)}
		}
		return nil, err
	}
	filas := importer.ConstruirFilas(h, columnas)
	if tipo == importer.TipoCompras {
		return s.staging.IngestarCompras(ctx, filas, actor)
	}
	return s.staging.IngestarVentas(ctx, filas, actor)
}

// cargarUnificado reads sheets named Ventas/Compras first. A named sheet
// whose headers do not map is skipped. When no named sheet was usable, the
// first sheet is classified by its columns.
func (s *importacionService) cargarUnificado(ctx context.Context, nombreArchivo string, hojas []importer.Hoja, actor Actor) (*dto.ResultadoCarga, error) {
	carga := &dto.ResultadoCarga{ErroresFilas: []dto.ErrorFila{}}

	asignar := func(a importer.Asignacion, res *dto.ResultadoIngesta) {
		if a.Tipo == importer.TipoCompras {
			carga.Compras = res
		} else {
			carga.Ventas = res
		}
		carga.ErroresFilas = append(carga.ErroresFilas, res.ErroresFilas...)
	}

	for _, a := range importer.HojasNombradas(hojas) {
		res, err := s.ingestarHoja(ctx, a.Tipo, a.Hoja, actor)
		if err != nil {
			var archErr *ArchivoError
			if errors.As(err, &archErr) {
				log.Warn().Str("archivo", nombreArchivo).Str("hoja", a.Hoja.Nombre).Str("motivo", archErr.Mensaje).Msg("hoja omitida")
				continue
			}
			return nil, err
		}
		asignar(a, res)
	}

	if carga.Ventas == nil && carga.Compras == nil {
		tipo, ok := importer.DetectarPorColumnas(hojas[0])
		if !ok {
			return nil, ErrTipoNoDetectado
		}
		a := importer.Asignacion{Tipo: tipo, Hoja: hojas[0]}
		res, err := s.ingestarHoja(ctx, a.Tipo, a.Hoja, actor)
		if err != nil {
			return nil, err
		}
		asignar(a, res)
	}

	total := 0
	var partes strings.Builder
	if carga.Ventas != nil {
		n := carga.Ventas.Pendientes + carga.Ventas.Conflictos
		total += n
		fmt.Fprintf(&partes, " (Ventas: %d)", n)
	}
	if carga.Compras != nil {
		n := carga.Compras.Pendientes + carga.Compras.Conflictos
		total += n
		fmt.Fprintf(&partes, " (Compras: %d)", n)
	}
	carga.Mensaje = fmt.Sprintf("Procesamiento completado. Total registros: %d. Total errores: %d.%s",
		total, len(carga.ErroresFilas), partes.String())

	log.Info().Str("archivo", nombreArchivo).Int("registros", total).Int("errores", len(carga.ErroresFilas)).
		Str("usuario", actor.Username).Msg("lote importado")
	return carga, nil
}
