package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"reportes/internal/dto"
	"reportes/internal/model"
	"reportes/internal/normalizer"
	"reportes/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxNombre = 255
	maxValor  = 50 // width of the staged cantidad / precio columns
)

// Field reasons reported in DetallesConflicto.
const (
	msgCampoRequerido   = "Este campo es requerido."
	msgCampoEnBlanco    = "Este campo no puede estar en blanco."
	msgNombreLargo      = "Asegúrese de que este campo no tenga más de 255 caracteres."
	msgCantidadPositiva = "La cantidad debe ser mayor que cero."
)

type tipoCampo int

const (
	campoNombre tipoCampo = iota
	campoCantidad
	campoDinero
)

type campoRequerido struct {
	nombre string
	tipo   tipoCampo
}

var (
	camposVenta = []campoRequerido{
		{"producto", campoNombre},
		{"cliente", campoNombre},
		{"cantidad", campoCantidad},
		{"precio_venta", campoDinero},
	}
	camposCompra = []campoRequerido{
		{"producto", campoNombre},
		{"proveedor", campoNombre},
		{"cantidad", campoCantidad},
		{"precio_compra_unitario", campoDinero},
	}
)

// StagingService validates mapped spreadsheet rows and stages every one of
// them: clean rows as PENDIENTE, rows with unusable cells as CONFLICTO. A bad
// row never blocks its siblings.
type StagingService interface {
	IngestarVentas(ctx context.Context, filas []dto.FilaImportada, actor Actor) (*dto.ResultadoIngesta, error)
	IngestarCompras(ctx context.Context, filas []dto.FilaImportada, actor Actor) (*dto.ResultadoIngesta, error)
}

type stagingService struct {
	repo repository.ImportacionRepository
	norm *normalizer.Normalizador
}

func NewStagingService(repo repository.ImportacionRepository, norm *normalizer.Normalizador) StagingService {
	return &stagingService{repo: repo, norm: norm}
}

// filaValidada holds the canonical text of every field (or the best-effort
// raw text when the field failed) plus the per-field errors.
type filaValidada struct {
	valores map[string]string
	errores map[string]string
}

func (f filaValidada) limpia() bool { return len(f.errores) == 0 }

// validarCampos normalizes each required field. It is shared with the
// reconciliation state machine, which re-checks stored text before use.
func validarCampos(norm *normalizer.Normalizador, campos map[string]any, requeridos []campoRequerido) filaValidada {
	out := filaValidada{valores: make(map[string]string, len(requeridos)), errores: map[string]string{}}
	for _, c := range requeridos {
		raw, presente := campos[c.nombre]
		texto := strings.TrimSpace(normalizer.Texto(raw))
		if c.tipo == campoNombre {
			out.valores[c.nombre] = recortar(texto, maxNombre)
		} else {
			out.valores[c.nombre] = recortar(texto, maxValor)
		}
		if !presente {
			out.errores[c.nombre] = msgCampoRequerido
			continue
		}
		switch c.tipo {
		case campoNombre:
			switch {
			case texto == "":
				out.errores[c.nombre] = msgCampoEnBlanco
			case utf8.RuneCountInString(texto) > maxNombre:
				out.errores[c.nombre] = msgNombreLargo
			}
		case campoCantidad:
			n, err := norm.Cantidad(raw)
			switch {
			case err != nil:
				out.errores[c.nombre] = err.Error()
			case n <= 0:
				out.errores[c.nombre] = msgCantidadPositiva
			default:
				out.valores[c.nombre] = strconv.Itoa(n)
			}
		case campoDinero:
			d, err := norm.Dinero(raw)
			if err != nil {
				out.errores[c.nombre] = err.Error()
			} else {
				out.valores[c.nombre] = d.String()
			}
		}
	}
	return out
}

// recortar keeps best-effort text within its column width.
func recortar(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func aJSONMap(m map[string]string) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func original(f dto.FilaImportada) datatypes.JSONMap {
	if f.Original == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(f.Original)
}

func numeroFila(f dto.FilaImportada, i int) int {
	if f.Numero > 0 {
		return f.Numero
	}
	return i + 2
}

func (s *stagingService) IngestarVentas(ctx context.Context, filas []dto.FilaImportada, actor Actor) (*dto.ResultadoIngesta, error) {
	res := &dto.ResultadoIngesta{ErroresFilas: []dto.ErrorFila{}}
	staged := make([]model.VentaImportada, 0, len(filas))

	for i, f := range filas {
		v := validarCampos(s.norm, f.Campos, camposVenta)
		fila := model.VentaImportada{
			Estado:            model.EstadoPendiente,
			DatosFilaOriginal: original(f),
			ProductoNombre:    v.valores["producto"],
			ClienteNombre:     v.valores["cliente"],
			Cantidad:          v.valores["cantidad"],
			PrecioVenta:       v.valores["precio_venta"],
			ImportadoPorID:    actor.ID,
			ImportadoPor:      actor.Username,
		}
		if v.limpia() {
			res.Pendientes++
		} else {
			fila.Estado = model.EstadoEnConflicto
			fila.DetallesConflicto = aJSONMap(v.errores)
			res.Conflictos++
			res.ErroresFilas = append(res.ErroresFilas, dto.ErrorFila{
				FilaExcel:       numeroFila(f, i),
				DatosOriginales: fila.DatosFilaOriginal,
				Errores:         v.errores,
			})
		}
		staged = append(staged, fila)
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CrearVentasTx(tx, staged)
	}); err != nil {
		log.Error().Err(err).Int("filas", len(staged)).Msg("error guardando ventas importadas")
		return nil, err
	}

	log.Info().Str("usuario", actor.Username).Int("pendientes", res.Pendientes).
		Int("conflictos", res.Conflictos).Msg("lote de ventas importado")
	return res, nil
}

func (s *stagingService) IngestarCompras(ctx context.Context, filas []dto.FilaImportada, actor Actor) (*dto.ResultadoIngesta, error) {
	res := &dto.ResultadoIngesta{ErroresFilas: []dto.ErrorFila{}}
	staged := make([]model.CompraImportada, 0, len(filas))

	for i, f := range filas {
		v := validarCampos(s.norm, f.Campos, camposCompra)
		fila := model.CompraImportada{
			Estado:               model.EstadoPendiente,
			DatosFilaOriginal:    original(f),
			ProductoNombre:       v.valores["producto"],
			ProveedorNombre:      v.valores["proveedor"],
			Cantidad:             v.valores["cantidad"],
			PrecioCompraUnitario: v.valores["precio_compra_unitario"],
			ImportadoPorID:       actor.ID,
			ImportadoPor:         actor.Username,
		}
		if v.limpia() {
			res.Pendientes++
		} else {
			fila.Estado = model.EstadoEnConflicto
			fila.DetallesConflicto = aJSONMap(v.errores)
			res.Conflictos++
			res.ErroresFilas = append(res.ErroresFilas, dto.ErrorFila{
				FilaExcel:       numeroFila(f, i),
				DatosOriginales: fila.DatosFilaOriginal,
				Errores:         v.errores,
			})
		}
		staged = append(staged, fila)
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CrearComprasTx(tx, staged)
	}); err != nil {
		log.Error().Err(err).Int("filas", len(staged)).Msg("error guardando compras importadas")
		return nil, err
	}

	log.Info().Str("usuario", actor.Username).Int("pendientes", res.Pendientes).
		Int("conflictos", res.Conflictos).Msg("lote de compras importado")
	return res, nil
}
