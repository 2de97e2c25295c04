package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"reportes/internal/dto"
	"reportes/internal/importer"
	"reportes/internal/model"
	"reportes/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	msgRestaurado         = "Elemento restaurado correctamente."
	msgConflictoDetectado = "Conflicto detectado: ya existe un registro activo equivalente. Resuélvalo desde la lista de conflictos."
)

// PapeleraService soft-deletes and restores every kind. A restore that would
// collide with an active equivalent is parked as a PENDIENTE Conflicto and
// the entity stays in the trash.
type PapeleraService interface {
	Eliminar(ctx context.Context, tipo model.TipoModelo, id uuid.UUID, actor Actor) error
	Restaurar(ctx context.Context, tipo model.TipoModelo, id uuid.UUID, actor Actor) (*dto.ResultadoRestauracion, error)
	ListarPapelera(ctx context.Context, tipo model.TipoModelo) ([]dto.ElementoPapelera, error)
	ExportarPapelera(ctx context.Context, tipo model.TipoModelo, w io.Writer) error
}

type papeleraService struct {
	papelera   repository.PapeleraRepository
	conflictos repository.ConflictoRepository
	mover      movedor
	ventana    time.Duration
}

// NewPapeleraService builds the service. ventana is the ± window used to
// match VENTA and COMPRA collisions by date.
func NewPapeleraService(
	papelera repository.PapeleraRepository,
	conflictos repository.ConflictoRepository,
	stock StockService,
	ventana time.Duration,
) PapeleraService {
	return &papeleraService{
		papelera:   papelera,
		conflictos: conflictos,
		mover:      movedor{papelera: papelera, stock: stock},
		ventana:    ventana,
	}
}

// movedor moves a locked row in and out of the trash together with its
// stock side effect. Shared by the trash and the conflict resolver.
type movedor struct {
	papelera repository.PapeleraRepository
	stock    StockService
}

func (m movedor) borrarTx(tx *gorm.DB, reg *repository.Registro, cuando time.Time) error {
	if err := m.papelera.MarcarBorradoTx(tx, reg.Tipo, reg.ID, cuando); err != nil {
		return err
	}
	switch reg.Tipo {
	case model.TipoVenta:
		return m.stock.RevertirVentaTx(tx, ventaDe(reg))
	case model.TipoCompra:
		return m.stock.RevertirCompraTx(tx, compraDe(reg))
	}
	return nil
}

func (m movedor) restaurarTx(tx *gorm.DB, reg *repository.Registro) error {
	if err := m.papelera.RestaurarTx(tx, reg.Tipo, reg.ID); err != nil {
		return err
	}
	switch reg.Tipo {
	case model.TipoVenta:
		return m.stock.ReaplicarVentaTx(tx, ventaDe(reg))
	case model.TipoCompra:
		return m.stock.ReaplicarCompraTx(tx, compraDe(reg))
	}
	return nil
}

func ventaDe(reg *repository.Registro) *model.Venta {
	return &model.Venta{ID: reg.ID, ProductoID: reg.ProductoID, ClienteID: reg.ContraparteID, Cantidad: reg.Cantidad, PrecioVenta: reg.PrecioUnitario, FechaVenta: reg.Fecha}
}

func compraDe(reg *repository.Registro) *model.Compra {
	return &model.Compra{ID: reg.ID, ProductoID: reg.ProductoID, ProveedorID: reg.ContraparteID, Cantidad: reg.Cantidad, PrecioCompraUnitario: reg.PrecioUnitario, FechaCompra: reg.Fecha}
}

// bloquear locks one row of a kind and maps a missing row to ErrNoEncontrado.
func bloquear(tx *gorm.DB, repo repository.PapeleraRepository, tipo model.TipoModelo, id uuid.UUID) (*repository.Registro, error) {
	reg, err := repo.BloquearTx(tx, tipo, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	return reg, nil
}

func (s *papeleraService) Eliminar(ctx context.Context, tipo model.TipoModelo, id uuid.UUID, actor Actor) error {
	if !tipo.Valido() {
		return ErrTipoInvalido
	}
	err := runTx(ctx, s.papelera.DB(), func(tx *gorm.DB) error {
		reg, err := bloquear(tx, s.papelera, tipo, id)
		if err != nil {
			return err
		}
		if reg.EnPapelera() {
			return ErrNoEncontrado
		}
		return s.mover.borrarTx(tx, reg, time.Now().UTC())
	})
	if err != nil {
		return err
	}
	log.Info().Str("tipo", string(tipo)).Str("id", id.String()).Str("usuario", actor.Username).Msg("elemento enviado a la papelera")
	return nil
}

func (s *papeleraService) Restaurar(ctx context.Context, tipo model.TipoModelo, id uuid.UUID, actor Actor) (*dto.ResultadoRestauracion, error) {
	if !tipo.Valido() {
		return nil, ErrTipoInvalido
	}
	var conflicto *model.Conflicto
	nuevo := false

	err := runTx(ctx, s.papelera.DB(), func(tx *gorm.DB) error {
		reg, err := bloquear(tx, s.papelera, tipo, id)
		if err != nil {
			return err
		}
		if !reg.EnPapelera() {
			return ErrNoEnPapelera
		}

		existente, err := s.papelera.BuscarColisionTx(tx, reg, s.ventana)
		if err != nil {
			return err
		}
		if existente != nil {
			c, err := s.conflictos.BuscarPendienteTx(tx, tipo, id)
			if err == nil {
				conflicto = c
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			conflicto = &model.Conflicto{
				TipoModelo:     tipo,
				IDBorrado:      id,
				IDExistente:    *existente,
				Estado:         model.ConflictoPendiente,
				DetectadoPorID: actor.ID,
				DetectadoPor:   actor.Username,
			}
			nuevo = true
			return s.conflictos.CreateTx(tx, conflicto)
		}

		if err := s.mover.restaurarTx(tx, reg); err != nil {
			return err
		}
		// A restore without collision settles whatever was still pending.
		_, err = s.conflictos.CerrarPendientesTx(tx, tipo, id, actor.ID, actor.Username, "Restaurado sin colisión.")
		return err
	})
	if err != nil {
		return nil, err
	}

	if conflicto != nil {
		if nuevo {
			log.Info().Str("tipo", string(tipo)).Str("id_borrado", id.String()).
				Str("id_existente", conflicto.IDExistente.String()).Str("conflicto_id", conflicto.ID.String()).
				Str("usuario", actor.Username).Msg("conflicto detectado")
		}
		cid := conflicto.ID.String()
		return &dto.ResultadoRestauracion{Estado: dto.RestauracionConflicto, Mensaje: msgConflictoDetectado, ConflictoID: &cid}, nil
	}
	log.Info().Str("tipo", string(tipo)).Str("id", id.String()).Str("usuario", actor.Username).Msg("elemento restaurado")
	return &dto.ResultadoRestauracion{Estado: dto.RestauracionRestaurado, Mensaje: msgRestaurado}, nil
}

func (s *papeleraService) ListarPapelera(ctx context.Context, tipo model.TipoModelo) ([]dto.ElementoPapelera, error) {
	if !tipo.Valido() {
		return nil, ErrTipoInvalido
	}
	regs, err := s.papelera.ListarBorrados(ctx, tipo)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ElementoPapelera, 0, len(regs))
	for i := range regs {
		out = append(out, dto.ElementoPapelera{
			ID:          regs[i].ID.String(),
			TipoModelo:  string(regs[i].Tipo),
			Descripcion: regs[i].Descripcion(),
			DeletedAt:   *regs[i].DeletedAt,
		})
	}
	return out, nil
}

// ExportarPapelera writes the trashed rows of one kind as a single-sheet xlsx.
func (s *papeleraService) ExportarPapelera(ctx context.Context, tipo model.TipoModelo, w io.Writer) error {
	elementos, err := s.ListarPapelera(ctx, tipo)
	if err != nil {
		return err
	}
	filas := make([][]any, 0, len(elementos))
	for _, e := range elementos {
		filas = append(filas, []any{e.ID, e.TipoModelo, e.Descripcion, e.DeletedAt.Format("2006-01-02 15:04:05")})
	}
	hoja := "Papelera " + strings.ToLower(string(tipo))
	return importer.EscribirHoja(w, hoja, []string{"ID", "Tipo", "Descripción", "Eliminado el"}, filas)
}
