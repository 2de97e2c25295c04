package service

import (
	"context"
	"strings"
	"time"

	"reportes/internal/dto"
	"reportes/internal/model"
	"reportes/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Resolution tokens accepted by Resolver.
const (
	ResolucionRestaurar = "RESTAURAR"
	ResolucionIgnorar   = "IGNORAR"
)

// ConflictoService settles restore conflicts. RESTAURAR swaps the two
// entities: the active one goes to the trash and the trashed one comes back.
type ConflictoService interface {
	Resolver(ctx context.Context, id uuid.UUID, resolucion, notas string, actor Actor) (*dto.ResolverConflictoResponse, error)
	Listar(ctx context.Context, filter dto.ConflictoFilter) ([]dto.ConflictoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ConflictoResponse, error)
}

type conflictoService struct {
	conflictos repository.ConflictoRepository
	papelera   repository.PapeleraRepository
	mover      movedor
	ventana    time.Duration
}

// NewConflictoService builds the resolver. ventana must match the one given
// to the papelera service so both detect the same collisions.
func NewConflictoService(conflictos repository.ConflictoRepository, papelera repository.PapeleraRepository, stock StockService, ventana time.Duration) ConflictoService {
	return &conflictoService{
		conflictos: conflictos,
		papelera:   papelera,
		mover:      movedor{papelera: papelera, stock: stock},
		ventana:    ventana,
	}
}

func (s *conflictoService) Resolver(ctx context.Context, id uuid.UUID, resolucion, notas string, actor Actor) (*dto.ResolverConflictoResponse, error) {
	token := strings.ToUpper(strings.TrimSpace(resolucion))
	var resuelto *model.Conflicto

	err := runTx(ctx, s.conflictos.DB(), func(tx *gorm.DB) error {
		c, err := s.conflictos.BloquearTx(tx, id)
		if err != nil {
			return noEncontrado(err)
		}
		if c.Estado != model.ConflictoPendiente {
			return ErrConflictoResuelto
		}

		switch token {
		case ResolucionRestaurar:
			existente, err := bloquear(tx, s.papelera, c.TipoModelo, c.IDExistente)
			if err != nil {
				return err
			}
			borrado, err := bloquear(tx, s.papelera, c.TipoModelo, c.IDBorrado)
			if err != nil {
				return err
			}
			ahora := time.Now().UTC()
			if !existente.EnPapelera() {
				if err := s.mover.borrarTx(tx, existente, ahora); err != nil {
					return err
				}
			}
			if borrado.EnPapelera() {
				// Another conflict may already have restored a twin into
				// this slot. The conflict stays PENDIENTE.
				otro, err := s.papelera.BuscarColisionTx(tx, borrado, s.ventana)
				if err != nil {
					return err
				}
				if otro != nil {
					return ErrConflictoObsoleto
				}
				if err := s.mover.restaurarTx(tx, borrado); err != nil {
					return err
				}
			}
			c.Estado = model.ConflictoResueltoRestaurar
		case ResolucionIgnorar:
			c.Estado = model.ConflictoResueltoIgnorar
		default:
			return ErrResolucionInvalida
		}

		ahora := time.Now().UTC()
		c.ResueltoPorID = &actor.ID
		c.ResueltoPor = &actor.Username
		c.FechaResolucion = &ahora
		if n := strings.TrimSpace(notas); n != "" {
			c.NotasResolucion = &n
		}
		resuelto = c
		return s.conflictos.SaveTx(tx, c)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("conflicto_id", id.String()).Str("tipo", string(resuelto.TipoModelo)).
		Str("resolucion", token).Str("usuario", actor.Username).Msg("conflicto resuelto")
	return &dto.ResolverConflictoResponse{
		Mensaje:   "Conflicto resuelto: " + token,
		Conflicto: conflictoToResponse(resuelto),
	}, nil
}

func (s *conflictoService) Listar(ctx context.Context, filter dto.ConflictoFilter) ([]dto.ConflictoResponse, error) {
	conflictos, err := s.conflictos.List(ctx, repository.ConflictoFiltro{
		Estado:     model.EstadoConflicto(filter.Estado),
		TipoModelo: model.TipoModelo(filter.TipoModelo),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConflictoResponse, 0, len(conflictos))
	for i := range conflictos {
		out = append(out, conflictoToResponse(&conflictos[i]))
	}
	return out, nil
}

func (s *conflictoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ConflictoResponse, error) {
	c, err := s.conflictos.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	resp := conflictoToResponse(c)
	return &resp, nil
}
