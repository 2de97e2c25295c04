package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"reportes/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueConciliacion = "jobs:conciliacion"

	jobConciliacion = "conciliacion"
	popTimeout      = 5 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// conciliacionPayload is a queued procesar call, including who asked for it.
type conciliacionPayload struct {
	Tipo         service.TipoImportacion `json:"tipo"`
	ID           uuid.UUID               `json:"id"`
	ActorID      uuid.UUID               `json:"actor_id"`
	Username     string                  `json:"username"`
	Privilegiado bool                    `json:"privilegiado"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarConciliacion pushes one procesar job. It satisfies service.Encolador.
func (d *Dispatcher) EncolarConciliacion(ctx context.Context, t service.TrabajoConciliacion) error {
	return d.enqueue(ctx, QueueConciliacion, jobConciliacion, conciliacionPayload{
		Tipo:         t.Tipo,
		ID:           t.ID,
		ActorID:      t.Actor.ID,
		Username:     t.Actor.Username,
		Privilegiado: t.Actor.Privilegiado,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pendientes is the number of conciliation jobs still waiting in the queue.
func Pendientes(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, QueueConciliacion).Result()
}

// Pool consumes the conciliation queue.
type Pool struct {
	rdb *redis.Client
	svc service.ConciliacionService
}

func NewPool(rdb *redis.Client, svc service.ConciliacionService) *Pool {
	return &Pool{rdb: rdb, svc: svc}
}

// Start launches numWorkers goroutines consuming the queue until ctx is done.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Str("queue", QueueConciliacion).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// waits up to popTimeout, then loops to check ctx
		result, err := p.rdb.BRPop(ctx, popTimeout, QueueConciliacion).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Int("worker", id).Err(err).Msg("BRPOP failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.ProcessJob(ctx, result[0], result[1])
	}
}

// ProcessJob runs one raw job. Jobs are never retried: rows that end in
// CONFLICTO wait for a new procesar call, and unexpected failures go to the
// dead letter queue for inspection.
func (p *Pool) ProcessJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "", json.RawMessage(`null`), "json invalido: "+err.Error())
		return
	}
	if job.Type != jobConciliacion {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("unknown job type")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "tipo de trabajo desconocido")
		return
	}

	var pl conciliacionPayload
	if err := json.Unmarshal(job.Payload, &pl); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal conciliacion payload")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "payload invalido: "+err.Error())
		return
	}

	actor := service.Actor{ID: pl.ActorID, Username: pl.Username, Privilegiado: pl.Privilegiado}
	_, err := p.svc.Procesar(ctx, pl.Tipo, pl.ID, actor)

	var conflicto *service.ConflictoReferenciaError
	switch {
	case err == nil:
		log.Info().Str("tipo", string(pl.Tipo)).Str("id", pl.ID.String()).Msg("job conciliacion procesado")
	case errors.As(err, &conflicto):
		log.Info().Str("tipo", string(pl.Tipo)).Str("id", pl.ID.String()).
			Interface("detalles", conflicto.Detalles).Msg("job conciliacion en conflicto")
	case errors.Is(err, service.ErrEstadoInvalido), errors.Is(err, service.ErrNoEncontrado):
		log.Warn().Str("tipo", string(pl.Tipo)).Str("id", pl.ID.String()).Err(err).Msg("job conciliacion descartado")
	default:
		log.Error().Str("tipo", string(pl.Tipo)).Str("id", pl.ID.String()).Err(err).Msg("job conciliacion fallido")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error())
	}
}
