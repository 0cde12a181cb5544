// Package scheduler tareas periódicas sobre robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Hotel-api/pkg/logger"
)

// Job tarea programada. Recibe un contexto que se cancela al detener el scheduler.
type Job func(ctx context.Context) error

// Scheduler ejecuta Jobs según expresiones cron ("@every 1h", "0 3 * * *").
// Una ejecución no se solapa con la anterior del mismo Job.
type Scheduler struct {
	c      *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	log    *logger.Logger
}

// New crea el scheduler detenido.
func New(log *logger.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{log: log}
	return &Scheduler{
		c:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Add registra job con nombre bajo spec.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.c.AddFunc(spec, func() {
		start := time.Now()
		if err := job(s.ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("tarea programada fallida")
			return
		}
		s.log.Debug().Str("job", name).Dur("elapsed", time.Since(start)).Msg("tarea programada completada")
	})
	if err != nil {
		return fmt.Errorf("programar %s (%q): %w", name, spec, err)
	}
	return nil
}

// Len tareas registradas.
func (s *Scheduler) Len() int { return len(s.c.Entries()) }

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() { s.c.Start() }

// Stop cancela las tareas en curso y espera a que terminen o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapta pkg/logger a cron.Logger.
type cronLogger struct{ log *logger.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
