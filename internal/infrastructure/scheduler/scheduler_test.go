package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Hotel-api/pkg/logger"
)

func TestScheduler_EjecutaPeriodicamente(t *testing.T) {
	s := scheduler.New(logger.Nop())
	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return errors.New("los errores se registran y no detienen el scheduler")
	}))
	assert.Equal(t, 1, s.Len())

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_SpecInvalido(t *testing.T) {
	s := scheduler.New(logger.Nop())
	err := s.Add("roto", "cada hora", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_StopCancelaElContexto(t *testing.T) {
	s := scheduler.New(logger.Nop())
	started := make(chan struct{}, 1)
	var cancelled atomic.Bool
	require.NoError(t, s.Add("largo", "@every 1s", func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}))
	s.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("la tarea no arrancó")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.True(t, cancelled.Load())
}
