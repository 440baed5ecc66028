package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"order-workflow-service/internal/model"
)

// SnapshotSource exposes the workflow state held by the parent context.
// A (nil, nil) return means the parent has nothing to reconcile against.
type SnapshotSource interface {
	FetchWorkflowState(ctx context.Context) (*model.WorkflowState, error)
}

// Synchronizer polls the parent snapshot on a fixed interval and hands it
// to the engine for reconciliation. The external copy always wins; when
// the engine is busy with a user action the tick is skipped and the next
// one picks the divergence up.
type Synchronizer struct {
	engine   *Engine
	source   SnapshotSource
	interval time.Duration
	stop     chan struct{}
	log      *logrus.Logger
}

func NewSynchronizer(engine *Engine, source SnapshotSource, interval time.Duration, log *logrus.Logger) *Synchronizer {
	return &Synchronizer{
		engine:   engine,
		source:   source,
		interval: interval,
		stop:     make(chan struct{}),
		log:      log,
	}
}

func (s *Synchronizer) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.tick(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop clears the interval. That is the only teardown the loop needs.
func (s *Synchronizer) Stop() {
	close(s.stop)
}

func (s *Synchronizer) tick(ctx context.Context) {
	external, err := s.source.FetchWorkflowState(ctx)
	if err != nil {
		s.log.WithError(err).Warn("poll: fetching parent workflow state failed")
		return
	}
	changed, err := s.engine.Reconcile(ctx, external)
	if err != nil {
		s.log.WithError(err).Warn("poll: reconciliation failed")
		return
	}
	if changed {
		s.log.Info("poll: local workflow state overwritten from parent")
	}
}
