// Package appstate holds the shared control/orders/workflow snapshots.
// Every component reads through here; writes go through the setters only,
// so there is a single writer path for each snapshot.
package appstate

import (
	"context"
	"sync"

	"order-workflow-service/internal/model"
)

type State struct {
	mu       sync.RWMutex
	control  model.ControlData
	orders   []model.Order
	workflow *model.WorkflowState
}

func NewState() *State {
	return &State{}
}

func (s *State) SetControlData(control model.ControlData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.control = control
}

func (s *State) SetOrdersData(orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]model.Order(nil), orders...)
}

// UpdateWorkflowState replaces the workflow pointer mirror.
func (s *State) UpdateWorkflowState(state *model.WorkflowState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil {
		s.workflow = nil
		return
	}
	copied := *state
	s.workflow = &copied
}

func (s *State) ControlData() model.ControlData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.control
}

func (s *State) OrdersData() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Order(nil), s.orders...)
}

func (s *State) WorkflowState() *model.WorkflowState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workflow == nil {
		return nil
	}
	copied := *s.workflow
	return &copied
}

// Gate is the one-shot initialization barrier. The engine waits on it and
// stays inert until the host injects control and orders data; there is no
// default identity to fall back on. No timeout either: whether the host is
// guaranteed to inject within bounded time is unresolved upstream.
type Gate struct {
	state *State
	once  sync.Once
	ready chan struct{}
}

func NewGate(state *State) *Gate {
	return &Gate{state: state, ready: make(chan struct{})}
}

// Inject seeds the snapshots and opens the gate. Later calls still update
// the snapshots but the gate only opens once.
func (g *Gate) Inject(control model.ControlData, orders []model.Order) {
	g.state.SetControlData(control)
	g.state.SetOrdersData(orders)
	g.once.Do(func() { close(g.ready) })
}

func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

// Wait blocks until the gate opens or the context ends.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
