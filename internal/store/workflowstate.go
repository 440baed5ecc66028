package store

import (
	"context"
	"encoding/json"
	"fmt"

	"order-workflow-service/internal/model"
)

const workflowStateKey = "state"

// WorkflowStateStore persists the order-level phase pointer. The namespace
// mirrors the legacy "stepper_app_data_<order>" storage key so existing
// records stay readable.
type WorkflowStateStore struct {
	kv        KV
	namespace string
}

func NewWorkflowStateStore(kv KV, orderKey string) *WorkflowStateStore {
	return &WorkflowStateStore{kv: kv, namespace: "stepper_app_data_" + orderKey}
}

// Load returns (nil, nil) when no state has been persisted yet.
func (s *WorkflowStateStore) Load(ctx context.Context) (*model.WorkflowState, error) {
	value, ok, err := s.kv.Get(ctx, s.namespace, workflowStateKey)
	if err != nil {
		return nil, fmt.Errorf("load workflow state: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var state model.WorkflowState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		return nil, fmt.Errorf("decode workflow state: %w", err)
	}
	return &state, nil
}

func (s *WorkflowStateStore) Save(ctx context.Context, state model.WorkflowState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode workflow state: %w", err)
	}
	if err := s.kv.Set(ctx, s.namespace, workflowStateKey, string(encoded)); err != nil {
		return fmt.Errorf("save workflow state: %w", err)
	}
	return nil
}
