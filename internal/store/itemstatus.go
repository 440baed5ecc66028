package store

import (
	"context"
	"fmt"

	"order-workflow-service/internal/model"
)

// ItemStatusStore keeps the latest status per product key. No history is
// retained; absence means pending.
type ItemStatusStore struct {
	kv        KV
	namespace string
}

// NewItemStatusStore scopes the store to one order so two orders never
// collide in the backing KV.
func NewItemStatusStore(kv KV, orderKey string) *ItemStatusStore {
	return &ItemStatusStore{kv: kv, namespace: "stepper_items_" + orderKey}
}

func (s *ItemStatusStore) Load(ctx context.Context, productKey string) (model.ItemStatus, error) {
	value, ok, err := s.kv.Get(ctx, s.namespace, productKey)
	if err != nil {
		return "", fmt.Errorf("load item status: %w", err)
	}
	if !ok {
		return model.StatusPending, nil
	}
	status := model.ItemStatus(value)
	if !status.Valid() {
		// A corrupt record is treated as unset rather than poisoning the views.
		return model.StatusPending, nil
	}
	return status, nil
}

// Save persists the status. Writing the value already stored is a no-op,
// so a double save never produces a second side effect.
func (s *ItemStatusStore) Save(ctx context.Context, productKey string, status model.ItemStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid item status %q", status)
	}
	current, err := s.Load(ctx, productKey)
	if err != nil {
		return err
	}
	if current == status {
		return nil
	}
	if err := s.kv.Set(ctx, s.namespace, productKey, string(status)); err != nil {
		return fmt.Errorf("save item status: %w", err)
	}
	return nil
}

func (s *ItemStatusStore) ListAll(ctx context.Context) (map[string]model.ItemStatus, error) {
	raw, err := s.kv.List(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("list item statuses: %w", err)
	}
	out := map[string]model.ItemStatus{}
	for key, value := range raw {
		status := model.ItemStatus(value)
		if status.Valid() {
			out[key] = status
		}
	}
	return out, nil
}
