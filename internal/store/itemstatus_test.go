package store

import (
	"context"
	"testing"

	"order-workflow-service/internal/model"
)

// countingKV tracks writes so idempotence can be asserted.
type countingKV struct {
	KV
	sets int
}

func (c *countingKV) Set(ctx context.Context, namespace, key, value string) error {
	c.sets++
	return c.KV.Set(ctx, namespace, key, value)
}

func TestItemStatusStore_DefaultsToPending(t *testing.T) {
	s := NewItemStatusStore(NewMemoryKV(), "ord-1")
	got, err := s.Load(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got != model.StatusPending {
		t.Errorf("got %q", got)
	}
}

func TestItemStatusStore_RoundTripEveryStatus(t *testing.T) {
	ctx := context.Background()
	s := NewItemStatusStore(NewMemoryKV(), "ord-1")

	for _, status := range model.AllItemStatuses {
		if err := s.Save(ctx, "p1", status); err != nil {
			t.Fatalf("save %q: %v", status, err)
		}
		got, err := s.Load(ctx, "p1")
		if err != nil {
			t.Fatal(err)
		}
		if got != status {
			t.Errorf("round trip %q: got %q", status, got)
		}
	}
}

func TestItemStatusStore_SaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := &countingKV{KV: NewMemoryKV()}
	s := NewItemStatusStore(kv, "ord-1")

	if err := s.Save(ctx, "p1", model.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "p1", model.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	if kv.sets != 1 {
		t.Errorf("expected a single write, got %d", kv.sets)
	}
	got, _ := s.Load(ctx, "p1")
	if got != model.StatusCancelled {
		t.Errorf("got %q", got)
	}
}

func TestItemStatusStore_RejectsInvalidStatus(t *testing.T) {
	s := NewItemStatusStore(NewMemoryKV(), "ord-1")
	if err := s.Save(context.Background(), "p1", model.ItemStatus("exploded")); err == nil {
		t.Fatal("expected error")
	}
}

func TestItemStatusStore_OrdersDoNotCollide(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a := NewItemStatusStore(kv, "ord-a")
	b := NewItemStatusStore(kv, "ord-b")

	if err := a.Save(ctx, "p1", model.StatusShipped); err != nil {
		t.Fatal(err)
	}
	got, err := b.Load(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got != model.StatusPending {
		t.Errorf("order-b leaked order-a's status: %q", got)
	}
}

func TestItemStatusStore_ListAll(t *testing.T) {
	ctx := context.Background()
	s := NewItemStatusStore(NewMemoryKV(), "ord-1")
	_ = s.Save(ctx, "p1", model.StatusConfirmed)
	_ = s.Save(ctx, "p2", model.StatusRejected)

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all["p1"] != model.StatusConfirmed || all["p2"] != model.StatusRejected {
		t.Errorf("got %v", all)
	}
}

func TestWorkflowStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewWorkflowStateStore(NewMemoryKV(), "ord-1")

	state, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != nil {
		t.Fatalf("expected nil before first save, got %+v", state)
	}

	want := model.WorkflowState{StepID: model.StepConfirmed, StepNo: 2, Status: "active"}
	if err := s.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	state, err = s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state == nil || *state != want {
		t.Errorf("got %+v, want %+v", state, want)
	}
}

func TestWorkflowStateStore_OrdersDoNotCollide(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a := NewWorkflowStateStore(kv, "ord-a")
	b := NewWorkflowStateStore(kv, "ord-b")

	_ = a.Save(ctx, model.WorkflowState{StepID: model.StepShipped, StepNo: 3, Status: "active"})
	state, err := b.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != nil {
		t.Errorf("order-b leaked order-a's state: %+v", state)
	}
}
