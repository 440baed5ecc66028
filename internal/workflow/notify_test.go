package workflow

import (
	"reflect"
	"testing"

	"order-workflow-service/internal/model"
)

func TestExtractNotificationMetadata(t *testing.T) {
	orders := fixtureOrders()
	control := fixtureControl()

	meta := ExtractNotificationMetadata(orders, control)
	if meta.BuyerKey != "buyer-1" || meta.OrderID != "ord-1" {
		t.Errorf("got %+v", meta)
	}
	if !reflect.DeepEqual(meta.SellerKeys, []string{"s1", "s2"}) {
		t.Errorf("seller keys: %v", meta.SellerKeys)
	}
	if !reflect.DeepEqual(meta.DeliveryKeys, []string{"c1", "c2"}) {
		t.Errorf("delivery keys: %v", meta.DeliveryKeys)
	}
	if meta.UserName != "Buyer One" {
		t.Errorf("user name: %q", meta.UserName)
	}
}

func TestExtractNotificationMetadata_FallsBackToUserID(t *testing.T) {
	control := fixtureControl()
	control.CurrentUser.Name = ""
	meta := ExtractNotificationMetadata(nil, control)
	if meta.UserName != "buyer-1" {
		t.Errorf("got %q", meta.UserName)
	}
	if meta.BuyerKey != "" || meta.OrderID != "" {
		t.Errorf("empty orders must yield empty keys: %+v", meta)
	}
}

func TestRelevantSellerKeys(t *testing.T) {
	orders := fixtureOrders()
	updates := []ItemStatusUpdate{{ProductKey: "p2", Status: model.StatusCancelled}}

	got := RelevantSellerKeys(updates, orders)
	if !reflect.DeepEqual(got, []string{"s2"}) {
		t.Errorf("got %v", got)
	}
}

func TestCheckSubStepConditions(t *testing.T) {
	meta := NotificationMetadata{
		BuyerKey:   "buyer-1",
		SellerKeys: []string{"s1", "s2"},
		OrderID:    "ord-1",
		UserName:   "Buyer One",
	}

	t.Run("cancelled at review targets sellers", func(t *testing.T) {
		statuses := map[string]model.ItemStatus{"p1": model.StatusCancelled}
		sub := CheckSubStepConditions(model.StepReview, statuses, meta)
		if sub == nil {
			t.Fatal("expected notification")
		}
		if sub.StepID != model.StepCancelledBranch || sub.StepName != "ملغي" {
			t.Errorf("got %+v", sub)
		}
		if !reflect.DeepEqual(sub.TargetKeys, []string{"s1", "s2"}) {
			t.Errorf("targets: %v", sub.TargetKeys)
		}
	})

	t.Run("rejected at confirmed targets the buyer not the seller", func(t *testing.T) {
		statuses := map[string]model.ItemStatus{"p2": model.StatusRejected}
		sub := CheckSubStepConditions(model.StepConfirmed, statuses, meta)
		if sub == nil {
			t.Fatal("expected notification")
		}
		if sub.StepID != model.StepRejectedBranch || sub.StepName != "مرفوض" {
			t.Errorf("got %+v", sub)
		}
		if !reflect.DeepEqual(sub.TargetKeys, []string{"buyer-1"}) {
			t.Errorf("targets: %v", sub.TargetKeys)
		}
	})

	t.Run("returned at delivered targets sellers", func(t *testing.T) {
		statuses := map[string]model.ItemStatus{"p3": model.StatusReturned}
		sub := CheckSubStepConditions(model.StepDelivered, statuses, meta)
		if sub == nil {
			t.Fatal("expected notification")
		}
		if sub.StepID != model.StepReturnedBranch || sub.StepName != "مرتجع" {
			t.Errorf("got %+v", sub)
		}
	})

	t.Run("no branch condition yields nil", func(t *testing.T) {
		statuses := map[string]model.ItemStatus{"p1": model.StatusPending}
		for _, stepID := range []string{model.StepReview, model.StepConfirmed, model.StepShipped, model.StepDelivered} {
			if sub := CheckSubStepConditions(stepID, statuses, meta); sub != nil {
				t.Errorf("step %s: unexpected %+v", stepID, sub)
			}
		}
	})

	t.Run("branch status on the wrong phase is ignored", func(t *testing.T) {
		statuses := map[string]model.ItemStatus{"p1": model.StatusCancelled}
		if sub := CheckSubStepConditions(model.StepShipped, statuses, meta); sub != nil {
			t.Errorf("got %+v", sub)
		}
	})
}
