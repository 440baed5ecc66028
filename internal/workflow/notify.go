package workflow

import (
	"order-workflow-service/internal/model"
)

// NotificationMetadata is the affected-party index extracted from the
// orders in context. The workflow operates on one order's items at a time
// but the input stays a slice for forward compatibility with batches, so
// buyer key and order id come from the first order.
type NotificationMetadata struct {
	BuyerKey     string
	DeliveryKeys []string
	SellerKeys   []string
	OrderID      string
	UserName     string
}

// ExtractNotificationMetadata deduplicates seller and courier keys across
// every item of every order, preserving first-seen order.
func ExtractNotificationMetadata(orders []model.Order, control model.ControlData) NotificationMetadata {
	meta := NotificationMetadata{}

	if len(orders) > 0 {
		meta.BuyerKey = orders[0].UserKey
		meta.OrderID = orders[0].OrderKey
	}

	seenDelivery := map[string]bool{}
	seenSeller := map[string]bool{}
	for _, order := range orders {
		for _, item := range order.Items {
			if item.SupplierDelivery != nil {
				for _, key := range item.SupplierDelivery.DeliveryKey {
					if key != "" && !seenDelivery[key] {
						seenDelivery[key] = true
						meta.DeliveryKeys = append(meta.DeliveryKeys, key)
					}
				}
			}
			if item.SellerKey != "" && !seenSeller[item.SellerKey] {
				seenSeller[item.SellerKey] = true
				meta.SellerKeys = append(meta.SellerKeys, item.SellerKey)
			}
		}
	}

	meta.UserName = control.CurrentUser.Name
	if meta.UserName == "" {
		meta.UserName = control.CurrentUser.IDUser
	}
	return meta
}

// ItemStatusUpdate is one requested status change.
type ItemStatusUpdate struct {
	ProductKey string
	Status     model.ItemStatus
}

// RelevantSellerKeys narrows a seller-key list to the owners of the items
// that were just updated, so a cancellation only pings the sellers it
// actually touches.
func RelevantSellerKeys(updates []ItemStatusUpdate, orders []model.Order) []string {
	updated := map[string]bool{}
	for _, u := range updates {
		updated[u.ProductKey] = true
	}
	var out []string
	seen := map[string]bool{}
	for _, order := range orders {
		for _, item := range order.Items {
			if updated[item.ProductKey] && item.SellerKey != "" && !seen[item.SellerKey] {
				seen[item.SellerKey] = true
				out = append(out, item.SellerKey)
			}
		}
	}
	return out
}

// SubStepNotification describes a branch condition that must be announced
// out of band. TargetKeys carries the recipients.
type SubStepNotification struct {
	StepID     string
	StepName   string
	TargetKeys []string
	OrderID    string
	UserName   string
}

// CheckSubStepConditions encodes the three branch rules, evaluated over a
// status map re-read after the triggering save completed:
//   - review phase + any cancelled item  -> notify sellers
//   - confirmed phase + any rejected item -> notify buyer
//   - delivered phase + any returned item -> notify sellers
func CheckSubStepConditions(activatedStepID string, statuses map[string]model.ItemStatus, meta NotificationMetadata) *SubStepNotification {
	hasStatus := func(want model.ItemStatus) bool {
		for _, s := range statuses {
			if s == want {
				return true
			}
		}
		return false
	}

	switch activatedStepID {
	case model.StepReview:
		if hasStatus(model.StatusCancelled) {
			return &SubStepNotification{
				StepID:     model.StepCancelledBranch,
				StepName:   "ملغي",
				TargetKeys: meta.SellerKeys,
				OrderID:    meta.OrderID,
				UserName:   meta.UserName,
			}
		}
	case model.StepConfirmed:
		if hasStatus(model.StatusRejected) {
			return &SubStepNotification{
				StepID:     model.StepRejectedBranch,
				StepName:   "مرفوض",
				TargetKeys: []string{meta.BuyerKey},
				OrderID:    meta.OrderID,
				UserName:   meta.UserName,
			}
		}
	case model.StepDelivered:
		if hasStatus(model.StatusReturned) {
			return &SubStepNotification{
				StepID:     model.StepReturnedBranch,
				StepName:   "مرتجع",
				TargetKeys: meta.SellerKeys,
				OrderID:    meta.OrderID,
				UserName:   meta.UserName,
			}
		}
	}
	return nil
}
