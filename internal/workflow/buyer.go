package workflow

import (
	"order-workflow-service/internal/model"
)

func statusOf(statuses map[string]model.ItemStatus, productKey string) model.ItemStatus {
	if s, ok := statuses[productKey]; ok {
		return s
	}
	return model.StatusPending
}

// visibleToBuyerSide is the ownership filter shared by the buyer-side
// read views: buyers see their own orders, sellers their own items,
// admin and couriers everything.
func visibleToBuyerSide(order model.Order, item model.OrderItem, userID string, role model.Role) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleBuyer:
		return order.UserKey == userID
	case model.RoleSeller:
		return item.SellerKey == userID
	case model.RoleCourier:
		return true
	default:
		return false
	}
}

// ProductsForReview returns the items a buyer may still toggle at the
// review phase: those whose status is pending or cancelled. Cancelling is
// the only buyer action at this step; the orchestrator computes the lock
// once the global step reaches shipped.
func ProductsForReview(orders []model.Order, statuses map[string]model.ItemStatus, userID string, role model.Role) []model.OrderItem {
	if role != model.RoleBuyer && role != model.RoleAdmin {
		return nil
	}
	var out []model.OrderItem
	for _, order := range orders {
		if role == model.RoleBuyer && order.UserKey != userID {
			continue
		}
		for _, item := range order.Items {
			switch statusOf(statuses, item.ProductKey) {
			case model.StatusPending, model.StatusCancelled:
				out = append(out, item)
			}
		}
	}
	return out
}

// DeliveryProducts returns the items in transit or handed over (shipped or
// delivered), for the read-only delivery confirmation view.
func DeliveryProducts(orders []model.Order, statuses map[string]model.ItemStatus, userID string, role model.Role) []model.OrderItem {
	var out []model.OrderItem
	for _, order := range orders {
		for _, item := range order.Items {
			if !visibleToBuyerSide(order, item, userID, role) {
				continue
			}
			switch statusOf(statuses, item.ProductKey) {
			case model.StatusShipped, model.StatusDelivered:
				out = append(out, item)
			}
		}
	}
	return out
}

// ReturnedProducts returns the items the buyer sent back.
func ReturnedProducts(orders []model.Order, statuses map[string]model.ItemStatus, userID string, role model.Role) []model.OrderItem {
	var out []model.OrderItem
	for _, order := range orders {
		for _, item := range order.Items {
			if !visibleToBuyerSide(order, item, userID, role) {
				continue
			}
			if statusOf(statuses, item.ProductKey) == model.StatusReturned {
				out = append(out, item)
			}
		}
	}
	return out
}

// DeliveryUserDetails is the display info resolved for the delivery
// confirmation view: who bought, and which couriers are carrying.
type DeliveryUserDetails struct {
	BuyerKey string            `json:"buyer_key"`
	OrderKey string            `json:"order_key"`
	Couriers []DeliveryContact `json:"couriers"`
}

// UserDetailsForDelivery resolves buyer and courier display info for the
// given delivery items. Items without courier info simply contribute
// nothing; that is not an error.
func UserDetailsForDelivery(items []model.OrderItem, orders []model.Order) DeliveryUserDetails {
	details := DeliveryUserDetails{}

	if len(items) > 0 {
	lookup:
		for _, order := range orders {
			for _, item := range order.Items {
				if item.ProductKey == items[0].ProductKey {
					details.BuyerKey = order.UserKey
					details.OrderKey = order.OrderKey
					break lookup
				}
			}
		}
	}

	seen := map[string]bool{}
	for _, item := range items {
		for _, contact := range ParseDeliveryInfo(item.SupplierDelivery) {
			if seen[contact.Name] {
				continue
			}
			seen[contact.Name] = true
			details.Couriers = append(details.Couriers, contact)
		}
	}
	return details
}
