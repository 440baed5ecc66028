package workflow

import (
	"strings"

	"order-workflow-service/internal/model"
)

// DeliveryContact is one courier in display form.
type DeliveryContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ParseDeliveryInfo normalizes the singular/array courier fields into a
// uniform contact list. A single phone is shared across all names; a
// missing phone becomes "N/A". When only delivery keys exist they are
// joined and shown as the name. No courier info yields an empty list.
func ParseDeliveryInfo(delivery *model.SupplierDelivery) []DeliveryContact {
	if delivery == nil {
		return nil
	}
	names := delivery.DeliveryName
	phones := delivery.DeliveryPhone

	phoneAt := func(i int) string {
		if i < len(phones) && phones[i] != "" {
			return phones[i]
		}
		if len(phones) == 1 && phones[0] != "" {
			return phones[0]
		}
		return "N/A"
	}

	if len(names) > 0 {
		out := make([]DeliveryContact, 0, len(names))
		for i, name := range names {
			out = append(out, DeliveryContact{Name: name, Phone: phoneAt(i)})
		}
		return out
	}
	if len(delivery.DeliveryKey) > 0 {
		return []DeliveryContact{{
			Name:  strings.Join(delivery.DeliveryKey, ", "),
			Phone: "N/A",
		}}
	}
	return nil
}

// ConfirmationProduct is a deduplicated line item annotated for the
// seller confirmation view.
type ConfirmationProduct struct {
	ProductKey   string            `json:"product_key"`
	ProductName  string            `json:"product_name"`
	DeliveryInfo []DeliveryContact `json:"delivery_info"`
	Note         string            `json:"note"`
}

// ConfirmationProducts returns the seller-owned items (all items for
// admin), deduplicated by product key in first-seen order. A foreign
// seller's item is excluded silently, it never produces an error.
func ConfirmationProducts(orders []model.Order, sellerID string, role model.Role) []ConfirmationProduct {
	var out []ConfirmationProduct
	seen := map[string]bool{}
	for _, order := range orders {
		for _, item := range order.Items {
			if role != model.RoleAdmin && item.SellerKey != sellerID {
				continue
			}
			if seen[item.ProductKey] {
				continue
			}
			seen[item.ProductKey] = true
			out = append(out, ConfirmationProduct{
				ProductKey:   item.ProductKey,
				ProductName:  item.ProductName,
				DeliveryInfo: ParseDeliveryInfo(item.SupplierDelivery),
				Note:         item.Note,
			})
		}
	}
	return out
}

// RejectedProducts returns the seller-owned items currently rejected.
func RejectedProducts(orders []model.Order, statuses map[string]model.ItemStatus, sellerID string, role model.Role) []model.OrderItem {
	var out []model.OrderItem
	for _, order := range orders {
		for _, item := range order.Items {
			isOwner := role == model.RoleAdmin || item.SellerKey == sellerID
			if isOwner && statusOf(statuses, item.ProductKey) == model.StatusRejected {
				out = append(out, item)
			}
		}
	}
	return out
}

// ShippableProduct carries the item plus its parsed courier contacts.
type ShippableProduct struct {
	model.OrderItem
	DeliveryInfo []DeliveryContact `json:"delivery_info"`
}

// ShippableProducts returns the items eligible for the shipping view:
// status confirmed, shipped or delivered. Couriers see items across every
// seller; sellers only their own; admin everything.
func ShippableProducts(orders []model.Order, statuses map[string]model.ItemStatus, sellerID string, role model.Role) []ShippableProduct {
	var out []ShippableProduct
	for _, order := range orders {
		for _, item := range order.Items {
			visible := role == model.RoleAdmin ||
				role == model.RoleCourier ||
				(role == model.RoleSeller && item.SellerKey == sellerID)
			if !visible {
				continue
			}
			switch statusOf(statuses, item.ProductKey) {
			case model.StatusConfirmed, model.StatusShipped, model.StatusDelivered:
				out = append(out, ShippableProduct{
					OrderItem:    item,
					DeliveryInfo: ParseDeliveryInfo(item.SupplierDelivery),
				})
			}
		}
	}
	return out
}
