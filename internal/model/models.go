// models.go
package model

import (
	"encoding/json"
	"time"
)

// ItemStatus is the per-line-item state, independent of the order-level step.
type ItemStatus string

const (
	StatusPending   ItemStatus = "pending"
	StatusConfirmed ItemStatus = "confirmed"
	StatusShipped   ItemStatus = "shipped"
	StatusDelivered ItemStatus = "delivered"
	StatusReturned  ItemStatus = "returned"
	StatusCancelled ItemStatus = "cancelled"
	StatusRejected  ItemStatus = "rejected"
)

// AllItemStatuses lists every valid status value.
var AllItemStatuses = []ItemStatus{
	StatusPending, StatusConfirmed, StatusShipped, StatusDelivered,
	StatusReturned, StatusCancelled, StatusRejected,
}

func (s ItemStatus) Valid() bool {
	for _, v := range AllItemStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Role of the acting user, resolved from identity plus order ownership.
// Closed set: adding a role means touching every switch over it.
type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleSeller  Role = "seller"
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
)

// Step ids of the fixed global sequence.
const (
	StepReview    = "step-review"
	StepConfirmed = "step-confirmed"
	StepShipped   = "step-shipped"
	StepDelivered = "step-delivered"
)

// Branch views derived from item statuses. These are notification labels
// only, never a value the global step pointer takes.
const (
	StepCancelledBranch = "step-cancelled"
	StepRejectedBranch  = "step-rejected"
	StepReturnedBranch  = "step-returned"
)

// StringList accepts either a single JSON string or an array of strings.
// The upstream order feed emits courier fields both ways.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// SupplierDelivery holds the courier identities attached to an order item.
type SupplierDelivery struct {
	DeliveryKey   StringList `bson:"delivery_key" json:"delivery_key,omitempty"`
	DeliveryName  StringList `bson:"delivery_name" json:"delivery_name,omitempty"`
	DeliveryPhone StringList `bson:"delivery_phone" json:"delivery_phone,omitempty"`
}

// OrderItem identity fields are immutable; only the status (kept in the
// item status store, keyed by product_key) ever changes.
type OrderItem struct {
	ProductKey       string            `bson:"product_key" json:"product_key"`
	ProductName      string            `bson:"product_name" json:"product_name"`
	SellerKey        string            `bson:"seller_key" json:"seller_key"`
	Quantity         int               `bson:"quantity" json:"quantity"`
	Note             string            `bson:"note" json:"note,omitempty"`
	SupplierDelivery *SupplierDelivery `bson:"supplier_delivery,omitempty" json:"supplier_delivery,omitempty"`
}

// Order is owned by the buyer and immutable once created.
type Order struct {
	OrderKey    string      `bson:"order_key" json:"order_key"`
	UserKey     string      `bson:"user_key" json:"user_key"`
	TotalAmount float64     `bson:"total_amount" json:"total_amount"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	Items       []OrderItem `bson:"order_items" json:"order_items"`
}

// StepDefinition is one entry of the ordered global sequence
// (review=1, confirmed=2, shipped=3, delivered=4).
type StepDefinition struct {
	ID   string `bson:"id" json:"id"`
	No   int    `bson:"no" json:"no"`
	Name string `bson:"name" json:"name"`
}

// WorkflowState is the order-level phase pointer. Exactly one live value
// per order; StepNo only ever advances by one per accepted transition.
type WorkflowState struct {
	StepID string `bson:"step_id" json:"stepId"`
	StepNo int    `bson:"step_no" json:"stepNo"`
	Status string `bson:"status" json:"status"`
}

// CurrentUser as supplied by the host in control data. Type is resolved,
// never trusted from the wire.
type CurrentUser struct {
	IDUser string `bson:"id_user" json:"idUser"`
	Name   string `bson:"name" json:"name,omitempty"`
	Type   Role   `bson:"type,omitempty" json:"type,omitempty"`
}

// ControlData carries the step definitions and the current user identity.
type ControlData struct {
	Steps       []StepDefinition `bson:"steps" json:"steps"`
	CurrentUser CurrentUser      `bson:"current_user" json:"currentUser"`
}

// StepByID resolves a step definition by id.
func (c ControlData) StepByID(id string) (StepDefinition, bool) {
	for _, s := range c.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return StepDefinition{}, false
}

// StepNoByID returns the sequence number for a step id, 0 if unknown.
func (c ControlData) StepNoByID(id string) int {
	if s, ok := c.StepByID(id); ok {
		return s.No
	}
	return 0
}
