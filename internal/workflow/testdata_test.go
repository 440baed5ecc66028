package workflow

import (
	"order-workflow-service/internal/model"
)

// Shared fixtures for the query and notification tests: one order owned
// by buyer-1, items spread over two sellers and two couriers.
func fixtureOrders() []model.Order {
	return []model.Order{
		{
			OrderKey:    "ord-1",
			UserKey:     "buyer-1",
			TotalAmount: 420,
			Items: []model.OrderItem{
				{
					ProductKey:  "p1",
					ProductName: "Olive Oil 1L",
					SellerKey:   "s1",
					Quantity:    2,
					SupplierDelivery: &model.SupplierDelivery{
						DeliveryKey:   model.StringList{"c1"},
						DeliveryName:  model.StringList{"Courier One"},
						DeliveryPhone: model.StringList{"0100000001"},
					},
				},
				{
					ProductKey:  "p2",
					ProductName: "Dates Box",
					SellerKey:   "s2",
					Quantity:    1,
					Note:        "gift wrap",
					SupplierDelivery: &model.SupplierDelivery{
						DeliveryKey:  model.StringList{"c2"},
						DeliveryName: model.StringList{"Courier Two"},
					},
				},
				{
					ProductKey:  "p3",
					ProductName: "Honey Jar",
					SellerKey:   "s1",
					Quantity:    3,
				},
			},
		},
	}
}

func fixtureControl() model.ControlData {
	return model.ControlData{
		Steps: []model.StepDefinition{
			{ID: model.StepReview, No: 1, Name: "مراجعة"},
			{ID: model.StepConfirmed, No: 2, Name: "تم التأكيد"},
			{ID: model.StepShipped, No: 3, Name: "تم الشحن"},
			{ID: model.StepDelivered, No: 4, Name: "تم التوصيل"},
		},
		CurrentUser: model.CurrentUser{IDUser: "buyer-1", Name: "Buyer One"},
	}
}
