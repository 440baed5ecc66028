package dto

import (
	"testing"

	"order-workflow-service/internal/model"
)

func validInit() InitStepperRequest {
	return InitStepperRequest{
		Control: model.ControlData{
			Steps: []model.StepDefinition{
				{ID: model.StepReview, No: 1, Name: "مراجعة"},
				{ID: model.StepConfirmed, No: 2, Name: "تم التأكيد"},
			},
			CurrentUser: model.CurrentUser{IDUser: "u1"},
		},
		Orders: []model.Order{{OrderKey: "o1", UserKey: "u1"}},
	}
}

func TestValidateInit(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*InitStepperRequest)
		wantErr bool
	}{
		{"valid payload", func(*InitStepperRequest) {}, false},
		{"missing user id", func(r *InitStepperRequest) { r.Control.CurrentUser.IDUser = "" }, true},
		{"no steps", func(r *InitStepperRequest) { r.Control.Steps = nil }, true},
		{"no orders", func(r *InitStepperRequest) { r.Orders = nil }, true},
		{"step without id", func(r *InitStepperRequest) { r.Control.Steps[0].ID = "" }, true},
		{"step number zero", func(r *InitStepperRequest) { r.Control.Steps[0].No = 0 }, true},
		{"duplicate step id", func(r *InitStepperRequest) { r.Control.Steps[1].ID = r.Control.Steps[0].ID }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validInit()
			tc.mutate(&req)
			err := ValidateInit(req)
			if (err != nil) != tc.wantErr {
				t.Errorf("err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}
