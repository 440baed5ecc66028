package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringList_AcceptsSingularAndArrayForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want StringList
	}{
		{"single string", `{"delivery_key":"c1"}`, StringList{"c1"}},
		{"array", `{"delivery_key":["c1","c2"]}`, StringList{"c1", "c2"}},
		{"empty string", `{"delivery_key":""}`, nil},
		{"absent", `{}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d SupplierDelivery
			if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(d.DeliveryKey, tc.want) {
				t.Errorf("got %v, want %v", d.DeliveryKey, tc.want)
			}
		})
	}
}

func TestStringList_RejectsNonStringPayload(t *testing.T) {
	var d SupplierDelivery
	if err := json.Unmarshal([]byte(`{"delivery_key":42}`), &d); err == nil {
		t.Fatal("expected error")
	}
}

func TestItemStatusValid(t *testing.T) {
	for _, s := range AllItemStatuses {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ItemStatus("teleported").Valid() {
		t.Error("unknown status accepted")
	}
}

func TestControlDataStepLookups(t *testing.T) {
	c := ControlData{Steps: []StepDefinition{
		{ID: StepReview, No: 1, Name: "مراجعة"},
		{ID: StepShipped, No: 3, Name: "تم الشحن"},
	}}

	if step, ok := c.StepByID(StepShipped); !ok || step.No != 3 {
		t.Errorf("got %+v %v", step, ok)
	}
	if _, ok := c.StepByID("step-bogus"); ok {
		t.Error("unknown id resolved")
	}
	if n := c.StepNoByID("step-bogus"); n != 0 {
		t.Errorf("got %d", n)
	}
}
