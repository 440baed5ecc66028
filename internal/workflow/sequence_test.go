package workflow

import (
	"fmt"
	"strings"
	"testing"

	"order-workflow-service/internal/model"
)

func TestValidateStepSequence_RejectsBackwardOrRepeated(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		current   int
	}{
		{"same step", 2, 2},
		{"one step back", 1, 2},
		{"far back", 1, 4},
		{"zero request", 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateStepSequence(tc.requested, tc.current)
			if res.IsValid {
				t.Fatalf("expected invalid for requested=%d current=%d", tc.requested, tc.current)
			}
			if res.ErrorMessage != msgCannotGoBack {
				t.Errorf("wrong message: %q", res.ErrorMessage)
			}
		})
	}
}

func TestValidateStepSequence_RejectsSkipsAndNamesNextStep(t *testing.T) {
	for current := 0; current <= 3; current++ {
		for requested := current + 2; requested <= current + 4; requested++ {
			res := ValidateStepSequence(requested, current)
			if res.IsValid {
				t.Fatalf("expected invalid for requested=%d current=%d", requested, current)
			}
			want := fmt.Sprintf("رقم %d.", current+1)
			if !strings.Contains(res.ErrorMessage, want) {
				t.Errorf("message %q does not name next step %d", res.ErrorMessage, current+1)
			}
		}
	}
}

func TestValidateStepSequence_AcceptsExactlyNextStep(t *testing.T) {
	for current := 0; current <= 10; current++ {
		res := ValidateStepSequence(current+1, current)
		if !res.IsValid {
			t.Errorf("current=%d: expected valid, got %q", current, res.ErrorMessage)
		}
		if res.ErrorMessage != "" {
			t.Errorf("current=%d: expected empty message", current)
		}
	}
}

func TestValidateStepSequence_SkipMessageExactForm(t *testing.T) {
	// Seller at phase 1 trying to jump straight to phase 3.
	res := ValidateStepSequence(3, 1)
	if res.IsValid {
		t.Fatal("expected invalid")
	}
	want := "يجب تفعيل المراحل بالترتيب. المرحلة التالية المتاحة هي رقم 2."
	if res.ErrorMessage != want {
		t.Errorf("got %q, want %q", res.ErrorMessage, want)
	}
}

func TestNewStepState(t *testing.T) {
	state := NewStepState(model.StepDefinition{ID: model.StepConfirmed, No: 2, Name: "تم التأكيد"})
	if state.StepID != model.StepConfirmed || state.StepNo != 2 || state.Status != "active" {
		t.Errorf("unexpected state: %+v", state)
	}
}
