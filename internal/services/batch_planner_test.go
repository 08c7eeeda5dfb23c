package services

import (
	"delivery-assign-service/internal/domain"
	"fmt"
	"testing"
)

func makeOrders(slot string, n int) []domain.Order {
	out := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Order{
			OrderID:  fmt.Sprintf("O%d", i+1),
			TimeSlot: slot,
		})
	}
	return out
}

func TestPlanBatchesPositionalPairingDropsExcess(t *testing.T) {
	drivers := []domain.Driver{
		{Name: "Ali", Shift: "9AM-12PM"},
		{Name: "Sara", Shift: "2PM-5PM"},
		{Name: "Omar", Shift: "9AM-12PM"},
	}

	plan, err := PlanBatches("9AM-12PM", makeOrders("9AM-12PM", 7), drivers, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Planned) != 2 {
		t.Fatalf("expected 2 planned batches, got %d", len(plan.Planned))
	}
	if plan.Planned[0].Driver.Name != "Ali" || plan.Planned[1].Driver.Name != "Omar" {
		t.Fatalf("drivers = %q, %q; want Ali, Omar", plan.Planned[0].Driver.Name, plan.Planned[1].Driver.Name)
	}
	if got := plan.Planned[0].Batch.Size(); got != 3 {
		t.Fatalf("first batch size = %d, want 3", got)
	}
	if got := plan.Planned[1].Batch.Orders[0].OrderID; got != "O4" {
		t.Fatalf("second batch starts with %q, want O4", got)
	}

	if len(plan.Dropped) != 1 || plan.Dropped[0].Size() != 1 {
		t.Fatalf("expected one dropped batch of size 1, got %+v", plan.Dropped)
	}
	if plan.Dropped[0].Orders[0].OrderID != "O7" {
		t.Fatalf("dropped order = %q, want O7", plan.Dropped[0].Orders[0].OrderID)
	}
	if plan.SparePool {
		t.Fatal("expected dedicated drivers, not the spare pool")
	}
}

func TestPlanBatchesFallsBackToSpares(t *testing.T) {
	drivers := []domain.Driver{
		{Name: "Ali", Shift: "9AM-12PM"},
		{Name: "Spare 1", Shift: "any", IsSpare: true},
	}

	plan, err := PlanBatches("6PM-9PM", makeOrders("6PM-9PM", 2), drivers, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !plan.SparePool {
		t.Fatal("expected spare pool to be used")
	}
	if len(plan.Planned) != 1 {
		t.Fatalf("expected 1 planned batch, got %d", len(plan.Planned))
	}
	pb := plan.Planned[0]
	if pb.Driver.Name != "Spare 1" || !pb.UsedSpare {
		t.Fatalf("planned batch = %+v, want Spare 1 with UsedSpare", pb)
	}
}

func TestPlanBatchesDedicatedDriverNotMarkedSpare(t *testing.T) {
	drivers := []domain.Driver{
		{Name: "Spare Ali", Shift: "9AM-12PM", IsSpare: true},
	}

	plan, err := PlanBatches("9AM-12PM", makeOrders("9AM-12PM", 1), drivers, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.SparePool {
		t.Fatal("shift match must take precedence over the spare pool")
	}
	// UsedSpare follows the driver's flag, even on a shift match.
	if !plan.Planned[0].UsedSpare {
		t.Fatal("expected UsedSpare to mirror Driver.IsSpare")
	}
}

func TestPlanBatchesNoDriversDropsAll(t *testing.T) {
	plan, err := PlanBatches("9AM-12PM", makeOrders("9AM-12PM", 4), nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Planned) != 0 {
		t.Fatalf("expected no planned batches, got %d", len(plan.Planned))
	}
	if len(plan.Dropped) != 2 {
		t.Fatalf("expected 2 dropped batches, got %d", len(plan.Dropped))
	}
}

func TestPlanBatchesRejectsBadBatchSize(t *testing.T) {
	if _, err := PlanBatches("9AM-12PM", makeOrders("9AM-12PM", 1), nil, 0); err == nil {
		t.Fatal("expected error for batch size 0")
	}
}

func TestPlanBatchesEveryOrderAtMostOnce(t *testing.T) {
	drivers := []domain.Driver{{Name: "A", Shift: "s"}, {Name: "B", Shift: "s"}}
	orders := makeOrders("s", 5)

	plan, err := PlanBatches("s", orders, drivers, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]int{}
	for _, pb := range plan.Planned {
		for _, o := range pb.Batch.Orders {
			seen[o.OrderID]++
		}
	}
	for _, b := range plan.Dropped {
		for _, o := range b.Orders {
			seen[o.OrderID]++
		}
	}
	for _, o := range orders {
		if seen[o.OrderID] != 1 {
			t.Fatalf("order %s seen %d times", o.OrderID, seen[o.OrderID])
		}
	}
}
