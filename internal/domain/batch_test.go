package domain

import (
	"testing"
	"time"
)

func TestBatchEarliestAddedAndPickup(t *testing.T) {
	base := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	b := Batch{
		Slot: "12PM-3PM",
		Orders: []Order{
			{OrderID: "1", Pickup: Coordinates{Lat: 1, Lon: 2}, DateAdded: base.Add(20 * time.Minute)},
			{OrderID: "2", Pickup: Coordinates{Lat: 3, Lon: 4}, DateAdded: base},
			{OrderID: "3", Pickup: Coordinates{Lat: 5, Lon: 6}, DateAdded: base.Add(5 * time.Minute)},
		},
	}

	earliest, err := b.EarliestAdded()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !earliest.Equal(base) {
		t.Fatalf("earliest = %v, want %v", earliest, base)
	}

	pickup, err := b.Pickup()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pickup != (Coordinates{Lat: 1, Lon: 2}) {
		t.Fatalf("pickup = %+v, want first order's pickup", pickup)
	}

	if _, err := (Batch{}).Pickup(); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestDriverPools(t *testing.T) {
	drivers := []Driver{
		{Name: "Ali", Shift: "9AM-12PM"},
		{Name: "Spare 1", Shift: "Any", IsSpare: true},
		{Name: "Omar", Shift: "9AM-12PM"},
		{Name: "Sara", Shift: "12PM-3PM"},
	}

	shift := ForShift(drivers, "9AM-12PM")
	if len(shift) != 2 || shift[0].Name != "Ali" || shift[1].Name != "Omar" {
		t.Fatalf("ForShift = %+v", shift)
	}

	spares := Spares(drivers)
	if len(spares) != 1 || spares[0].Name != "Spare 1" {
		t.Fatalf("Spares = %+v", spares)
	}
}
