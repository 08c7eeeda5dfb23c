package routing

import (
	"context"
	"delivery-assign-service/internal/domain"
	"math"
	"testing"
)

func TestHaversineTravel(t *testing.T) {
	p, err := NewHaversineProvider(60, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One degree of latitude is ~111.19 km.
	got, err := p.GetTravel(context.Background(), domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.DistanceKm-111.19) > 0.01 {
		t.Fatalf("distance = %v, want ~111.19", got.DistanceKm)
	}
	if math.Abs(got.DurationMinutes-got.DistanceKm) > 1e-9 {
		t.Fatalf("at 60 km/h minutes should equal km, got %v min for %v km", got.DurationMinutes, got.DistanceKm)
	}
}

func TestHaversineOrderNearestNeighborEndsAtLastStop(t *testing.T) {
	p, _ := NewHaversineProvider(30, 1.3)

	origin := domain.Coordinates{Lat: 0, Lon: 0}
	stops := []domain.Coordinates{
		{Lat: 0, Lon: 0.03}, // far
		{Lat: 0, Lon: 0.01}, // nearest
		{Lat: 0, Lon: 0.02}, // pinned end even though it is nearer than stop 0
	}

	order, err := p.GetOptimizedOrder(context.Background(), origin, stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{1, 0, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestNewHaversineProviderValidates(t *testing.T) {
	if _, err := NewHaversineProvider(0, 1.2); err == nil {
		t.Fatal("expected error for zero speed")
	}
	if _, err := NewHaversineProvider(30, 0.5); err == nil {
		t.Fatal("expected error for detour below 1")
	}
}
