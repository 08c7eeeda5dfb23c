package ports

import (
	"context"
	"delivery-assign-service/internal/domain"
	"errors"
)

// ErrNoTrip is returned when the provider reports no feasible optimized trip.
var ErrNoTrip = errors.New("no feasible trip")

// Travel duration and distance between two locations.
type TravelResult struct {
	DurationMinutes float64
	DistanceKm      float64
}

// Contract for the external routing/optimization service.
type RouteInfoProvider interface {
	// Return the driving estimate from origin to destination.
	GetTravel(ctx context.Context, origin, destination domain.Coordinates) (TravelResult, error)

	// Return stop indices in visiting order for a one-way trip that starts at
	// origin and visits every stop. ErrNoTrip when no trip is feasible.
	GetOptimizedOrder(ctx context.Context, origin domain.Coordinates, stops []domain.Coordinates) ([]int, error)
}
