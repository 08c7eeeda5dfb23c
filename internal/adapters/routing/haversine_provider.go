package routing

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/ports"
	"errors"
	"fmt"
	"math"
)

// HaversineProvider is an offline RouteInfoProvider.
//
// Travel is the great-circle distance stretched by a detour factor and driven
// at a constant average speed. Ordering uses a greedy nearest-neighbor walk.
// It does not attempt global route optimization; it exists so the service can
// run without a routing API account and yields deterministic answers.
type HaversineProvider struct {
	speedKmh     float64
	detourFactor float64
}

func NewHaversineProvider(speedKmh, detourFactor float64) (*HaversineProvider, error) {
	if speedKmh <= 0 {
		return nil, errors.New("haversine provider: speed must be positive")
	}
	if detourFactor < 1 {
		return nil, errors.New("haversine provider: detour factor must be >= 1")
	}
	return &HaversineProvider{speedKmh: speedKmh, detourFactor: detourFactor}, nil
}

func (h *HaversineProvider) GetTravel(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.TravelResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.TravelResult{}, err
	}
	if err := origin.Validate(); err != nil {
		return ports.TravelResult{}, fmt.Errorf("haversine travel: origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return ports.TravelResult{}, fmt.Errorf("haversine travel: destination: %w", err)
	}

	km := haversineKm(origin, destination) * h.detourFactor
	return ports.TravelResult{
		DurationMinutes: km / h.speedKmh * 60,
		DistanceKm:      km,
	}, nil
}

// Order stops greedily by nearest next stop, starting from origin. The last
// stop is pinned as the trip's end, matching a one-way trip whose
// destination is the final coordinate.
func (h *HaversineProvider) GetOptimizedOrder(
	ctx context.Context,
	origin domain.Coordinates,
	stops []domain.Coordinates,
) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return []int{}, nil
	}

	last := len(stops) - 1
	remaining := make(map[int]struct{}, last)
	for i := 0; i < last; i++ {
		remaining[i] = struct{}{}
	}

	current := origin
	order := make([]int, 0, len(stops))

	for len(remaining) > 0 {
		best := -1
		minDist := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		for i := range remaining {
			d := haversineKm(current, stops[i])
			// Tie-breaker keeps ordering deterministic when distances are equal.
			if d < minDist || (d == minDist && (best == -1 || i < best)) {
				minDist = d
				best = i
			}
		}

		if best == -1 {
			return nil, errors.New("haversine optimize: failed to select next stop")
		}

		order = append(order, best)
		delete(remaining, best)
		current = stops[best]
	}

	return append(order, last), nil
}

func haversineKm(a, b domain.Coordinates) float64 {
	const earthRadiusKm = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
}
