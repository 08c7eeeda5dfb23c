package services

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/metrics"
	"delivery-assign-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

// Unreachable is the travel estimate used when the provider could not answer.
// Any finite deadline is exceeded by it.
var Unreachable = ports.TravelResult{
	DurationMinutes: math.Inf(1),
	DistanceKm:      math.Inf(1),
}

// routeInfo wraps a RouteInfoProvider with a per-call timeout and turns every
// failure into the structured result the engine works with: an Unreachable
// estimate for travel, a nil ordering for optimization.
type routeInfo struct {
	provider ports.RouteInfoProvider
	timeout  time.Duration
}

func (r routeInfo) travel(ctx context.Context, origin, destination domain.Coordinates) ports.TravelResult {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	res, err := r.provider.GetTravel(callCtx, origin, destination)
	metrics.ProviderLatency.WithLabelValues("travel").Observe(float64(time.Since(start).Milliseconds()))

	if err == nil {
		err = checkTravel(res)
	}
	if err != nil {
		outcome := outcomeOf(err)
		metrics.ProviderCalls.WithLabelValues("travel", outcome).Inc()
		log.Printf("route info: travel %s -> %s unavailable outcome=%s err=%v",
			origin.LonLat(), destination.LonLat(), outcome, err)
		return Unreachable
	}

	metrics.ProviderCalls.WithLabelValues("travel", "ok").Inc()
	return res
}

func (r routeInfo) optimizedOrder(ctx context.Context, origin domain.Coordinates, stops []domain.Coordinates) []int {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	order, err := r.provider.GetOptimizedOrder(callCtx, origin, stops)
	metrics.ProviderLatency.WithLabelValues("optimize").Observe(float64(time.Since(start).Milliseconds()))

	if err == nil {
		err = checkPermutation(order, len(stops))
	}
	if err != nil {
		outcome := outcomeOf(err)
		metrics.ProviderCalls.WithLabelValues("optimize", outcome).Inc()
		log.Printf("route info: optimize from %s stops=%d unavailable outcome=%s err=%v",
			origin.LonLat(), len(stops), outcome, err)
		return nil
	}

	metrics.ProviderCalls.WithLabelValues("optimize", "ok").Inc()
	return order
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ports.ErrNoTrip):
		return "no_trip"
	default:
		return "error"
	}
}

// checkTravel rejects malformed estimates. +Inf is a legitimate answer.
func checkTravel(r ports.TravelResult) error {
	if math.IsNaN(r.DurationMinutes) || math.IsNaN(r.DistanceKm) {
		return errors.New("malformed travel estimate: NaN")
	}
	if r.DurationMinutes < 0 || r.DistanceKm < 0 {
		return fmt.Errorf("malformed travel estimate: negative values %v min %v km", r.DurationMinutes, r.DistanceKm)
	}
	return nil
}

// checkPermutation requires order to visit each of the n stops exactly once.
func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("malformed ordering: got %d indices for %d stops", len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("malformed ordering: index %d out of range", idx)
		}
		if seen[idx] {
			return fmt.Errorf("malformed ordering: index %d repeated", idx)
		}
		seen[idx] = true
	}
	return nil
}
