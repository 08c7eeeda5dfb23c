package services

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/ports"
	"math"
	"testing"
	"time"
)

// blockingProvider never answers before the caller's deadline.
type blockingProvider struct{}

func (blockingProvider) GetTravel(ctx context.Context, _, _ domain.Coordinates) (ports.TravelResult, error) {
	<-ctx.Done()
	return ports.TravelResult{}, ctx.Err()
}

func (blockingProvider) GetOptimizedOrder(ctx context.Context, _ domain.Coordinates, _ []domain.Coordinates) ([]int, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixedProvider struct {
	travel ports.TravelResult
	order  []int
}

func (f fixedProvider) GetTravel(context.Context, domain.Coordinates, domain.Coordinates) (ports.TravelResult, error) {
	return f.travel, nil
}

func (f fixedProvider) GetOptimizedOrder(context.Context, domain.Coordinates, []domain.Coordinates) ([]int, error) {
	return f.order, nil
}

func TestRouteInfoTimeoutBecomesUnreachable(t *testing.T) {
	info := routeInfo{provider: blockingProvider{}, timeout: 20 * time.Millisecond}

	start := time.Now()
	res := info.travel(context.Background(), hub, d1)
	if !math.IsInf(res.DurationMinutes, 1) || !math.IsInf(res.DistanceKm, 1) {
		t.Fatalf("expected Unreachable, got %+v", res)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout was not applied")
	}

	if order := info.optimizedOrder(context.Background(), hub, []domain.Coordinates{d1}); order != nil {
		t.Fatalf("expected nil ordering, got %v", order)
	}
}

func TestRouteInfoRejectsMalformedAnswers(t *testing.T) {
	info := routeInfo{
		provider: fixedProvider{travel: ports.TravelResult{DurationMinutes: math.NaN(), DistanceKm: 1}, order: []int{0, 5}},
		timeout:  time.Second,
	}

	if res := info.travel(context.Background(), hub, d1); !math.IsInf(res.DurationMinutes, 1) {
		t.Fatalf("expected NaN travel to become Unreachable, got %+v", res)
	}
	if order := info.optimizedOrder(context.Background(), hub, []domain.Coordinates{d1, d2}); order != nil {
		t.Fatalf("expected out-of-range ordering to be rejected, got %v", order)
	}
}

func TestRouteInfoPassesValidAnswers(t *testing.T) {
	info := routeInfo{
		provider: fixedProvider{travel: ports.TravelResult{DurationMinutes: 12.5, DistanceKm: 3}, order: []int{1, 0}},
		timeout:  time.Second,
	}

	if res := info.travel(context.Background(), hub, d1); res.DurationMinutes != 12.5 {
		t.Fatalf("travel = %+v", res)
	}
	order := info.optimizedOrder(context.Background(), hub, []domain.Coordinates{d1, d2})
	if len(order) != 2 || order[0] != 1 {
		t.Fatalf("order = %v", order)
	}
}
