package routing

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/ports"
	"fmt"
)

type MockLeg struct {
	From, To domain.Coordinates
	Minutes  float64
	Km       float64
}

// MockProvider answers from fixed legs. Optimized orders default to input
// order unless overridden per pickup location.
type MockProvider struct {
	m        map[string]ports.TravelResult
	orders   map[string][]int
	noTrip   map[string]bool
	failures map[string]error

	TravelCalls   int
	OptimizeCalls int
}

func NewMockProvider(legs []MockLeg) *MockProvider {
	m := make(map[string]ports.TravelResult, len(legs))
	for _, l := range legs {
		m[legKey(l.From, l.To)] = ports.TravelResult{DurationMinutes: l.Minutes, DistanceKm: l.Km}
	}
	return &MockProvider{
		m:        m,
		orders:   map[string][]int{},
		noTrip:   map[string]bool{},
		failures: map[string]error{},
	}
}

// SetOrder fixes the ordering returned for batches picked up at origin.
func (p *MockProvider) SetOrder(origin domain.Coordinates, order []int) {
	p.orders[origin.LonLat()] = order
}

// SetNoTrip makes optimization from origin report ErrNoTrip.
func (p *MockProvider) SetNoTrip(origin domain.Coordinates) {
	p.noTrip[origin.LonLat()] = true
}

// FailLeg makes the travel estimate from -> to return err.
func (p *MockProvider) FailLeg(from, to domain.Coordinates, err error) {
	p.failures[legKey(from, to)] = err
}

func (p *MockProvider) GetTravel(ctx context.Context, origin, destination domain.Coordinates) (ports.TravelResult, error) {
	p.TravelCalls++

	key := legKey(origin, destination)
	if err, ok := p.failures[key]; ok {
		return ports.TravelResult{}, err
	}
	r, ok := p.m[key]
	if !ok {
		return ports.TravelResult{}, fmt.Errorf("missing leg %s", key)
	}
	return r, nil
}

func (p *MockProvider) GetOptimizedOrder(ctx context.Context, origin domain.Coordinates, stops []domain.Coordinates) ([]int, error) {
	p.OptimizeCalls++

	if p.noTrip[origin.LonLat()] {
		return nil, ports.ErrNoTrip
	}
	if order, ok := p.orders[origin.LonLat()]; ok {
		return append([]int(nil), order...), nil
	}
	order := make([]int, len(stops))
	for i := range order {
		order[i] = i
	}
	return order, nil
}

func legKey(from, to domain.Coordinates) string {
	return from.LonLat() + "|" + to.LonLat()
}
