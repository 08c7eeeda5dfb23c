package routing

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/metrics"
	"delivery-assign-service/internal/platform/obs"
	"delivery-assign-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

type MapboxOptions struct {
	BaseURL string
	Profile string
	// Outbound requests per second; <= 0 disables limiting.
	RPS         float64
	HTTPTimeout time.Duration
}

// MapboxProvider implements RouteInfoProvider using the Mapbox Directions
// and Optimization (v1) APIs.
//
// It coordinates:
//   - Persistent travel estimate caching
//   - Outbound rate limiting
//   - Mapping of provider responses onto the engine's contracts
//
// The provider is safe for concurrent use.
type MapboxProvider struct {
	session     *http.Client
	token       string
	baseURL     string
	profile     string
	limiter     *rate.Limiter
	travelCache ports.TravelCache
}

func NewMapboxProvider(
	token string,
	travelCache ports.TravelCache,
	opts MapboxOptions,
) (*MapboxProvider, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("mapbox access token is empty")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultMapboxBaseURL
	}
	profile := opts.Profile
	if profile == "" {
		profile = "mapbox/driving"
	}
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RPS > 0 {
		burst := int(math.Ceil(opts.RPS))
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	provider := &MapboxProvider{
		session:     &http.Client{Timeout: timeout},
		token:       token,
		baseURL:     baseURL,
		profile:     profile,
		limiter:     limiter,
		travelCache: travelCache,
	}

	return provider, nil
}

// Return the driving estimate between two points, consulting the cache first.
// Fresh finite results are written back; cache failures are logged only.
func (m *MapboxProvider) GetTravel(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.TravelResult, err error) {
	defer obs.Time(ctx, "mapbox.GetTravel")(&err)

	if err := origin.Validate(); err != nil {
		return ports.TravelResult{}, fmt.Errorf("get travel: origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return ports.TravelResult{}, fmt.Errorf("get travel: destination: %w", err)
	}

	if m.travelCache != nil {
		cached, err := m.travelCache.Get(ctx, origin, destination)
		switch {
		case err == nil:
			metrics.TravelCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		case errors.Is(err, ports.ErrCacheMiss):
			metrics.TravelCacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.TravelCacheLookups.WithLabelValues("error").Inc()
			log.Printf("travel cache read failed: %v", err)
		}
	}

	result, err := m.fetchDirections(ctx, origin, destination)
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf("get travel %s -> %s: %w", origin.LonLat(), destination.LonLat(), err)
	}

	if m.travelCache != nil && !math.IsInf(result.DurationMinutes, 0) {
		if err := m.travelCache.Put(ctx, origin, destination, result); err != nil {
			log.Printf("travel cache write failed: %v", err)
		}
	}

	return result, nil
}

// Return the visiting order of stops for a one-way trip from origin.
func (m *MapboxProvider) GetOptimizedOrder(
	ctx context.Context,
	origin domain.Coordinates,
	stops []domain.Coordinates,
) (_ []int, err error) {
	defer obs.Time(ctx, "mapbox.GetOptimizedOrder")(&err)

	if len(stops) == 0 {
		return []int{}, nil
	}
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("get optimized order: origin: %w", err)
	}
	for i, s := range stops {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("get optimized order: stop %d: %w", i, err)
		}
	}

	order, err := m.fetchOptimizedTrip(ctx, origin, stops)
	if err != nil {
		return nil, fmt.Errorf("get optimized order from %s: %w", origin.LonLat(), err)
	}
	return order, nil
}
