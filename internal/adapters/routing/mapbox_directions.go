package routing

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/ports"
	"encoding/json"
	"fmt"
	"net/url"
)

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Duration *float64 `json:"duration"`
		Distance *float64 `json:"distance"`
	} `json:"routes"`
}

// fetchDirections retrieves the first driving route between two points.
// Mapbox reports seconds and meters; the engine works in minutes and km.
func (m *MapboxProvider) fetchDirections(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.TravelResult, error) {
	endpoint := fmt.Sprintf("%s/directions/v5/%s/%s;%s",
		m.baseURL, m.profile, origin.LonLat(), destination.LonLat())

	q := url.Values{}
	q.Set("geometries", "geojson")
	q.Set("overview", "false")

	req, err := m.newRequest(ctx, endpoint, q)
	if err != nil {
		return ports.TravelResult{}, err
	}

	resp, err := m.do(req)
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.TravelResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if dr.Code != "" && dr.Code != "Ok" {
		return ports.TravelResult{}, fmt.Errorf("directions code %q: %s", dr.Code, dr.Message)
	}
	if len(dr.Routes) == 0 {
		return ports.TravelResult{}, fmt.Errorf("directions returned no routes")
	}

	route := dr.Routes[0]
	if route.Duration == nil || route.Distance == nil {
		return ports.TravelResult{}, fmt.Errorf("directions returned incomplete route")
	}

	return ports.TravelResult{
		DurationMinutes: *route.Duration / 60,
		DistanceKm:      *route.Distance / 1000,
	}, nil
}
