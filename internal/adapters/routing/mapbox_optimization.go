package routing

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type optimizationResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Waypoints []struct {
		WaypointIndex *int `json:"waypoint_index"`
		TripsIndex    int  `json:"trips_index"`
	} `json:"waypoints"`
	Trips []json.RawMessage `json:"trips"`
}

// fetchOptimizedTrip asks the Optimization API for a one-way trip that starts
// at origin and ends at the last stop. Waypoints come back in input order,
// each carrying its position in the trip; origin is waypoint 0.
func (m *MapboxProvider) fetchOptimizedTrip(
	ctx context.Context,
	origin domain.Coordinates,
	stops []domain.Coordinates,
) ([]int, error) {
	coords := make([]string, 0, 1+len(stops))
	coords = append(coords, origin.LonLat())
	for _, s := range stops {
		coords = append(coords, s.LonLat())
	}

	endpoint := fmt.Sprintf("%s/optimized-trips/v1/%s/%s",
		m.baseURL, m.profile, strings.Join(coords, ";"))

	q := url.Values{}
	q.Set("geometries", "geojson")
	q.Set("roundtrip", "false")
	q.Set("source", "first")
	q.Set("destination", "last")

	req, err := m.newRequest(ctx, endpoint, q)
	if err != nil {
		return nil, err
	}

	resp, err := m.do(req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && strings.Contains(he.Body, "NoTrips") {
			return nil, fmt.Errorf("optimization: %w", ports.ErrNoTrip)
		}
		return nil, fmt.Errorf("optimization request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode optimization response: %w", err)
	}

	switch {
	case tr.Code == "NoTrips" || (tr.Code == "Ok" && len(tr.Trips) == 0):
		return nil, fmt.Errorf("optimization code %q: %w", tr.Code, ports.ErrNoTrip)
	case tr.Code != "Ok":
		return nil, fmt.Errorf("optimization code %q: %s", tr.Code, tr.Message)
	}

	if len(tr.Waypoints) != 1+len(stops) {
		return nil, fmt.Errorf("optimization returned %d waypoints for %d coordinates",
			len(tr.Waypoints), 1+len(stops))
	}

	type visit struct {
		stop     int
		position int
	}
	visits := make([]visit, 0, len(stops))
	for i, wp := range tr.Waypoints[1:] {
		if wp.WaypointIndex == nil {
			return nil, fmt.Errorf("optimization waypoint %d has no waypoint_index", i+1)
		}
		visits = append(visits, visit{stop: i, position: *wp.WaypointIndex})
	}

	// Visit stops by ascending trip position.
	sort.SliceStable(visits, func(a, b int) bool {
		return visits[a].position < visits[b].position
	})

	order := make([]int, 0, len(visits))
	for _, v := range visits {
		order = append(order, v.stop)
	}
	return order, nil
}
