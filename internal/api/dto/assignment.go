package dto

import (
	"delivery-assign-service/internal/domain"
	"math"
	"time"
)

// AssignmentResponse is the JSON view of one assignment record. Figures that
// are unbounded (an unreachable leg) are null, since JSON has no infinity.
type AssignmentResponse struct {
	OrderID       string     `json:"order_id"`
	DriverName    string     `json:"driver_name"`
	UsedSpare     bool       `json:"used_spare"`
	PickupTime    *time.Time `json:"pickup_time"`
	PickupClock   string     `json:"pickup_clock,omitempty"`
	TravelMinutes *float64   `json:"travel_time_min"`
	DistanceKm    *float64   `json:"distance_km"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	ArrivalClock  string     `json:"arrival_clock,omitempty"`
	Unreachable   bool       `json:"unreachable"`
	Slot          string     `json:"slot"`
	SLAStatus     string     `json:"sla_status"`
}

func NewAssignmentResponse(a domain.Assignment) AssignmentResponse {
	res := AssignmentResponse{
		OrderID:       a.OrderID,
		DriverName:    a.DriverName,
		UsedSpare:     a.UsedSpare,
		TravelMinutes: finite(a.TravelMinutes),
		DistanceKm:    finite(a.DistanceKm),
		Unreachable:   a.Unreachable,
		Slot:          a.Slot,
		SLAStatus:     a.SLAStatus.String(),
	}
	if !a.PickupTime.IsZero() {
		t := a.PickupTime
		res.PickupTime = &t
		res.PickupClock = domain.Clock(t)
	}
	if !a.ArrivalTime.IsZero() {
		t := a.ArrivalTime
		res.ArrivalTime = &t
		res.ArrivalClock = domain.Clock(t)
	}
	return res
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
