package domain

import "time"

type SLAStatus string

const (
	SLASuccess SLAStatus = "Success"
	SLAFailed  SLAStatus = "Failed"
)

func (s SLAStatus) String() string { return string(s) }

// Represents the outcome for a single delivered order.
// An Assignment is produced once per order that reaches sequence evaluation
// and is never mutated afterwards.
//
// When a leg could not be estimated (or an earlier leg in the same walk
// could not), Unreachable is set and ArrivalTime is the zero time. PickupTime
// is also zero when the unbounded leg came earlier in the walk. Travel and
// distance figures of a failed leg are +Inf.
type Assignment struct {
	OrderID       string
	DriverName    string
	UsedSpare     bool
	PickupTime    time.Time
	TravelMinutes float64
	DistanceKm    float64
	ArrivalTime   time.Time
	Unreachable   bool
	Slot          string
	SLAStatus     SLAStatus
}

// Clock renders t as HH:MM, the format used in exported sheets.
func Clock(t time.Time) string {
	return t.Format("15:04")
}
