package domain

import (
	"errors"
	"time"
)

// Batch is a group of orders from one slot delivered together by one driver.
// Orders keep their arrival sequence; visiting order is decided later by
// the route optimizer.
type Batch struct {
	Slot   string
	Orders []Order
}

func (b Batch) Size() int { return len(b.Orders) }

// Pickup is the location the batch departs from: the first order's pickup.
func (b Batch) Pickup() (Coordinates, error) {
	if len(b.Orders) == 0 {
		return Coordinates{}, errors.New("batch pickup: batch is empty")
	}
	return b.Orders[0].Pickup, nil
}

// EarliestAdded returns the minimum DateAdded among the batch's orders.
func (b Batch) EarliestAdded() (time.Time, error) {
	if len(b.Orders) == 0 {
		return time.Time{}, errors.New("batch earliest added: batch is empty")
	}
	earliest := b.Orders[0].DateAdded
	for _, o := range b.Orders[1:] {
		if o.DateAdded.Before(earliest) {
			earliest = o.DateAdded
		}
	}
	return earliest, nil
}

// Destinations lists delivery locations in batch order.
func (b Batch) Destinations() []Coordinates {
	out := make([]Coordinates, 0, len(b.Orders))
	for _, o := range b.Orders {
		out = append(out, o.Delivery)
	}
	return out
}
