package domain

import "time"

// Represents a single delivery order as ingested from the upload.
// An Order is picked up at Pickup and handed over at Delivery within
// the window named by TimeSlot. Orders are never mutated after ingestion.
type Order struct {
	OrderID   string
	Pickup    Coordinates
	Delivery  Coordinates
	DateAdded time.Time
	TimeSlot  string
}
