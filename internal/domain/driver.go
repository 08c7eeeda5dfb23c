package domain

// Driver available for a shift. Spare drivers form a floating pool used by
// any slot that has no dedicated driver.
type Driver struct {
	Name    string
	Shift   string
	IsSpare bool
}

// Spares returns the spare pool in input order.
func Spares(drivers []Driver) []Driver {
	out := make([]Driver, 0)
	for _, d := range drivers {
		if d.IsSpare {
			out = append(out, d)
		}
	}
	return out
}

// ForShift returns the drivers whose shift label equals slot, in input order.
func ForShift(drivers []Driver, slot string) []Driver {
	out := make([]Driver, 0)
	for _, d := range drivers {
		if d.Shift == slot {
			out = append(out, d)
		}
	}
	return out
}
