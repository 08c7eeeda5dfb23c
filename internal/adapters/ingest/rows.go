package ingest

import (
	"delivery-assign-service/internal/domain"
	"fmt"
	"strconv"
	"strings"
)

// Column names as they appear in the upload, compared after normalizeHeader.
const (
	colDriverName  = "driver name"
	colDriverShift = "driver shift"
	colTimeSlot    = "time slot"
	colDateAdded   = "date added"
	colPickupLat   = "pickup lat"
	colPickupLng   = "pickup lng"
	colDeliveryLat = "delivery lat"
	colDeliveryLng = "delivery lng"
	colOrderID     = "order id"
	colIsSpare     = "is spare"
)

var requiredColumns = []string{
	colDriverName,
	colDriverShift,
	colTimeSlot,
	colDateAdded,
	colPickupLat,
	colPickupLng,
	colDeliveryLat,
	colDeliveryLng,
	colOrderID,
}

// Sheet is the decoded upload: orders in row order and the distinct
// (name, shift) drivers in order of first appearance.
type Sheet struct {
	Orders  []domain.Order
	Drivers []domain.Driver
}

// ParseRows decodes a header row followed by data rows. Blank rows are
// ignored. Any malformed cell fails the whole sheet.
func ParseRows(rows [][]string) (Sheet, error) {
	if len(rows) == 0 {
		return Sheet{}, fmt.Errorf("ingest: sheet is empty: %w", ErrInvalidInput)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return Sheet{}, fmt.Errorf("ingest: missing column %q: %w", c, ErrInvalidInput)
		}
	}
	_, hasSpareCol := idx[colIsSpare]

	sheet := Sheet{Orders: []domain.Order{}, Drivers: []domain.Driver{}}
	seenDriverKeys := make(map[[2]string]struct{})

	for n, row := range rows[1:] {
		line := n + 2
		if blank(row) {
			continue
		}
		cell := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		ord, err := parseOrder(cell)
		if err != nil {
			return Sheet{}, fmt.Errorf("ingest: row %d: %v: %w", line, err, ErrInvalidInput)
		}
		sheet.Orders = append(sheet.Orders, ord)

		name := cell(colDriverName)
		if name == "" {
			continue
		}
		d := domain.Driver{Name: name, Shift: cell(colDriverShift)}
		key := [2]string{d.Name, d.Shift}
		if _, ok := seenDriverKeys[key]; ok {
			continue
		}
		if hasSpareCol && cell(colIsSpare) != "" {
			spare, err := parseBool(cell(colIsSpare))
			if err != nil {
				return Sheet{}, fmt.Errorf("ingest: row %d: is_spare: %v: %w", line, err, ErrInvalidInput)
			}
			d.IsSpare = spare
		} else {
			d.IsSpare = strings.Contains(name, "Spare")
		}
		seenDriverKeys[key] = struct{}{}
		sheet.Drivers = append(sheet.Drivers, d)
	}

	return sheet, nil
}

func parseOrder(cell func(string) string) (domain.Order, error) {
	id := cell(colOrderID)
	if id == "" {
		return domain.Order{}, fmt.Errorf("order_id is empty")
	}
	slot := cell(colTimeSlot)
	if slot == "" {
		return domain.Order{}, fmt.Errorf("order_id=%s: time slot is empty", id)
	}

	added, err := ParseDateAdded(cell(colDateAdded))
	if err != nil {
		return domain.Order{}, fmt.Errorf("order_id=%s: date_added: %w", id, err)
	}

	pickup, err := parseCoordinates(cell(colPickupLat), cell(colPickupLng))
	if err != nil {
		return domain.Order{}, fmt.Errorf("order_id=%s: pickup: %w", id, err)
	}
	delivery, err := parseCoordinates(cell(colDeliveryLat), cell(colDeliveryLng))
	if err != nil {
		return domain.Order{}, fmt.Errorf("order_id=%s: delivery: %w", id, err)
	}

	return domain.Order{
		OrderID:   id,
		Pickup:    pickup,
		Delivery:  delivery,
		DateAdded: added,
		TimeSlot:  slot,
	}, nil
}

func parseCoordinates(lat, lng string) (domain.Coordinates, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("longitude %q: %w", lng, err)
	}
	c := domain.Coordinates{Lon: lo, Lat: la}
	if err := c.Validate(); err != nil {
		return domain.Coordinates{}, err
	}
	return c, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized boolean %q", s)
}

// normalizeHeader folds case, underscores and repeated whitespace so that
// "Delivery lat", "delivery_lat" and " DELIVERY  LAT " all match.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.ReplaceAll(h, "_", " "))
	return strings.Join(strings.Fields(h), " ")
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
