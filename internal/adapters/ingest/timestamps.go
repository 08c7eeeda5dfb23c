package ingest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateAddedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"01/02/2006 15:04",
}

// ParseDateAdded accepts the textual layouts above (read as UTC unless they
// carry an offset) or an Excel serial day number.
func ParseDateAdded(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range dateAddedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("excel serial %q: %w", s, err)
		}
		// Serial fractions carry float noise; snap to the second.
		return t.Round(time.Second), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
