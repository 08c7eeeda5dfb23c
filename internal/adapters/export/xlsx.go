package export

import (
	"delivery-assign-service/internal/domain"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Assignments"

var header = []string{
	"order_id",
	"driver_name",
	"used_spare",
	"pickup_time",
	"travel_time_min",
	"distance_km",
	"arrival_time",
	"slot",
	"sla_status",
}

const unreachable = "unreachable"

// Row renders one assignment in sheet column order.
func Row(a domain.Assignment) []string {
	usedSpare := "No"
	if a.UsedSpare {
		usedSpare = "Yes"
	}

	return []string{
		a.OrderID,
		a.DriverName,
		usedSpare,
		clockOrUnreachable(a.PickupTime),
		number(a.TravelMinutes),
		number(a.DistanceKm),
		clockOrUnreachable(a.ArrivalTime),
		a.Slot,
		a.SLAStatus.String(),
	}
}

// WriteXLSX streams a single-sheet workbook of assignments to w.
func WriteXLSX(w io.Writer, assignments []domain.Assignment) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for i, a := range assignments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
		values := cellValues(a)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("export: write order_id=%s: %w", a.OrderID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// cellValues keeps finite figures numeric so they stay sortable in the sheet.
func cellValues(a domain.Assignment) []interface{} {
	row := Row(a)
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	if !math.IsInf(a.TravelMinutes, 0) {
		out[4] = a.TravelMinutes
	}
	if !math.IsInf(a.DistanceKm, 0) {
		out[5] = a.DistanceKm
	}
	return out
}

func clockOrUnreachable(t time.Time) string {
	if t.IsZero() {
		return unreachable
	}
	return domain.Clock(t)
}

func number(v float64) string {
	if math.IsInf(v, 0) {
		return unreachable
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
