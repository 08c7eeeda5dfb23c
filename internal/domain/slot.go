package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotWindow is the structured definition of a delivery time slot.
// Hours are on a 24h clock; EndHour may be 24 for a window closing at midnight.
type SlotWindow struct {
	Label     string
	StartHour int
	EndHour   int
}

func (w SlotWindow) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("slot %q: start hour %d out of range", w.Label, w.StartHour)
	}
	if w.EndHour < 1 || w.EndHour > 24 {
		return fmt.Errorf("slot %q: end hour %d out of range", w.Label, w.EndHour)
	}
	if w.EndHour <= w.StartHour {
		return fmt.Errorf("slot %q: end hour %d must be after start hour %d", w.Label, w.EndHour, w.StartHour)
	}
	return nil
}

// Deadline is the slot's closing instant on the calendar day of day,
// in day's location.
func (w SlotWindow) Deadline(day time.Time) time.Time {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(w.EndHour) * time.Hour)
}

// SlotTable maps slot labels to their windows.
type SlotTable map[string]SlotWindow

// NewSlotTable validates and indexes windows by label.
func NewSlotTable(windows []SlotWindow) (SlotTable, error) {
	t := make(SlotTable, len(windows))
	for _, w := range windows {
		w.Label = strings.TrimSpace(w.Label)
		if w.Label == "" {
			return nil, fmt.Errorf("slot table: empty label")
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("slot table: %w", err)
		}
		if _, dup := t[w.Label]; dup {
			return nil, fmt.Errorf("slot table: duplicate label %q", w.Label)
		}
		t[w.Label] = w
	}
	return t, nil
}

// Resolve looks the label up in the table and falls back to parsing it.
func (t SlotTable) Resolve(label string) (SlotWindow, error) {
	if w, ok := t[label]; ok {
		return w, nil
	}
	if w, ok := t[strings.TrimSpace(label)]; ok {
		return w, nil
	}
	return ParseSlotLabel(label)
}

// ParseSlotLabel reads labels of the form "9AM-12PM", "9 am - 1 pm",
// "9-11AM" or "14:00-17:00". Minutes other than :00 are rejected.
func ParseSlotLabel(label string) (SlotWindow, error) {
	norm := strings.ToUpper(strings.Join(strings.Fields(label), ""))
	norm = strings.ReplaceAll(norm, "–", "-")

	parts := strings.Split(norm, "-")
	if len(parts) != 2 {
		return SlotWindow{}, fmt.Errorf("parse slot %q: expected <start>-<end>", label)
	}

	startHour, startSuffix, err := parseClockToken(parts[0])
	if err != nil {
		return SlotWindow{}, fmt.Errorf("parse slot %q: start: %w", label, err)
	}
	endHour, endSuffix, err := parseClockToken(parts[1])
	if err != nil {
		return SlotWindow{}, fmt.Errorf("parse slot %q: end: %w", label, err)
	}

	// "9-11AM": the start borrows the end's meridiem unless that would put it
	// after the end ("11-1PM" starts in the morning).
	if startSuffix == "" && endSuffix != "" {
		startSuffix = endSuffix
		if to24(startHour, startSuffix) >= to24(endHour, endSuffix) && endSuffix == "PM" {
			startSuffix = "AM"
		}
	}

	w := SlotWindow{
		Label:     strings.TrimSpace(label),
		StartHour: to24(startHour, startSuffix),
		EndHour:   to24(endHour, endSuffix),
	}
	if w.EndHour == 0 && w.StartHour > 0 {
		w.EndHour = 24
	}
	if err := w.Validate(); err != nil {
		return SlotWindow{}, fmt.Errorf("parse slot: %w", err)
	}
	return w, nil
}

func parseClockToken(tok string) (int, string, error) {
	suffix := ""
	switch {
	case strings.HasSuffix(tok, "AM"):
		suffix = "AM"
	case strings.HasSuffix(tok, "PM"):
		suffix = "PM"
	}
	body := strings.TrimSuffix(tok, suffix)
	if body == "" {
		return 0, "", fmt.Errorf("empty time in %q", tok)
	}

	hourPart := body
	if i := strings.IndexByte(body, ':'); i >= 0 {
		hourPart = body[:i]
		minutes, err := strconv.Atoi(body[i+1:])
		if err != nil {
			return 0, "", fmt.Errorf("invalid minutes in %q", tok)
		}
		if minutes != 0 {
			return 0, "", fmt.Errorf("unsupported minutes in %q", tok)
		}
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, "", fmt.Errorf("invalid hour in %q", tok)
	}
	if suffix != "" && (hour < 1 || hour > 12) {
		return 0, "", fmt.Errorf("hour %d out of 12h range in %q", hour, tok)
	}
	if suffix == "" && (hour < 0 || hour > 24) {
		return 0, "", fmt.Errorf("hour %d out of range in %q", hour, tok)
	}
	return hour, suffix, nil
}

func to24(hour int, suffix string) int {
	switch suffix {
	case "AM":
		if hour == 12 {
			return 0
		}
		return hour
	case "PM":
		if hour == 12 {
			return 12
		}
		return hour + 12
	}
	return hour
}
