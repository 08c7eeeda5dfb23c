package config

import (
	"bytes"
	"delivery-assign-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type slotFile struct {
	Slots []slotEntry `yaml:"slots"`
}

type slotEntry struct {
	Label     string `yaml:"label"`
	StartHour int    `yaml:"start_hour"`
	EndHour   int    `yaml:"end_hour"`
}

// LoadSlots reads a YAML slot table:
//
//	slots:
//	  - label: "9AM-12PM"
//	    start_hour: 9
//	    end_hour: 12
func LoadSlots(path string) (domain.SlotTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load slots: read %q: %w", path, err)
	}
	return ParseSlots(data)
}

func ParseSlots(data []byte) (domain.SlotTable, error) {
	var f slotFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("load slots: decode yaml: %w", err)
	}

	windows := make([]domain.SlotWindow, 0, len(f.Slots))
	for _, s := range f.Slots {
		windows = append(windows, domain.SlotWindow{
			Label:     s.Label,
			StartHour: s.StartHour,
			EndHour:   s.EndHour,
		})
	}

	table, err := domain.NewSlotTable(windows)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	return table, nil
}
