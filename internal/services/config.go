package services

import (
	"delivery-assign-service/internal/domain"
	"errors"
	"fmt"
	"time"
)

// Config holds the tunables of one assignment engine. It is passed to
// NewOrchestrator so separate runs (and tests) can vary it independently.
type Config struct {
	// Maximum number of orders per batch.
	BatchSize int
	// Loading overhead at the pickup location, per order in the batch.
	PickupPerOrder time.Duration
	// Handover overhead at each delivery stop.
	HandoverPerOrder time.Duration
	// Delay between an order being added and the batch being pickable.
	OrderCutoff time.Duration
	// Upper bound for every single routing provider call.
	ProviderTimeout time.Duration
	// Slot definitions; labels missing here are parsed with domain.ParseSlotLabel.
	Slots domain.SlotTable
}

func DefaultConfig() Config {
	return Config{
		BatchSize:        3,
		PickupPerOrder:   2 * time.Minute,
		HandoverPerOrder: 10 * time.Minute,
		OrderCutoff:      30 * time.Minute,
		ProviderTimeout:  10 * time.Second,
		Slots:            domain.SlotTable{},
	}
}

func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("config: batch size must be >= 1, got %d", c.BatchSize)
	}
	if c.PickupPerOrder < 0 || c.HandoverPerOrder < 0 || c.OrderCutoff < 0 {
		return errors.New("config: overhead durations must not be negative")
	}
	if c.ProviderTimeout <= 0 {
		return errors.New("config: provider timeout must be positive")
	}
	return nil
}
