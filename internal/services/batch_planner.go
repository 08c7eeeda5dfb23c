package services

import (
	"delivery-assign-service/internal/domain"
	"errors"
)

// PlannedBatch pairs a batch with the driver that will deliver it.
type PlannedBatch struct {
	Batch     domain.Batch
	Driver    domain.Driver
	UsedSpare bool
}

// SlotPlan is the BatchPlanner output for one slot.
type SlotPlan struct {
	Slot      string
	Planned   []PlannedBatch
	Dropped   []domain.Batch
	SparePool bool
}

// PlanBatches splits a slot's orders into batches and pairs them with drivers.
//
// Drivers whose shift matches the slot are used; when there are none the
// spare pool stands in. Batches are consecutive slices of at most batchSize
// orders in input order, paired positionally with the drivers (one batch per
// driver). Batches left over once the drivers run out are dropped, not queued.
func PlanBatches(
	slot string,
	orders []domain.Order,
	drivers []domain.Driver,
	batchSize int,
) (SlotPlan, error) {
	if batchSize < 1 {
		return SlotPlan{}, errors.New("plan batches: batch size must be >= 1")
	}

	plan := SlotPlan{Slot: slot}

	available := domain.ForShift(drivers, slot)
	if len(available) == 0 {
		available = domain.Spares(drivers)
		plan.SparePool = true
	}

	nOrders := len(orders)
	for bi := 0; bi*batchSize < nOrders; bi++ {
		start := bi * batchSize
		end := start + batchSize
		if end > nOrders {
			end = nOrders
		}

		batch := domain.Batch{
			Slot:   slot,
			Orders: orders[start:end:end],
		}

		if bi >= len(available) {
			plan.Dropped = append(plan.Dropped, batch)
			continue
		}

		driver := available[bi]
		plan.Planned = append(plan.Planned, PlannedBatch{
			Batch:     batch,
			Driver:    driver,
			UsedSpare: driver.IsSpare,
		})
	}

	return plan, nil
}
