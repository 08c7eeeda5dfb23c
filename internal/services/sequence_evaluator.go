package services

import (
	"context"
	"delivery-assign-service/internal/domain"
	"fmt"
	"math"
	"time"
)

// SequenceEvaluator walks a batch in optimized order and timestamps each stop.
type SequenceEvaluator struct {
	cfg  Config
	info routeInfo
}

// Evaluate produces one Assignment per stop of pb, following order.
//
// A nil order means the optimizer had no trip for the batch: no records are
// produced. The walk starts at the batch's earliest order time plus the
// cutoff buffer, adds the loading overhead, then accumulates travel plus
// handover for every stop. Each stop is checked against its slot deadline.
// Once a leg is unreachable the clock is unbounded for the rest of the walk.
func (e *SequenceEvaluator) Evaluate(
	ctx context.Context,
	pb PlannedBatch,
	window domain.SlotWindow,
	order []int,
) ([]domain.Assignment, error) {
	if order == nil {
		return nil, nil
	}

	batch := pb.Batch
	if err := checkPermutation(order, batch.Size()); err != nil {
		return nil, fmt.Errorf("evaluate sequence: %w", err)
	}

	pickup, err := batch.Pickup()
	if err != nil {
		return nil, fmt.Errorf("evaluate sequence: %w", err)
	}
	earliest, err := batch.EarliestAdded()
	if err != nil {
		return nil, fmt.Errorf("evaluate sequence: %w", err)
	}

	startAt := earliest.Add(e.cfg.OrderCutoff)
	cumulative := startAt.Add(e.cfg.PickupPerOrder * time.Duration(batch.Size()))
	unbounded := false

	prev := pickup
	out := make([]domain.Assignment, 0, batch.Size())

	for _, idx := range order {
		o := batch.Orders[idx]
		leg := e.info.travel(ctx, prev, o.Delivery)

		a := domain.Assignment{
			OrderID:       o.OrderID,
			DriverName:    pb.Driver.Name,
			UsedSpare:     pb.UsedSpare,
			TravelMinutes: Round2(leg.DurationMinutes),
			DistanceKm:    Round2(leg.DistanceKm),
			Slot:          batch.Slot,
		}
		if !unbounded {
			a.PickupTime = cumulative
		}

		travel, finite := minutesToDuration(leg.DurationMinutes)
		if unbounded || !finite {
			unbounded = true
			a.Unreachable = true
			a.SLAStatus = domain.SLAFailed
		} else {
			arrival := cumulative.Add(travel + e.cfg.HandoverPerOrder)
			deadline := window.Deadline(o.DateAdded)

			a.ArrivalTime = arrival
			a.SLAStatus = domain.SLAFailed
			if !arrival.After(deadline) {
				a.SLAStatus = domain.SLASuccess
			}
			cumulative = arrival
		}

		out = append(out, a)
		prev = o.Delivery
	}

	return out, nil
}

// Round2 rounds to two decimal places; infinities pass through unchanged.
func Round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}

// minutesToDuration converts fractional minutes. It reports false for values
// that cannot be represented, which the walk treats as unreachable.
func minutesToDuration(minutes float64) (time.Duration, bool) {
	if math.IsInf(minutes, 0) || math.IsNaN(minutes) || minutes < 0 {
		return 0, false
	}
	ns := minutes * float64(time.Minute)
	if ns >= math.MaxInt64 {
		return 0, false
	}
	return time.Duration(math.Round(ns)), true
}
