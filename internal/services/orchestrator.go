package services

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/metrics"
	"delivery-assign-service/internal/ports"
	"errors"
	"fmt"
	"log"
)

// Orchestrator drives batch planning and sequence evaluation across slots.
// Runs are strictly sequential: one slot, one batch, one provider call at a
// time, so identical inputs and provider answers yield identical output.
type Orchestrator struct {
	cfg       Config
	info      routeInfo
	evaluator *SequenceEvaluator
}

// Result is the outcome of one run. An empty Assignments slice is a normal,
// reportable outcome ("no assignments made"), not an error.
type Result struct {
	Assignments []domain.Assignment
	Summary     ports.RunSummary
}

func (r Result) Empty() bool { return len(r.Assignments) == 0 }

func NewOrchestrator(cfg Config, provider ports.RouteInfoProvider) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.New("new orchestrator: provider must be non-nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}
	if cfg.Slots == nil {
		cfg.Slots = domain.SlotTable{}
	}

	info := routeInfo{provider: provider, timeout: cfg.ProviderTimeout}
	return &Orchestrator{
		cfg:       cfg,
		info:      info,
		evaluator: &SequenceEvaluator{cfg: cfg, info: info},
	}, nil
}

// Run assigns every slot's orders and returns the collected records in slot,
// batch, then optimized stop order. Slots are visited in order of first
// appearance in orders. Batch-level failures are skipped, never surfaced;
// only context cancellation aborts the run.
func (o *Orchestrator) Run(ctx context.Context, orders []domain.Order, drivers []domain.Driver) (Result, error) {
	res := Result{Assignments: []domain.Assignment{}}
	res.Summary.Orders = len(orders)

	slots, bySlot := groupBySlot(orders)
	res.Summary.Slots = len(slots)

	for _, slot := range slots {
		slotOrders := bySlot[slot]

		window, err := o.cfg.Slots.Resolve(slot)
		if err != nil {
			log.Printf("assign: slot=%q skipped: %v", slot, err)
			res.Summary.UnknownSlots++
			res.Summary.OrdersDropped += len(slotOrders)
			continue
		}

		plan, err := PlanBatches(slot, slotOrders, drivers, o.cfg.BatchSize)
		if err != nil {
			return Result{}, fmt.Errorf("assign: slot %q: %w", slot, err)
		}

		log.Printf(
			"assign: slot=%q orders=%d planned=%d dropped=%d spare_pool=%t",
			slot, len(slotOrders), len(plan.Planned), len(plan.Dropped), plan.SparePool,
		)

		res.Summary.BatchesPlanned += len(plan.Planned)
		res.Summary.BatchesDropped += len(plan.Dropped)
		metrics.Batches.WithLabelValues("dropped").Add(float64(len(plan.Dropped)))
		for _, b := range plan.Dropped {
			res.Summary.OrdersDropped += b.Size()
		}

		for _, pb := range plan.Planned {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("assign: %w", err)
			}

			records, err := o.assignBatch(ctx, pb, window)
			if err != nil {
				log.Printf("assign: slot=%q driver=%q batch skipped: %v", slot, pb.Driver.Name, err)
			}
			if len(records) == 0 {
				res.Summary.BatchesSkipped++
				res.Summary.OrdersDropped += pb.Batch.Size()
				metrics.Batches.WithLabelValues("skipped").Inc()
				continue
			}

			metrics.Batches.WithLabelValues("evaluated").Inc()
			for _, a := range records {
				res.Summary.Assignments++
				if a.SLAStatus == domain.SLASuccess {
					res.Summary.SLASuccess++
				} else {
					res.Summary.SLAFailed++
				}
				if a.Unreachable {
					res.Summary.UnreachableLegs++
				}
				metrics.Assignments.WithLabelValues(a.SLAStatus.String()).Inc()
			}
			res.Assignments = append(res.Assignments, records...)
		}
	}

	if res.Empty() {
		log.Printf("assign: no assignments made orders=%d slots=%d", len(orders), len(slots))
	}

	return res, nil
}

// assignBatch requests the visiting order and evaluates the walk. A batch
// either yields one record per order or none.
func (o *Orchestrator) assignBatch(ctx context.Context, pb PlannedBatch, window domain.SlotWindow) ([]domain.Assignment, error) {
	pickup, err := pb.Batch.Pickup()
	if err != nil {
		return nil, err
	}

	order := o.info.optimizedOrder(ctx, pickup, pb.Batch.Destinations())
	if order == nil {
		return nil, errors.New("no optimized trip")
	}

	records, err := o.evaluator.Evaluate(ctx, pb, window, order)
	if err != nil {
		return nil, err
	}
	if len(records) != pb.Batch.Size() {
		return nil, fmt.Errorf("partial evaluation: %d of %d stops", len(records), pb.Batch.Size())
	}
	return records, nil
}

// groupBySlot keeps slots in first-appearance order and orders in input order.
func groupBySlot(orders []domain.Order) ([]string, map[string][]domain.Order) {
	slots := make([]string, 0)
	bySlot := make(map[string][]domain.Order)
	for _, ord := range orders {
		if _, ok := bySlot[ord.TimeSlot]; !ok {
			slots = append(slots, ord.TimeSlot)
		}
		bySlot[ord.TimeSlot] = append(bySlot[ord.TimeSlot], ord)
	}
	return slots, bySlot
}
