package ports

import (
	"context"
	"delivery-assign-service/internal/domain"
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

// RunSummary aggregates what happened during one assignment run.
type RunSummary struct {
	Orders          int `json:"orders"`
	Slots           int `json:"slots"`
	UnknownSlots    int `json:"unknown_slots"`
	BatchesPlanned  int `json:"batches_planned"`
	BatchesDropped  int `json:"batches_dropped"`
	BatchesSkipped  int `json:"batches_skipped"`
	OrdersDropped   int `json:"orders_dropped"`
	Assignments     int `json:"assignments"`
	SLASuccess      int `json:"sla_success"`
	SLAFailed       int `json:"sla_failed"`
	UnreachableLegs int `json:"unreachable_legs"`
}

// AssignmentRun is one stored execution of the assignment engine.
type AssignmentRun struct {
	ID          string
	CreatedAt   time.Time
	SourceName  string
	Summary     RunSummary
	Assignments []domain.Assignment
}

// Port: a boundary for storing and retrieving assignment runs.
// SaveRun assigns ID and CreatedAt when they are empty.
type RunRepository interface {
	SaveRun(ctx context.Context, run *AssignmentRun) error
	GetRun(ctx context.Context, id string) (*AssignmentRun, error)
}
