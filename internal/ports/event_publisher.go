package ports

import "context"

// Port: notifies downstream systems that a run finished.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, run *AssignmentRun) error
}
