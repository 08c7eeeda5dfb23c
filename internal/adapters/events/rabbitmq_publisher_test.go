package events

import (
	"context"
	"delivery-assign-service/internal/ports"
	"encoding/json"
	"testing"
	"time"
)

func TestRunCompletedMessageJSON(t *testing.T) {
	run := &ports.AssignmentRun{
		ID:         "4b0d6c1e-1f7a-4c3e-9a51-0f2f1b9b7c11",
		CreatedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		SourceName: "orders.xlsx",
		Summary:    ports.RunSummary{Orders: 7, Assignments: 6, SLASuccess: 5, SLAFailed: 1, BatchesDropped: 1},
	}

	body, err := json.Marshal(NewRunCompletedMessage(run))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["run_id"] != run.ID || got["source_name"] != "orders.xlsx" {
		t.Fatalf("message = %s", body)
	}
	summary, ok := got["summary"].(map[string]any)
	if !ok {
		t.Fatalf("summary missing in %s", body)
	}
	if summary["assignments"] != float64(6) || summary["batches_dropped"] != float64(1) {
		t.Fatalf("summary = %v", summary)
	}
}

func TestNoopPublisher(t *testing.T) {
	var p ports.EventPublisher = NoopPublisher{}
	if err := p.PublishRunCompleted(context.Background(), &ports.AssignmentRun{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
