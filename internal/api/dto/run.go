package dto

import (
	"delivery-assign-service/internal/ports"
	"time"
)

const NoAssignmentsWarning = "no assignments made"

type RunResponse struct {
	RunID       string               `json:"run_id"`
	CreatedAt   time.Time            `json:"created_at"`
	SourceName  string               `json:"source_name"`
	Summary     ports.RunSummary     `json:"summary"`
	Warning     string               `json:"warning,omitempty"`
	Assignments []AssignmentResponse `json:"assignments"`
}

func NewRunResponse(run *ports.AssignmentRun) RunResponse {
	res := RunResponse{
		RunID:       run.ID,
		CreatedAt:   run.CreatedAt,
		SourceName:  run.SourceName,
		Summary:     run.Summary,
		Assignments: make([]AssignmentResponse, 0, len(run.Assignments)),
	}
	for _, a := range run.Assignments {
		res.Assignments = append(res.Assignments, NewAssignmentResponse(a))
	}
	if len(run.Assignments) == 0 {
		res.Warning = NoAssignmentsWarning
	}
	return res
}
