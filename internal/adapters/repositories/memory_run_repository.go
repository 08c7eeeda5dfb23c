package repositories

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/ports"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory RunRepository used when no DATABASE_URL is configured.
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[string]ports.AssignmentRun
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{runs: map[string]ports.AssignmentRun{}}
}

func (m *MemoryRunRepository) SaveRun(ctx context.Context, run *ports.AssignmentRun) error {
	if run == nil {
		return errors.New("save run: run is nil")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	stored := *run
	stored.Assignments = append([]domain.Assignment(nil), run.Assignments...)

	m.mu.Lock()
	m.runs[run.ID] = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryRunRepository) GetRun(ctx context.Context, id string) (*ports.AssignmentRun, error) {
	m.mu.RLock()
	stored, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ports.ErrRunNotFound
	}

	out := stored
	out.Assignments = append([]domain.Assignment(nil), stored.Assignments...)
	return &out, nil
}
