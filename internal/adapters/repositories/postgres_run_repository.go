package repositories

import (
	"context"
	"database/sql"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/platform/obs"
	"delivery-assign-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Postgres-backed implementation of the RunRepository port.
type PostgresRunRepository struct{ DB *sql.DB }

func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{DB: db}
}

// Store a run and all of its assignments in one transaction.
func (p *PostgresRunRepository) SaveRun(ctx context.Context, run *ports.AssignmentRun) (err error) {
	defer obs.Time(ctx, "runs.pg.SaveRun")(&err)

	if p.DB == nil {
		return errors.New("postgres run repository: DB is nil")
	}
	if run == nil {
		return errors.New("save run: run is nil")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("save run: encode summary: %w", err)
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO assignment_runs (id, created_at, source_name, summary)
	VALUES ($1, $2, $3, $4);
	`, run.ID, run.CreatedAt, run.SourceName, summary); err != nil {
		return fmt.Errorf("save run: insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO assignments (
		run_id, seq, order_id, driver_name, used_spare, pickup_time,
		travel_minutes, distance_km, arrival_time, unreachable, slot, sla_status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range run.Assignments {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, a.OrderID, a.DriverName, a.UsedSpare, nullTime(a.PickupTime),
			a.TravelMinutes, a.DistanceKm, nullTime(a.ArrivalTime), a.Unreachable, a.Slot, string(a.SLAStatus),
		); err != nil {
			return fmt.Errorf("save run: insert assignment order_id=%s: %w", a.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit tx: %w", err)
	}

	return nil
}

// Return a run with its assignments in the order they were saved.
func (p *PostgresRunRepository) GetRun(ctx context.Context, id string) (_ *ports.AssignmentRun, err error) {
	defer obs.Time(ctx, "runs.pg.GetRun")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres run repository: DB is nil")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrRunNotFound
	}

	run := &ports.AssignmentRun{ID: id}
	var summary []byte
	err = p.DB.QueryRowContext(ctx, `
	SELECT created_at, source_name, summary
	FROM assignment_runs
	WHERE id = $1;
	`, id).Scan(&run.CreatedAt, &run.SourceName, &summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: query assignment_runs: %w", err)
	}
	if err := json.Unmarshal(summary, &run.Summary); err != nil {
		return nil, fmt.Errorf("get run: decode summary: %w", err)
	}

	rows, err := p.DB.QueryContext(ctx, `
	SELECT
		order_id, driver_name, used_spare, pickup_time, travel_minutes,
		distance_km, arrival_time, unreachable, slot, sla_status
	FROM assignments
	WHERE run_id = $1
	ORDER BY seq;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run: query assignments: %w", err)
	}
	defer rows.Close()

	run.Assignments = make([]domain.Assignment, 0, run.Summary.Assignments)
	for rows.Next() {
		var a domain.Assignment
		var pickup, arrival sql.NullTime
		var status string
		if err := rows.Scan(
			&a.OrderID, &a.DriverName, &a.UsedSpare, &pickup, &a.TravelMinutes,
			&a.DistanceKm, &arrival, &a.Unreachable, &a.Slot, &status,
		); err != nil {
			return nil, fmt.Errorf("get run: scan row: %w", err)
		}
		a.PickupTime = pickup.Time
		a.ArrivalTime = arrival.Time
		a.SLAStatus = domain.SLAStatus(status)
		run.Assignments = append(run.Assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: row iteration: %w", err)
	}

	return run, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
