package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plantfloor/floorsim/sim"
)

// createdLayout is fixed-width so stored timestamps sort lexically.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID                  string
	CreatedAt           time.Time
	Policy              string
	Jobs                int
	CompletedJobs       int
	TotalProductionTime int64
}

// OperationAverage is the average production time of one operation in one run.
type OperationAverage struct {
	Operation   string
	AverageTime float64
	Executions  int
}

// SaveRun stores a run summary and the average time of every operation that
// executed at least once. The run id is a UUIDv7.
func (s *Store) SaveRun(ctx context.Context, sum *sim.Summary) (RunRecord, error) {
	if sum == nil {
		return RunRecord{}, errors.New("save run: nil summary")
	}
	summaryJSON, err := json.Marshal(sum)
	if err != nil {
		return RunRecord{}, fmt.Errorf("save run: %w", err)
	}

	rec := RunRecord{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		CreatedAt:           s.now().UTC(),
		Policy:              string(sum.Policy),
		Jobs:                sum.Jobs,
		CompletedJobs:       sum.CompletedJobs,
		TotalProductionTime: sum.TotalProductionTime,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunRecord{}, fmt.Errorf("save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, policy, jobs, completed_jobs, total_production_time, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.CreatedAt.Format(createdLayout),
		rec.Policy,
		rec.Jobs,
		rec.CompletedJobs,
		rec.TotalProductionTime,
		string(summaryJSON),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO average_production_time (run_id, operation, average_time, executions)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return RunRecord{}, fmt.Errorf("save run: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	stored := 0
	for _, op := range sum.Operations {
		if op.Executions == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, op.Name, op.AverageTime, op.Executions); err != nil {
			return RunRecord{}, fmt.Errorf("save average time for %s: %w", op.Name, err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return RunRecord{}, fmt.Errorf("save run: %w", err)
	}
	logrus.Infof("Stored run %s with %d operation average(s)", rec.ID, stored)
	return rec, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, created_at, policy, jobs, completed_jobs, total_production_time
		FROM runs
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &created, &rec.Policy, &rec.Jobs, &rec.CompletedJobs, &rec.TotalProductionTime); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		rec.CreatedAt, err = time.Parse(createdLayout, created)
		if err != nil {
			return nil, fmt.Errorf("list runs: run %s: %w", rec.ID, err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// AverageTimes returns the stored operation averages of a run, ordered by operation.
func (s *Store) AverageTimes(ctx context.Context, runID string) ([]OperationAverage, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT operation, average_time, executions
		FROM average_production_time
		WHERE run_id = ?
		ORDER BY operation
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("average times: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []OperationAverage
	for rows.Next() {
		var avg OperationAverage
		if err := rows.Scan(&avg.Operation, &avg.AverageTime, &avg.Executions); err != nil {
			return nil, fmt.Errorf("average times: %w", err)
		}
		out = append(out, avg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("average times: %w", err)
	}
	return out, nil
}

// LoadSummary decodes the summary stored with a run.
func (s *Store) LoadSummary(ctx context.Context, runID string) (*sim.Summary, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT summary FROM runs WHERE id = ?`, runID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	var sum sim.Summary
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return nil, fmt.Errorf("load summary %s: %w", runID, err)
	}
	return &sum, nil
}

func (s *Store) requireRun(ctx context.Context, runID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return fmt.Errorf("lookup run: %w", err)
	}
	return nil
}
