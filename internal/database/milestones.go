package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ecobank/internal/models"
)

// LoadMilestoneOverrides returns the persisted progress of every milestone
// that has been written at least once.
func (r *Repository) LoadMilestoneOverrides(ctx context.Context) ([]models.MilestoneState, error) {
	rows, err := r.query(ctx, `SELECT id, current, progress, completed, started_at FROM milestones ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	var states []models.MilestoneState
	for rows.Next() {
		var s models.MilestoneState
		var startedAt sql.NullTime

		if err := rows.Scan(&s.ID, &s.Current, &s.Progress, &s.Completed, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		if startedAt.Valid {
			at := startedAt.Time
			s.StartedAt = &at
		}
		states = append(states, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate milestones: %w", err)
	}

	return states, nil
}

func (r *Repository) UpsertMilestone(ctx context.Context, m models.Milestone) error {
	query := `
		INSERT INTO milestones (id, current, progress, completed, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current = excluded.current,
			progress = excluded.progress,
			completed = excluded.completed,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at
	`

	_, err := r.exec(ctx, query, m.ID, m.Current, m.Progress, m.Completed, nullTime(m.StartedAt), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert milestone: %w", err)
	}

	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
