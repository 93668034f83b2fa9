package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecobank/internal/models"
)

func (r *Repository) LoadEarnedBadges(ctx context.Context) ([]models.Badge, error) {
	query := `
		SELECT id, name, description, icon, stores, discount, prizes, earned_at
		FROM badges
		ORDER BY earned_at
	`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		var stores, prizes string

		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &stores, &b.Discount, &prizes, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		if err := json.Unmarshal([]byte(stores), &b.Stores); err != nil {
			return nil, fmt.Errorf("failed to decode stores for badge %s: %w", b.ID, err)
		}
		if err := json.Unmarshal([]byte(prizes), &b.Prizes); err != nil {
			return nil, fmt.Errorf("failed to decode prizes for badge %s: %w", b.ID, err)
		}
		badges = append(badges, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate badges: %w", err)
	}

	return badges, nil
}

func (r *Repository) InsertEarnedBadge(ctx context.Context, b models.Badge) error {
	stores, err := json.Marshal(nonNil(b.Stores))
	if err != nil {
		return fmt.Errorf("failed to encode stores: %w", err)
	}
	prizes, err := json.Marshal(nonNil(b.Prizes))
	if err != nil {
		return fmt.Errorf("failed to encode prizes: %w", err)
	}

	query := `
		INSERT INTO badges (id, name, description, icon, stores, discount, prizes, earned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = r.exec(ctx, query, b.ID, b.Name, b.Description, b.Icon, string(stores), b.Discount, string(prizes), b.EarnedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert badge: %w", err)
	}

	return nil
}

func (r *Repository) LoadActiveBadgeIDs(ctx context.Context) ([]string, error) {
	rows, err := r.query(ctx, `SELECT badge_id FROM active_badges ORDER BY started_at, badge_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active badges: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan active badge: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active badges: %w", err)
	}

	return ids, nil
}

func (r *Repository) UpsertActiveBadge(ctx context.Context, badgeID string, startedAt time.Time) error {
	query := `
		INSERT INTO active_badges (badge_id, started_at)
		VALUES (?, ?)
		ON CONFLICT (badge_id) DO UPDATE SET started_at = excluded.started_at
	`

	if _, err := r.exec(ctx, query, badgeID, startedAt.UTC()); err != nil {
		return fmt.Errorf("failed to upsert active badge: %w", err)
	}

	return nil
}

func (r *Repository) DeleteActiveBadge(ctx context.Context, badgeID string) error {
	if _, err := r.exec(ctx, `DELETE FROM active_badges WHERE badge_id = ?`, badgeID); err != nil {
		return fmt.Errorf("failed to delete active badge: %w", err)
	}

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
