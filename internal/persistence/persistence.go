// Package persistence mirrors engine state to a relational store and to a
// local blob cache, and loads it back on startup.
package persistence

import (
	"context"
	"errors"
	"time"

	"ecobank/internal/models"
)

// CacheKey is the blob key under which the whole snapshot is cached.
const CacheKey = "ecobank_data"

var ErrCacheMiss = errors.New("cache miss")

type Remote interface {
	LoadItems(ctx context.Context) ([]models.ScannedItem, error)
	LoadEarnedBadges(ctx context.Context) ([]models.Badge, error)
	LoadActiveBadgeIDs(ctx context.Context) ([]string, error)
	LoadMilestoneOverrides(ctx context.Context) ([]models.MilestoneState, error)

	InsertItem(ctx context.Context, item models.ScannedItem) error
	UpdateItem(ctx context.Context, item models.ScannedItem) error
	UpsertMilestone(ctx context.Context, m models.Milestone) error
	UpsertActiveBadge(ctx context.Context, badgeID string, startedAt time.Time) error
	DeleteActiveBadge(ctx context.Context, badgeID string) error
	InsertEarnedBadge(ctx context.Context, b models.Badge) error
}

// Cache stores opaque blobs by key. Load returns ErrCacheMiss for unknown keys.
type Cache interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
}
