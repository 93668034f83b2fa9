package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ecobank/internal/logger"
	"ecobank/internal/models"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
)

const writeTimeout = 5 * time.Second

type Options struct {
	QueueSize       int
	MaxRetries      int
	InitialInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 200 * time.Millisecond
	}
	return o
}

type job struct {
	op  string
	run func(ctx context.Context) error
}

// Mirror forwards engine changes to the remote store and the blob cache.
// Remote writes run in order on one worker goroutine; cache checkpoints run
// on a second one so a failing remote never holds up the local copy.
// Writes are queued without blocking the caller; failures are retried,
// then logged and dropped.
type Mirror struct {
	remote Remote
	cache  Cache
	opts   Options

	mu      sync.RWMutex
	closed  bool
	jobs    chan job
	pending chan struct{}

	snapMu   sync.Mutex
	lastSnap *models.Snapshot

	stopCache     chan struct{}
	remoteStopped chan struct{}
	cacheStopped  chan struct{}
}

// NewMirror starts the workers. remote may be nil, in which case only the
// cache is written.
func NewMirror(remote Remote, cache Cache, opts Options) *Mirror {
	opts = opts.withDefaults()

	m := &Mirror{
		remote:  remote,
		cache:   cache,
		opts:    opts,
		jobs:    make(chan job, opts.QueueSize),
		pending: make(chan struct{}, 1),

		stopCache:     make(chan struct{}),
		remoteStopped: make(chan struct{}),
		cacheStopped:  make(chan struct{}),
	}
	go m.remoteWorker()
	go m.cacheWorker()
	return m
}

// Load reads the four collections from the remote concurrently. It falls
// back to the cached snapshot when the remote fails or holds no items.
func (m *Mirror) Load(ctx context.Context) (models.Snapshot, error) {
	var remoteSnap models.Snapshot

	if m.remote != nil {
		snap, err := m.loadRemote(ctx)
		if err == nil && len(snap.Items) > 0 {
			logger.Info("Loaded state from database", "items", len(snap.Items), "badges", len(snap.Badges))
			return snap, nil
		}
		if err != nil {
			logger.Warn("Database load failed, using local cache", "error", err)
		} else {
			remoteSnap = snap
		}
	}

	cached, err := m.loadCache(ctx)
	if err != nil {
		return remoteSnap, err
	}
	if cached.IsEmpty() {
		return remoteSnap, nil
	}

	logger.Info("Loaded state from local cache", "items", len(cached.Items), "badges", len(cached.Badges))
	return cached, nil
}

func (m *Mirror) loadRemote(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := m.remote.LoadItems(gctx)
		snap.Items = items
		return err
	})
	g.Go(func() error {
		badges, err := m.remote.LoadEarnedBadges(gctx)
		snap.Badges = badges
		return err
	})
	g.Go(func() error {
		ids, err := m.remote.LoadActiveBadgeIDs(gctx)
		snap.ActiveBadges = ids
		return err
	})
	g.Go(func() error {
		states, err := m.remote.LoadMilestoneOverrides(gctx)
		snap.Milestones = states
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

func (m *Mirror) loadCache(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	if m.cache == nil {
		return snap, nil
	}

	blob, err := m.cache.Load(ctx, CacheKey)
	if errors.Is(err, ErrCacheMiss) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("failed to load cache: %w", err)
	}

	if err := json.Unmarshal(blob, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode cached snapshot: %w", err)
	}
	return snap, nil
}

func (m *Mirror) InsertItem(item models.ScannedItem) {
	m.enqueueRemote("insert_item", func(ctx context.Context) error {
		return m.remote.InsertItem(ctx, item)
	})
}

func (m *Mirror) UpdateItem(item models.ScannedItem) {
	m.enqueueRemote("update_item", func(ctx context.Context) error {
		return m.remote.UpdateItem(ctx, item)
	})
}

func (m *Mirror) UpsertMilestone(ms models.Milestone) {
	m.enqueueRemote("upsert_milestone", func(ctx context.Context) error {
		return m.remote.UpsertMilestone(ctx, ms)
	})
}

func (m *Mirror) UpsertActiveBadge(badgeID string, startedAt time.Time) {
	m.enqueueRemote("upsert_active_badge", func(ctx context.Context) error {
		return m.remote.UpsertActiveBadge(ctx, badgeID, startedAt)
	})
}

func (m *Mirror) DeleteActiveBadge(badgeID string) {
	m.enqueueRemote("delete_active_badge", func(ctx context.Context) error {
		return m.remote.DeleteActiveBadge(ctx, badgeID)
	})
}

func (m *Mirror) InsertEarnedBadge(b models.Badge) {
	m.enqueueRemote("insert_earned_badge", func(ctx context.Context) error {
		return m.remote.InsertEarnedBadge(ctx, b)
	})
}

// Checkpoint records snap as the next blob to cache. Consecutive
// checkpoints that the cache worker has not reached yet collapse into the
// latest.
func (m *Mirror) Checkpoint(snap models.Snapshot) {
	if m.cache == nil {
		return
	}

	m.snapMu.Lock()
	m.lastSnap = &snap
	m.snapMu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}

	select {
	case m.pending <- struct{}{}:
	default:
	}
}

// Close stops accepting writes, saves the last checkpoint and waits until
// the remote queue has drained, or ctx is done.
func (m *Mirror) Close(ctx context.Context) error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.jobs)
		close(m.stopCache)
	}
	m.mu.Unlock()

	for _, stopped := range []chan struct{}{m.cacheStopped, m.remoteStopped} {
		select {
		case <-stopped:
		case <-ctx.Done():
			return fmt.Errorf("persistence flush interrupted: %w", ctx.Err())
		}
	}
	return nil
}

func (m *Mirror) enqueueRemote(op string, run func(ctx context.Context) error) {
	if m.remote == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		logger.Warn("Persistence write after close dropped", "op", op)
		return
	}

	select {
	case m.jobs <- job{op: op, run: run}:
	default:
		logger.Warn("Persistence queue full, write dropped", "op", op)
	}
}

func (m *Mirror) remoteWorker() {
	defer close(m.remoteStopped)

	for j := range m.jobs {
		m.runWithRetry(j)
	}
}

func (m *Mirror) cacheWorker() {
	defer close(m.cacheStopped)

	for {
		select {
		case <-m.pending:
			m.flushCheckpoint()
		case <-m.stopCache:
			m.flushCheckpoint()
			return
		}
	}
}

func (m *Mirror) flushCheckpoint() {
	m.snapMu.Lock()
	snap := m.lastSnap
	m.lastSnap = nil
	m.snapMu.Unlock()

	if snap == nil {
		return
	}

	blob, err := json.Marshal(snap)
	if err != nil {
		logger.Error("Failed to encode snapshot", "error", err)
		return
	}

	m.runWithRetry(job{op: "checkpoint", run: func(ctx context.Context) error {
		return m.cache.Save(ctx, CacheKey, blob)
	}})
}

func (m *Mirror) runWithRetry(j job) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.opts.InitialInterval
	b.MaxElapsedTime = 0

	attempts := 0
	operation := func() error {
		attempts++
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		return j.run(ctx)
	}

	err := backoff.RetryNotify(
		operation,
		backoff.WithMaxRetries(b, uint64(m.opts.MaxRetries)),
		func(err error, d time.Duration) {
			logger.Warn("Persistence write failed, retrying", "op", j.op, "error", err, "backoff", d)
		},
	)
	if err != nil {
		logger.Error("Persistence write abandoned", "op", j.op, "attempts", attempts, "error", err)
	}
}
