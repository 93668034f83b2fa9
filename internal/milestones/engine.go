// Package milestones owns the scanned-item ledger and the badge progression
// engine built on top of it.
//
// All mutations run under one lock and are mirrored to a Sink without
// waiting for it; the in-memory state is authoritative for the process.
package milestones

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"ecobank/internal/catalog"
	"ecobank/internal/emission"
	"ecobank/internal/logger"
	"ecobank/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrValidation    = errors.New("invalid item")
	ErrNotFound      = errors.New("item not found")
	ErrUnknownBadge  = errors.New("unknown badge")
	ErrAlreadyEarned = errors.New("badge already earned")
)

// Sink receives every state change. Implementations must not block and
// must not report errors back to the engine.
type Sink interface {
	InsertItem(item models.ScannedItem)
	UpdateItem(item models.ScannedItem)
	UpsertMilestone(m models.Milestone)
	UpsertActiveBadge(badgeID string, startedAt time.Time)
	DeleteActiveBadge(badgeID string)
	InsertEarnedBadge(b models.Badge)
	Checkpoint(snap models.Snapshot)
}

// Notifier is told about every newly earned badge.
type Notifier interface {
	BadgeEarned(b models.Badge)
}

type NewItem struct {
	QRCode    string    `json:"qrCode"`
	Name      string    `json:"name" validate:"required,max=200"`
	Category  string    `json:"category" validate:"required,max=100"`
	Quantity  int       `json:"quantity" validate:"min=1"`
	Price     float64   `json:"price" validate:"min=0"`
	StoreName string    `json:"storeName" validate:"required,max=200"`
	// ScannedAt is never bound from request bodies; zero means now.
	ScannedAt time.Time `json:"-"`
}

type Engine struct {
	mu         sync.Mutex
	items      []models.ScannedItem
	index      map[string]int
	earned     []models.Badge
	active     []string
	milestones []models.Milestone

	sink     Sink
	notifier Notifier
	now      func() time.Time
	newID    func() string
	validate *validator.Validate
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func New(sink Sink, opts ...Option) *Engine {
	if sink == nil {
		sink = discardSink{}
	}

	e := &Engine{
		index:      make(map[string]int),
		milestones: catalog.Milestones(),
		sink:       sink,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore replaces the engine state with snap, merging persisted milestone
// progress into the catalog defaults, and recomputes.
func (e *Engine) Restore(snap models.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = make([]models.ScannedItem, 0, len(snap.Items))
	e.index = make(map[string]int, len(snap.Items))
	for _, item := range snap.Items {
		if _, dup := e.index[item.ID]; dup {
			continue
		}
		e.index[item.ID] = len(e.items)
		e.items = append(e.items, cloneItem(item))
	}

	e.earned = nil
	for _, b := range snap.Badges {
		if !e.hasEarned(b.ID) {
			e.earned = append(e.earned, b)
		}
	}

	e.active = nil
	for _, id := range snap.ActiveBadges {
		if e.isActive(id) || e.hasEarned(id) {
			continue
		}
		if _, ok := catalog.Template(id); !ok {
			continue
		}
		e.active = append(e.active, id)
	}

	overrides := make(map[string]models.MilestoneState, len(snap.Milestones))
	for _, s := range snap.Milestones {
		overrides[s.ID] = s
	}
	e.milestones = catalog.Milestones()
	for i := range e.milestones {
		if s, ok := overrides[e.milestones[i].ID]; ok {
			e.milestones[i].Current = s.Current
			e.milestones[i].Progress = s.Progress
			e.milestones[i].Completed = s.Completed
			e.milestones[i].StartedAt = s.StartedAt
		}
	}

	logger.Info("Engine state restored",
		"items", len(e.items),
		"earned_badges", len(e.earned),
		"active_badges", len(e.active),
	)

	e.recomputeLocked()
}

// Insert validates, auto-approves and records a new item.
func (e *Engine) Insert(in NewItem) (models.ScannedItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.newItem(in)
	if err != nil {
		return models.ScannedItem{}, err
	}

	co2 := emission.AutoApproval.Estimate(item.Category, item.Quantity, item.Price)
	approvedAt := e.now()
	item.Status = models.StatusApproved
	item.CO2 = &co2
	item.ApprovedAt = &approvedAt

	e.appendItem(item)
	logger.Debug("Item inserted", "item_id", item.ID, "category", item.Category, "co2", co2)
	return cloneItem(item), nil
}

// Submit records a new item as pending admin review.
func (e *Engine) Submit(in NewItem) (models.ScannedItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.newItem(in)
	if err != nil {
		return models.ScannedItem{}, err
	}
	item.Status = models.StatusPending

	e.appendItem(item)
	logger.Debug("Item submitted for review", "item_id", item.ID, "category", item.Category)
	return cloneItem(item), nil
}

// Approve marks the item approved with the given CO2 value.
func (e *Engine) Approve(itemID string, co2 float64) (models.ScannedItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.index[itemID]
	if !ok {
		return models.ScannedItem{}, fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}

	approvedAt := e.now()
	item := &e.items[i]
	item.Status = models.StatusApproved
	item.CO2 = &co2
	item.ApprovedAt = &approvedAt

	e.sink.UpdateItem(cloneItem(*item))
	logger.Info("Item approved", "item_id", item.ID, "co2", co2)

	e.recomputeLocked()
	return cloneItem(*item), nil
}

func (e *Engine) Items() []models.ScannedItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.ScannedItem, len(e.items))
	for i, item := range e.items {
		out[i] = cloneItem(item)
	}
	return out
}

func (e *Engine) Item(id string) (models.ScannedItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.index[id]
	if !ok {
		return models.ScannedItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneItem(e.items[i]), nil
}

func (e *Engine) PendingItems() []models.ScannedItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.ScannedItem
	for _, item := range e.items {
		if item.Status == models.StatusPending {
			out = append(out, cloneItem(item))
		}
	}
	return out
}

func (e *Engine) Stats() models.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := models.Stats{Total: len(e.items)}
	for _, item := range e.items {
		switch item.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
			if item.CO2 != nil {
				stats.TotalCO2 += *item.CO2
			}
		}
	}
	stats.TotalCO2 = math.Round(stats.TotalCO2*100) / 100
	return stats
}

// Recompute re-evaluates every milestone. It is idempotent.
func (e *Engine) Recompute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recomputeLocked()
}

// Snapshot returns a copy of the whole state.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) recomputeLocked() {
	var toAward []string

	for i := range e.milestones {
		m := &e.milestones[i]
		active := e.isActive(m.BadgeID)
		earned := e.hasEarned(m.BadgeID)

		agg := aggregateItems(qualifyingItems(*m, active, e.items))
		m.Completed = applyRule(m, agg) || earned

		if m.Completed && active && !earned {
			toAward = append(toAward, m.BadgeID)
			logger.Info("Milestone completed", "milestone", m.ID, "badge", m.BadgeID)
		}
	}

	for _, badgeID := range toAward {
		e.award(badgeID)
	}

	for _, m := range e.milestones {
		e.sink.UpsertMilestone(m)
	}
	e.sink.Checkpoint(e.snapshotLocked())
}

// award records badgeID as earned at most once and retires it from the
// active set.
func (e *Engine) award(badgeID string) {
	if !e.hasEarned(badgeID) {
		template, ok := catalog.Template(badgeID)
		if !ok {
			logger.Warn("Cannot award badge missing from catalog", "badge", badgeID)
			return
		}

		badge := models.Badge{BadgeTemplate: template, EarnedAt: e.now()}
		e.earned = append(e.earned, badge)
		e.sink.InsertEarnedBadge(badge)
		logger.Info("Badge awarded", "badge", badge.ID, "name", badge.Name)

		if e.notifier != nil {
			e.notifier.BadgeEarned(badge)
		}
	}

	if e.isActive(badgeID) {
		e.removeActive(badgeID)
		e.sink.DeleteActiveBadge(badgeID)
	}
}

func (e *Engine) newItem(in NewItem) (models.ScannedItem, error) {
	if err := e.validate.Struct(in); err != nil {
		return models.ScannedItem{}, validationError(err)
	}

	scannedAt := in.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = e.now()
	}

	return models.ScannedItem{
		ID:        e.newID(),
		QRCode:    in.QRCode,
		Name:      in.Name,
		Category:  in.Category,
		Quantity:  in.Quantity,
		Price:     in.Price,
		ScannedAt: scannedAt,
		StoreName: in.StoreName,
	}, nil
}

func (e *Engine) appendItem(item models.ScannedItem) {
	e.index[item.ID] = len(e.items)
	e.items = append(e.items, item)
	e.sink.InsertItem(cloneItem(item))
	e.recomputeLocked()
}

func (e *Engine) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Items:        make([]models.ScannedItem, len(e.items)),
		Badges:       append([]models.Badge(nil), e.earned...),
		ActiveBadges: append([]string(nil), e.active...),
		Milestones:   make([]models.MilestoneState, len(e.milestones)),
	}
	for i, item := range e.items {
		snap.Items[i] = cloneItem(item)
	}
	for i, m := range e.milestones {
		snap.Milestones[i] = m.State()
	}
	return snap
}

func (e *Engine) isActive(badgeID string) bool {
	for _, id := range e.active {
		if id == badgeID {
			return true
		}
	}
	return false
}

func (e *Engine) removeActive(badgeID string) {
	kept := e.active[:0]
	for _, id := range e.active {
		if id != badgeID {
			kept = append(kept, id)
		}
	}
	e.active = kept
}

func (e *Engine) hasEarned(badgeID string) bool {
	for _, b := range e.earned {
		if b.ID == badgeID {
			return true
		}
	}
	return false
}

func (e *Engine) milestoneFor(badgeID string) *models.Milestone {
	for i := range e.milestones {
		if e.milestones[i].BadgeID == badgeID {
			return &e.milestones[i]
		}
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
}

func cloneItem(item models.ScannedItem) models.ScannedItem {
	if item.CO2 != nil {
		co2 := *item.CO2
		item.CO2 = &co2
	}
	if item.ApprovedAt != nil {
		at := *item.ApprovedAt
		item.ApprovedAt = &at
	}
	return item
}

type discardSink struct{}

func (discardSink) InsertItem(models.ScannedItem) {}
func (discardSink) UpdateItem(models.ScannedItem) {}
func (discardSink) UpsertMilestone(models.Milestone) {}
func (discardSink) UpsertActiveBadge(string, time.Time) {}
func (discardSink) DeleteActiveBadge(string) {}
func (discardSink) InsertEarnedBadge(models.Badge) {}
func (discardSink) Checkpoint(models.Snapshot) {}
