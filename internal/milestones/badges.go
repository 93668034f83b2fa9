package milestones

import (
	"fmt"
	"math"
	"sort"

	"ecobank/internal/catalog"
	"ecobank/internal/logger"
	"ecobank/internal/models"
)

type Progress struct {
	Current    float64 `json:"current"`
	Target     float64 `json:"target"`
	Progress   float64 `json:"progress"`
	IsInverted bool    `json:"isInverted"`
}

// Percent renders progress as 0..100. Inverted milestones are full while
// at or under target and drain linearly to zero at twice the target.
func (p Progress) Percent() float64 {
	if p.Target <= 0 {
		return 0
	}
	if p.IsInverted {
		if p.Current <= p.Target {
			return 100
		}
		excess := p.Current - p.Target
		return math.Max(0, 100-excess/p.Target*100)
	}
	return math.Min(100, p.Current/p.Target*100)
}

type ContinuingBadge struct {
	Badge     models.BadgeTemplate `json:"badge"`
	Milestone models.Milestone     `json:"milestone"`
}

// StartBadge activates badgeID and restarts its milestone window. It
// returns false without touching anything when the badge is already active.
func (e *Engine) StartBadge(badgeID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := catalog.Template(badgeID); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownBadge, badgeID)
	}
	if e.hasEarned(badgeID) {
		return false, fmt.Errorf("%w: %s", ErrAlreadyEarned, badgeID)
	}
	if e.isActive(badgeID) {
		return false, nil
	}

	startedAt := e.now()
	e.active = append(e.active, badgeID)
	if m := e.milestoneFor(badgeID); m != nil {
		m.Current = 0
		m.Progress = 0
		m.Completed = false
		m.StartedAt = &startedAt
	}
	e.sink.UpsertActiveBadge(badgeID, startedAt)
	logger.Info("Badge started", "badge", badgeID, "started_at", startedAt)

	e.recomputeLocked()
	return true, nil
}

func (e *Engine) IsBadgeActive(badgeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isActive(badgeID)
}

func (e *Engine) BadgeProgress(badgeID string) (Progress, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := e.milestoneFor(badgeID)
	if m == nil {
		return Progress{}, false
	}
	return Progress{
		Current:    m.Current,
		Target:     m.Target,
		Progress:   m.Progress,
		IsInverted: m.Rule.Inverted(),
	}, true
}

// EarnedBadges returns earned badges, most recent first.
func (e *Engine) EarnedBadges() []models.Badge {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := append([]models.Badge(nil), e.earned...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EarnedAt.After(out[j].EarnedAt)
	})
	return out
}

func (e *Engine) AvailableBadges() []models.BadgeTemplate {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.BadgeTemplate
	for _, t := range catalog.Templates() {
		if !e.hasEarned(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) ContinuingBadges() []ContinuingBadge {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []ContinuingBadge
	for _, id := range e.active {
		if e.hasEarned(id) {
			continue
		}
		t, ok := catalog.Template(id)
		m := e.milestoneFor(id)
		if !ok || m == nil {
			continue
		}
		out = append(out, ContinuingBadge{Badge: t, Milestone: *m})
	}
	return out
}

func (e *Engine) ActiveBadges() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.active...)
}

func (e *Engine) Milestones() []models.Milestone {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Milestone(nil), e.milestones...)
}
