package milestones

import (
	"math"
	"time"

	"ecobank/internal/models"
)

const week = 7 * 24 * time.Hour

type aggregate struct {
	count    int
	totalCO2 float64
	stores   int
	weeks    int
}

func (a aggregate) averageCO2() float64 {
	if a.count == 0 {
		return 0
	}
	return a.totalCO2 / float64(a.count)
}

// qualifyingItems returns the approved items that count toward m in its
// current activation window.
func qualifyingItems(m models.Milestone, active bool, items []models.ScannedItem) []models.ScannedItem {
	if m.StartedAt == nil && !active {
		return nil
	}

	var out []models.ScannedItem
	for _, item := range items {
		if !item.IsApproved() {
			continue
		}
		if m.StartedAt != nil && item.ScannedAt.Before(*m.StartedAt) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func aggregateItems(items []models.ScannedItem) aggregate {
	a := aggregate{count: len(items)}
	if len(items) == 0 {
		return a
	}

	stores := make(map[string]struct{})
	first, last := items[0].ScannedAt, items[0].ScannedAt
	for _, item := range items {
		if item.CO2 != nil {
			a.totalCO2 += *item.CO2
		}
		stores[item.StoreName] = struct{}{}
		if item.ScannedAt.Before(first) {
			first = item.ScannedAt
		}
		if item.ScannedAt.After(last) {
			last = item.ScannedAt
		}
	}

	a.stores = len(stores)
	a.weeks = int(last.Sub(first)/week) + 1
	return a
}

// applyRule writes current and progress into m and reports whether the
// rule's goal is met.
func applyRule(m *models.Milestone, a aggregate) bool {
	switch m.Rule {
	case models.RuleCount:
		m.Current = float64(a.count)
		m.Progress = m.Current
		return m.Current >= m.Target

	case models.RuleCumulativeCeiling:
		m.Current = a.totalCO2
		m.Progress = m.Current
		return a.count > 0 && m.Current <= m.Target

	case models.RuleConsecutiveWeeks:
		m.Current = math.Min(float64(a.weeks), m.Target)
		m.Progress = float64(a.weeks)
		return m.Current >= m.Target

	case models.RuleDistinctStores:
		m.Current = float64(a.stores)
		m.Progress = m.Current
		return m.Current >= m.Target

	case models.RuleAverageCeiling:
		m.Current = a.averageCO2()
		m.Progress = m.Current
		return a.count > 0 && m.Current <= m.Target
	}

	return false
}
