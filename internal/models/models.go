package models

import (
	"time"
)

type ItemStatus string

const (
	StatusPending  ItemStatus = "pending"
	StatusApproved ItemStatus = "approved"
)

type ScannedItem struct {
	ID         string     `json:"id" db:"id"`
	QRCode     string     `json:"qrCode" db:"qr_code"`
	Name       string     `json:"name" db:"name"`
	Category   string     `json:"category" db:"category"`
	Quantity   int        `json:"quantity" db:"quantity"`
	Price      float64    `json:"price" db:"price"`
	CO2        *float64   `json:"co2" db:"co2"`
	Status     ItemStatus `json:"status" db:"status"`
	ScannedAt  time.Time  `json:"scannedAt" db:"scanned_at"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty" db:"approved_at"`
	StoreName  string     `json:"storeName" db:"store_name"`
}

func (i ScannedItem) IsApproved() bool {
	return i.Status == StatusApproved
}

type BadgeTemplate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Stores      []string `json:"stores"`
	Discount    string   `json:"discount,omitempty"`
	Prizes      []string `json:"prizes,omitempty"`
}

// Badge is an earned instance of a BadgeTemplate.
type Badge struct {
	BadgeTemplate
	EarnedAt time.Time `json:"earnedAt" db:"earned_at"`
}

// Rule selects how a milestone aggregates its qualifying items.
type Rule int

const (
	RuleCount Rule = iota
	RuleCumulativeCeiling
	RuleConsecutiveWeeks
	RuleDistinctStores
	RuleAverageCeiling
)

func (r Rule) String() string {
	switch r {
	case RuleCount:
		return "count"
	case RuleCumulativeCeiling:
		return "cumulative_ceiling"
	case RuleConsecutiveWeeks:
		return "consecutive_weeks"
	case RuleDistinctStores:
		return "distinct_stores"
	case RuleAverageCeiling:
		return "average_ceiling"
	default:
		return "unknown"
	}
}

// Inverted reports whether a lower metric is better for the rule.
func (r Rule) Inverted() bool {
	return r == RuleCumulativeCeiling || r == RuleAverageCeiling
}

func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

type Milestone struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	BadgeID     string     `json:"badgeId" db:"badge_id"`
	Rule        Rule       `json:"rule"`
	Target      float64    `json:"target" db:"target"`
	Current     float64    `json:"current" db:"current"`
	Progress    float64    `json:"progress" db:"progress"`
	Completed   bool       `json:"completed" db:"completed"`
	StartedAt   *time.Time `json:"startedAt,omitempty" db:"started_at"`
}

// State returns the persisted subset of the milestone.
func (m Milestone) State() MilestoneState {
	return MilestoneState{
		ID:        m.ID,
		Current:   m.Current,
		Progress:  m.Progress,
		Completed: m.Completed,
		StartedAt: m.StartedAt,
	}
}

type MilestoneState struct {
	ID        string     `json:"id"`
	Current   float64    `json:"current"`
	Progress  float64    `json:"progress"`
	Completed bool       `json:"completed"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

// Snapshot is the whole persisted state, used for restore and for the
// local fallback cache.
type Snapshot struct {
	Items        []ScannedItem    `json:"items"`
	Badges       []Badge          `json:"badges"`
	ActiveBadges []string         `json:"activeBadges"`
	Milestones   []MilestoneState `json:"milestones"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0 && len(s.Badges) == 0 && len(s.ActiveBadges) == 0 && len(s.Milestones) == 0
}

type Stats struct {
	Total    int     `json:"total"`
	Pending  int     `json:"pending"`
	Approved int     `json:"approved"`
	TotalCO2 float64 `json:"totalCO2"`
}
