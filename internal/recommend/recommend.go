// Package recommend derives carbon reduction tips from approved purchases.
package recommend

import (
	"fmt"
	"sort"

	"ecobank/internal/emission"
	"ecobank/internal/models"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Status summarises why the recommendation list looks the way it does.
type Status string

const (
	StatusNoItems          Status = "no_items"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusOnTrack          Status = "on_track"
	StatusReady            Status = "ready"
)

// Rule thresholds; CO2 values are in kg.
const (
	topCategoryCeiling = 20.0
	averageItemCeiling = 5.0
	foodCountCeiling   = 3
	clothingCountLimit = 2
	fewStores          = 3
	fewStoresMinItems  = 5
	monthlyCeiling     = 100.0
	monthlyGoal        = 80.0
	otherCategoryLabel = "Other"
)

type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
}

type Result struct {
	Status          Status           `json:"status"`
	Recommendations []Recommendation `json:"recommendations"`
}

type categoryTotals struct {
	name       string
	count      int
	totalCO2   float64
	totalPrice float64
}

type profile struct {
	approved   int
	totalCO2   float64
	categories []*categoryTotals
	byName     map[string]*categoryTotals
	stores     map[string]int
}

func (p profile) average() float64 {
	if p.approved == 0 {
		return 0
	}
	return p.totalCO2 / float64(p.approved)
}

func (p profile) category(name string) categoryTotals {
	if c, ok := p.byName[name]; ok {
		return *c
	}
	return categoryTotals{name: name}
}

// topCategory is the category with the highest total CO2; ties go to the
// category seen first.
func (p profile) topCategory() (categoryTotals, bool) {
	var top *categoryTotals
	for _, c := range p.categories {
		if top == nil || c.totalCO2 > top.totalCO2 {
			top = c
		}
	}
	if top == nil {
		return categoryTotals{}, false
	}
	return *top, true
}

func buildProfile(items []models.ScannedItem) profile {
	p := profile{
		byName: make(map[string]*categoryTotals),
		stores: make(map[string]int),
	}

	for _, item := range items {
		if !item.IsApproved() || item.CO2 == nil {
			continue
		}
		p.approved++
		p.totalCO2 += *item.CO2

		name := item.Category
		if name == "" {
			name = otherCategoryLabel
		}
		c, ok := p.byName[name]
		if !ok {
			c = &categoryTotals{name: name}
			p.byName[name] = c
			p.categories = append(p.categories, c)
		}
		c.count++
		c.totalCO2 += *item.CO2
		c.totalPrice += item.Price

		p.stores[item.StoreName]++
	}
	return p
}

// For evaluates every rule against items and returns the matches ordered
// high, medium, low. Rules of equal priority keep their rule order.
func For(items []models.ScannedItem) Result {
	p := buildProfile(items)

	switch {
	case len(items) == 0:
		return Result{Status: StatusNoItems, Recommendations: []Recommendation{}}
	case p.approved == 0:
		return Result{Status: StatusAwaitingApproval, Recommendations: []Recommendation{}}
	}

	recs := []Recommendation{}

	if top, ok := p.topCategory(); ok && top.totalCO2 > topCategoryCeiling {
		recs = append(recs, Recommendation{
			ID:          "r1",
			Title:       fmt.Sprintf("Reduce %s Purchases", top.name),
			Description: fmt.Sprintf("Your %s purchases contribute %.1fkg CO₂. Consider eco-friendly alternatives.", top.name, top.totalCO2),
			Impact:      fmt.Sprintf("Save up to %.1fkg CO₂ monthly", top.totalCO2*0.3),
			Category:    top.name,
			Priority:    PriorityHigh,
		})
	}

	if avg := p.average(); avg > averageItemCeiling {
		recs = append(recs, Recommendation{
			ID:          "r2",
			Title:       "Choose Lower Carbon Products",
			Description: fmt.Sprintf("Your average CO₂ per item is %.1fkg. Look for products with lower carbon footprints.", avg),
			Impact:      fmt.Sprintf("Reduce footprint by up to %.1fkg per item", avg*0.4),
			Category:    "General",
			Priority:    PriorityHigh,
		})
	}

	if electronics := p.category(emission.Electronics); electronics.count > 0 {
		recs = append(recs, Recommendation{
			ID:          "r3",
			Title:       "Consider Refurbished Electronics",
			Description: "Electronics have high carbon footprints. Consider buying refurbished or energy-efficient models.",
			Impact:      fmt.Sprintf("Save up to %.1fkg CO₂", electronics.totalCO2*0.5),
			Category:    emission.Electronics,
			Priority:    PriorityMedium,
		})
	}

	if food := p.category(emission.Food); food.count > foodCountCeiling {
		recs = append(recs, Recommendation{
			ID:          "r4",
			Title:       "Buy Local & Seasonal Food",
			Description: "Choose locally sourced and seasonal produce to reduce transportation emissions.",
			Impact:      fmt.Sprintf("Reduce food footprint by up to %.1fkg CO₂", food.totalCO2*0.25),
			Category:    emission.Food,
			Priority:    PriorityMedium,
		})
	}

	if stores := len(p.stores); stores < fewStores && p.approved > fewStoresMinItems {
		recs = append(recs, Recommendation{
			ID:          "r5",
			Title:       "Explore Eco-Friendly Stores",
			Description: fmt.Sprintf("You shop at %d store(s). Try eco-friendly stores for better carbon footprint options.", stores),
			Impact:      "Access to lower-carbon products and exclusive eco discounts",
			Category:    "Shopping",
			Priority:    PriorityLow,
		})
	}

	if p.totalCO2 > monthlyCeiling {
		recs = append(recs, Recommendation{
			ID:          "r6",
			Title:       "Monthly Carbon Goal",
			Description: fmt.Sprintf("Your monthly footprint is %.1fkg CO₂. Aim to reduce it below %.0fkg for better environmental impact.", p.totalCO2, monthlyGoal),
			Impact:      fmt.Sprintf("Target reduction of %.1fkg CO₂ to reach goal", p.totalCO2-monthlyGoal),
			Category:    "Overall",
			Priority:    PriorityHigh,
		})
	}

	if clothing := p.category(emission.Clothing); clothing.count > clothingCountLimit {
		recs = append(recs, Recommendation{
			ID:          "r7",
			Title:       "Choose Sustainable Fashion",
			Description: "Consider buying second-hand, organic, or sustainably-made clothing to reduce your fashion footprint.",
			Impact:      fmt.Sprintf("Save up to %.1fkg CO₂", clothing.totalCO2*0.4),
			Category:    emission.Clothing,
			Priority:    PriorityMedium,
		})
	}

	if len(recs) == 0 {
		return Result{Status: StatusOnTrack, Recommendations: recs}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.rank() < recs[j].Priority.rank()
	})
	return Result{Status: StatusReady, Recommendations: recs}
}
