// Package emission estimates the CO2 footprint of purchased items from a
// static per-category factor table.
package emission

import (
	"sort"
)

const (
	Food        = "Food"
	Electronics = "Electronics"
	Clothing    = "Clothing"
	HomeGarden  = "Home & Garden"
	Transport   = "Transport"
)

// Estimator maps (category, quantity, price) to kilograms of CO2.
type Estimator struct {
	Factors map[string]float64
	// Default is used for categories missing from Factors.
	Default float64
	// PriceWeighted scales the result by price/10.
	PriceWeighted bool
}

// Approval is used when an admin approves a pending item.
var Approval = Estimator{
	Factors: map[string]float64{
		Food:        2.5,
		Electronics: 15.0,
		Clothing:    8.0,
		HomeGarden:  5.0,
		Transport:   3.0,
	},
	Default:       5.0,
	PriceWeighted: true,
}

// AutoApproval is used when an item is approved at insert time.
var AutoApproval = Estimator{
	Factors: map[string]float64{
		Food:        2.5,
		Electronics: 8.0,
		Clothing:    5.5,
		HomeGarden:  3.0,
		Transport:   12.0,
	},
	Default: 3.0,
}

func (e Estimator) Factor(category string) float64 {
	if f, ok := e.Factors[category]; ok {
		return f
	}
	return e.Default
}

func (e Estimator) Estimate(category string, quantity int, price float64) float64 {
	if quantity < 0 {
		quantity = 0
	}
	if price < 0 {
		price = 0
	}

	co2 := e.Factor(category) * float64(quantity)
	if e.PriceWeighted {
		co2 *= price / 10
	}
	return co2
}

// Categories returns the categories known to either estimator.
func Categories() []string {
	seen := make(map[string]struct{})
	for _, e := range []Estimator{Approval, AutoApproval} {
		for c := range e.Factors {
			seen[c] = struct{}{}
		}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
