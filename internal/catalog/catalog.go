// Package catalog holds the fixed badge templates and the milestone
// definition that unlocks each of them.
package catalog

import (
	"ecobank/internal/models"
)

const AllStores = "All participating stores"

var templates = []models.BadgeTemplate{
	{
		ID:          "b1",
		Name:        "Eco Shopper",
		Description: "Purchased 10+ eco-friendly items",
		Icon:        "🛒",
		Stores:      []string{"Araz Market", "Bravo Supermarket", "Bazarstore"},
		Discount:    "5% off eco-friendly products",
		Prizes: []string{
			"5% discount at participating stores",
			"Eco-friendly tote bag",
			"Priority checkout lanes",
			"Access to exclusive eco products",
			"Monthly newsletter with sustainability tips",
		},
	},
	{
		ID:          "b2",
		Name:        "Conscious Buyer",
		Description: "Maintaining low carbon footprint",
		Icon:        "💚",
		Stores:      []string{"Araz Market", "Bravo Supermarket", "Bazarstore", "Port Baku Mall"},
		Discount:    "10% off eco-friendly products",
		Prizes: []string{
			"10% discount at all stores",
			"Reusable shopping bags set",
			"Free eco-friendly products monthly",
			"Early access to sales",
			"Personalized carbon reduction plan",
		},
	},
	{
		ID:          "b3",
		Name:        "Green Hero",
		Description: "Monthly footprint under 80kg CO₂",
		Icon:        "🏆",
		Stores:      []string{AllStores},
		Discount:    "15% off eco-friendly products",
		Prizes: []string{
			"15% discount everywhere",
			"Exclusive green card benefits",
			"Carbon offset certificate",
			"VIP customer support",
			"Invitation to sustainability events",
		},
	},
	{
		ID:          "b4",
		Name:        "Carbon Saver",
		Description: "Keep monthly CO₂ under 50kg",
		Icon:        "🌱",
		Stores:      []string{"Araz Market", "Bravo Supermarket", "Bazarstore"},
		Discount:    "8% off all purchases",
		Prizes: []string{
			"8% discount on all purchases",
			"Carbon footprint analysis report",
			"Eco-friendly starter kit",
			"Free delivery on eco products",
			"Sustainability consultation session",
		},
	},
	{
		ID:          "b5",
		Name:        "Weekly Tracker",
		Description: "Scan receipts for 4 consecutive weeks",
		Icon:        "📅",
		Stores:      []string{AllStores},
		Discount:    "7% off weekly purchases",
		Prizes: []string{
			"7% weekly discount",
			"Habit tracking dashboard access",
			"Weekly sustainability tips",
			"Bonus points multiplier",
			"Achievement certificate",
		},
	},
	{
		ID:          "b6",
		Name:        "Eco Explorer",
		Description: "Shop at 5+ different eco-friendly stores",
		Icon:        "🗺️",
		Stores:      []string{AllStores},
		Discount:    "12% off at new stores",
		Prizes: []string{
			"12% discount at new stores",
			"Store discovery guide",
			"Exclusive store partnerships",
			"Store loyalty points",
			"Eco store directory access",
		},
	},
	{
		ID:          "b7",
		Name:        "Low Impact Master",
		Description: "Maintain average CO₂ per item under 3kg",
		Icon:        "⭐",
		Stores:      []string{AllStores},
		Discount:    "10% off low-carbon products",
		Prizes: []string{
			"10% discount on low-carbon items",
			"Advanced carbon calculator",
			"Personalized product recommendations",
			"Impact reduction report",
			"Master sustainability badge",
		},
	},
	{
		ID:          "b8",
		Name:        "Sustainability Champion",
		Description: "Scan 25+ receipts",
		Icon:        "👑",
		Stores:      []string{AllStores},
		Discount:    "20% off all purchases",
		Prizes: []string{
			"20% discount everywhere",
			"Champion status recognition",
			"Exclusive merchandise",
			"Annual sustainability report",
			"Invitation to join eco ambassador program",
		},
	},
}

var milestones = []models.Milestone{
	{ID: "m1", Name: "First Scan", Description: "Scan your first receipt", BadgeID: "b1", Rule: models.RuleCount, Target: 1},
	{ID: "m2", Name: "Eco Warrior", Description: "Scan 5 receipts", BadgeID: "b2", Rule: models.RuleCount, Target: 5},
	{ID: "m3", Name: "Green Champion", Description: "Scan 10 receipts", BadgeID: "b3", Rule: models.RuleCount, Target: 10},
	{ID: "m4", Name: "Carbon Saver", Description: "Keep monthly CO₂ under 50kg", BadgeID: "b4", Rule: models.RuleCumulativeCeiling, Target: 50},
	{ID: "m5", Name: "Weekly Tracker", Description: "Scan receipts for 4 consecutive weeks", BadgeID: "b5", Rule: models.RuleConsecutiveWeeks, Target: 4},
	{ID: "m6", Name: "Eco Explorer", Description: "Shop at 5+ different eco-friendly stores", BadgeID: "b6", Rule: models.RuleDistinctStores, Target: 5},
	{ID: "m7", Name: "Low Impact Master", Description: "Maintain average CO₂ per item under 3kg", BadgeID: "b7", Rule: models.RuleAverageCeiling, Target: 3},
	{ID: "m8", Name: "Sustainability Champion", Description: "Scan 25+ receipts", BadgeID: "b8", Rule: models.RuleCount, Target: 25},
}

// Templates returns every badge template in catalog order.
func Templates() []models.BadgeTemplate {
	out := make([]models.BadgeTemplate, len(templates))
	for i, t := range templates {
		out[i] = cloneTemplate(t)
	}
	return out
}

func Template(id string) (models.BadgeTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return cloneTemplate(t), true
		}
	}
	return models.BadgeTemplate{}, false
}

// Milestones returns a fresh set of default milestones, one per template.
func Milestones() []models.Milestone {
	out := make([]models.Milestone, len(milestones))
	copy(out, milestones)
	return out
}

func cloneTemplate(t models.BadgeTemplate) models.BadgeTemplate {
	t.Stores = append([]string(nil), t.Stores...)
	t.Prizes = append([]string(nil), t.Prizes...)
	return t
}
