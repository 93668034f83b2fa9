package recommend

import (
	"testing"

	"ecobank/internal/emission"
	"ecobank/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approved(category, store string, co2 float64) models.ScannedItem {
	return models.ScannedItem{
		Name:      category + " item",
		Category:  category,
		Quantity:  1,
		Price:     10,
		CO2:       &co2,
		Status:    models.StatusApproved,
		StoreName: store,
	}
}

func repeat(n int, item models.ScannedItem) []models.ScannedItem {
	out := make([]models.ScannedItem, n)
	for i := range out {
		out[i] = item
	}
	return out
}

func ids(res Result) []string {
	out := make([]string, 0, len(res.Recommendations))
	for _, r := range res.Recommendations {
		out = append(out, r.ID)
	}
	return out
}

func find(res Result, id string) (Recommendation, bool) {
	for _, r := range res.Recommendations {
		if r.ID == id {
			return r, true
		}
	}
	return Recommendation{}, false
}

func TestRuleThresholds(t *testing.T) {
	food := approved(emission.Food, "Bravo", 1)

	tests := []struct {
		name  string
		items []models.ScannedItem
		id    string
		want  bool
	}{
		{"top category at ceiling", []models.ScannedItem{approved(emission.Transport, "Azpetrol", 20)}, "r1", false},
		{"top category above ceiling", []models.ScannedItem{approved(emission.Transport, "Azpetrol", 20.5)}, "r1", true},
		{"average at ceiling", []models.ScannedItem{approved(emission.Food, "Bravo", 5)}, "r2", false},
		{"average above ceiling", []models.ScannedItem{approved(emission.Food, "Bravo", 5.1)}, "r2", true},
		{"no electronics", []models.ScannedItem{food}, "r3", false},
		{"one electronics item", []models.ScannedItem{approved(emission.Electronics, "Kontakt", 1)}, "r3", true},
		{"three food items", repeat(3, food), "r4", false},
		{"four food items", repeat(4, food), "r4", true},
		{"five items at two stores", append(repeat(4, food), approved(emission.Food, "Araz", 1)), "r5", false},
		{"six items at two stores", append(repeat(5, food), approved(emission.Food, "Araz", 1)), "r5", true},
		{"six items at three stores", append(repeat(4, food), approved(emission.Food, "Araz", 1), approved(emission.Food, "Oba", 1)), "r5", false},
		{"monthly total at ceiling", repeat(5, approved(emission.Transport, "Azpetrol", 20)), "r6", false},
		{"monthly total above ceiling", append(repeat(5, approved(emission.Transport, "Azpetrol", 20)), approved(emission.Food, "Bravo", 0.5)), "r6", true},
		{"two clothing items", repeat(2, approved(emission.Clothing, "Zara", 1)), "r7", false},
		{"three clothing items", repeat(3, approved(emission.Clothing, "Zara", 1)), "r7", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := find(For(tt.items), tt.id)
			assert.Equal(t, tt.want, got, "rules fired: %v", ids(For(tt.items)))
		})
	}
}

func TestStatus(t *testing.T) {
	pending := approved(emission.Food, "Bravo", 50)
	pending.Status = models.StatusPending

	noCO2 := approved(emission.Food, "Bravo", 0)
	noCO2.CO2 = nil

	tests := []struct {
		name  string
		items []models.ScannedItem
		want  Status
	}{
		{"no items", nil, StatusNoItems},
		{"pending only", []models.ScannedItem{pending}, StatusAwaitingApproval},
		{"approved without co2", []models.ScannedItem{noCO2}, StatusAwaitingApproval},
		{"nothing to improve", []models.ScannedItem{approved(emission.Food, "Bravo", 1)}, StatusOnTrack},
		{"something to improve", []models.ScannedItem{approved(emission.Food, "Bravo", 30)}, StatusReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := For(tt.items)
			assert.Equal(t, tt.want, res.Status)
			assert.NotNil(t, res.Recommendations)
		})
	}
}

func TestPendingItemsAreIgnored(t *testing.T) {
	pending := approved(emission.Electronics, "Kontakt", 100)
	pending.Status = models.StatusPending

	res := For([]models.ScannedItem{pending, approved(emission.Food, "Bravo", 1)})
	assert.Equal(t, StatusOnTrack, res.Status)
}

func TestOrderedByPriority(t *testing.T) {
	items := append(repeat(5, approved(emission.Electronics, "Kontakt", 25)), approved(emission.Clothing, "Kontakt", 1))

	res := For(items)
	require.Equal(t, StatusReady, res.Status)
	assert.Equal(t, []string{"r1", "r2", "r6", "r3", "r5"}, ids(res))
}

func TestTopCategoryWording(t *testing.T) {
	res := For([]models.ScannedItem{
		approved(emission.Food, "Bravo", 25),
		approved("", "Bravo", 25),
	})

	rec, ok := find(res, "r1")
	require.True(t, ok)
	assert.Equal(t, "Reduce Food Purchases", rec.Title)
	assert.Equal(t, emission.Food, rec.Category)
	assert.Equal(t, "Your Food purchases contribute 25.0kg CO₂. Consider eco-friendly alternatives.", rec.Description)
	assert.Equal(t, "Save up to 7.5kg CO₂ monthly", rec.Impact)
	assert.Equal(t, PriorityHigh, rec.Priority)
}

func TestUncategorisedItemsCountAsOther(t *testing.T) {
	rec, ok := find(For([]models.ScannedItem{approved("", "Bravo", 30)}), "r1")
	require.True(t, ok)
	assert.Equal(t, "Other", rec.Category)
}

func TestMonthlyGoalImpact(t *testing.T) {
	rec, ok := find(For(repeat(6, approved(emission.Transport, "Azpetrol", 20))), "r6")
	require.True(t, ok)
	assert.Equal(t, "Target reduction of 40.0kg CO₂ to reach goal", rec.Impact)
}
