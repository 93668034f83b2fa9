package emission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApprovalEstimate(t *testing.T) {
	tests := []struct {
		name     string
		category string
		quantity int
		price    float64
		want     float64
	}{
		{"electronics single", Electronics, 1, 10, 15.0},
		{"food scaled by price", Food, 2, 20, 10.0},
		{"unknown category uses default", "Toys", 1, 10, 5.0},
		{"zero price", Clothing, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Approval.Estimate(tt.category, tt.quantity, tt.price), 1e-9)
		})
	}
}

func TestAutoApprovalIgnoresPrice(t *testing.T) {
	assert.InDelta(t, 5.0, AutoApproval.Estimate(Food, 2, 20), 1e-9)
	assert.InDelta(t, 5.0, AutoApproval.Estimate(Food, 2, 2000), 1e-9)
	assert.InDelta(t, 12.0, AutoApproval.Estimate(Transport, 1, 1), 1e-9)
	assert.InDelta(t, 6.0, AutoApproval.Estimate("Unlisted", 2, 1), 1e-9)
}

func TestEstimateNeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, Approval.Estimate(Food, -1, 10))
	assert.Equal(t, 0.0, Approval.Estimate(Food, 1, -10))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{Clothing, Electronics, Food, HomeGarden, Transport}, Categories())
}
