package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 0, ClampQuantity(-5))
	assert.Equal(t, 0, ClampQuantity(0))
	assert.Equal(t, 17, ClampQuantity(17))
}

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity("  12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = ParseQuantity("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = ParseQuantity("-3")
	assert.Error(t, err)

	_, err = ParseQuantity("2.5")
	assert.Error(t, err)

	_, err = ParseQuantity("abc")
	assert.Error(t, err)
}

func TestTotals(t *testing.T) {
	lines := []Line{
		{Key: ItemKey{Kind: "display", ItemID: 1}, UnitValue: 49.90, Quantity: 2},
		{Key: ItemKey{Kind: "product", ItemID: 2}, UnitValue: 1.99, Quantity: 10},
		{Key: ItemKey{Kind: "box", ItemID: 3}, UnitValue: 12, Quantity: 0},
	}
	assert.InDelta(t, 119.70, TotalValue(lines), 0.001)
	assert.Equal(t, 12, TotalCount(lines))
}

func TestPalletAggregate(t *testing.T) {
	unitValues := map[int]float64{1: 2.50, 2: 4.00, 3: 1.20}
	quantities := map[int]int{1: 20, 2: 25, 3: 0}

	agg := PalletAggregate(unitValues, quantities)
	assert.InDelta(t, 150.0, agg, 0.001)
	assert.True(t, MeetsMinSpend(agg))
	assert.False(t, MeetsMinSpend(agg-0.01))
}

func TestGoalPercent(t *testing.T) {
	assert.InDelta(t, 50, GoalPercent(1000, 500), 0.001)
	assert.InDelta(t, 120, GoalPercent(500, 600), 0.001)
	assert.Equal(t, 0.0, GoalPercent(0, 500))
}
