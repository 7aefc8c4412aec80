package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vertrieb-backend/internal/models"
)

func TestBalance(t *testing.T) {
	removed := []models.ExchangeItem{
		{Name: "Riegel alt", Quantity: 10, UnitPrice: 1.20},
		{Name: "Drink alt", Quantity: 5, UnitPrice: 2.00},
	}
	replacement := []models.ExchangeItem{
		{Name: "Riegel neu", Quantity: 8, UnitPrice: 1.50},
	}

	b := Balance(removed, replacement)
	assert.InDelta(t, 22.00, b.RemovedValue, 0.001)
	assert.InDelta(t, 12.00, b.ReplacementValue, 0.001)
	assert.InDelta(t, -10.00, b.Delta, 0.001)
	assert.False(t, b.Balanced)
}

func TestBalanceNeutralSwap(t *testing.T) {
	removed := []models.ExchangeItem{{Quantity: 4, UnitPrice: 2.50}}
	replacement := []models.ExchangeItem{{Quantity: 5, UnitPrice: 2.00}}

	b := Balance(removed, replacement)
	assert.True(t, b.Balanced)
	assert.InDelta(t, 0, b.Delta, 0.001)
}

func TestBalanceEmpty(t *testing.T) {
	b := Balance(nil, nil)
	assert.True(t, b.Balanced)
	assert.Equal(t, 0.0, b.RemovedValue)
}
