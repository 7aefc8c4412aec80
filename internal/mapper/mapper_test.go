package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarketToDomainDefaults(t *testing.T) {
	row := map[string]interface{}{
		"name":        "Edeka Musterstadt",
		"chain":       "Edeka",
		"postal_code": "4020",
		"city":        "Linz",
	}

	domain := MarketFields.ToDomain(row)

	assert.Equal(t, "Edeka Musterstadt", domain["name"])
	assert.Equal(t, "4020", domain["postalCode"])
	assert.Equal(t, 12, domain["visitFrequency"])
	assert.Equal(t, 0, domain["currentVisits"])
	assert.Equal(t, false, domain["completed"])
	// Absent optionals without defaults stay absent.
	_, ok := domain["latitude"]
	assert.False(t, ok)
	_, ok = domain["lastVisitDate"]
	assert.False(t, ok)
}

func TestMarketRoundTrip(t *testing.T) {
	row := map[string]interface{}{
		"name":            "Billa Plus Wien",
		"postal_code":     "1100",
		"visit_frequency": 6,
		"latitude":        48.17,
		"longitude":       16.38,
	}

	domain := MarketFields.ToDomain(row)
	back := MarketFields.ToRow(domain)

	assert.Equal(t, "Billa Plus Wien", back["name"])
	assert.Equal(t, "1100", back["postal_code"])
	assert.Equal(t, 6, back["visit_frequency"])
	assert.Equal(t, 48.17, back["latitude"])
}

func TestFoldCoordinates(t *testing.T) {
	domain := map[string]interface{}{
		"name":      "Spar Graz",
		"latitude":  47.07,
		"longitude": 15.43,
	}
	FoldCoordinates(domain)

	coords, ok := domain["coordinates"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, 47.07, coords["latitude"])
	assert.Equal(t, 15.43, coords["longitude"])
	_, ok = domain["latitude"]
	assert.False(t, ok)
}

func TestFoldCoordinatesPartial(t *testing.T) {
	// Only one half present: no coordinates object, flat keys removed.
	domain := map[string]interface{}{"latitude": 47.07}
	FoldCoordinates(domain)

	_, ok := domain["coordinates"]
	assert.False(t, ok)
	_, ok = domain["latitude"]
	assert.False(t, ok)
}

func TestExplodeCoordinates(t *testing.T) {
	domain := map[string]interface{}{
		"coordinates": map[string]interface{}{
			"latitude":  48.21,
			"longitude": 16.37,
		},
	}
	ExplodeCoordinates(domain)

	assert.Equal(t, 48.21, domain["latitude"])
	assert.Equal(t, 16.37, domain["longitude"])
	_, ok := domain["coordinates"]
	assert.False(t, ok)

	// Missing coordinates object is a no-op.
	empty := map[string]interface{}{"name": "x"}
	ExplodeCoordinates(empty)
	_, ok = empty["latitude"]
	assert.False(t, ok)
}

func TestProductDefaults(t *testing.T) {
	domain := ProductFields.ToDomain(map[string]interface{}{
		"name":       "Schoko-Riegel",
		"department": "food",
	})

	assert.Equal(t, "item", domain["kind"])
	assert.Equal(t, 0.0, domain["unitPrice"])
}
