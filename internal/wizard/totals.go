package wizard

import (
	"errors"
	"strconv"
	"strings"
)

// MinSpendThreshold is the campaign minimum-spend guidance for pallet/bin
// aggregates, in EUR. Displayed to the GL, never blocking.
const MinSpendThreshold = 150.0

// ItemKey identifies one candidate line across all item groups.
type ItemKey struct {
	Kind   string
	ItemID int
}

// Line is one candidate line of the selection snapshot.
type Line struct {
	Key       ItemKey
	UnitValue float64
	Quantity  int
}

// ClampQuantity clamps a quantity to >= 0.
func ClampQuantity(q int) int {
	if q < 0 {
		return 0
	}
	return q
}

// ParseQuantity parses free-text quantity input. Empty string counts as 0;
// anything that is not a non-negative integer is rejected.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("quantity must be a non-negative integer")
	}
	return n, nil
}

// TotalValue sums quantity x unit value over a selection snapshot.
func TotalValue(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnitValue
	}
	return total
}

// TotalCount sums quantities over a selection snapshot.
func TotalCount(lines []Line) int {
	var total int
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

// PalletAggregate computes the monetary contribution of a pallet or bin:
// the sum over constituent lines of (line quantity x line unit value).
func PalletAggregate(unitValues map[int]float64, quantities map[int]int) float64 {
	var total float64
	for id, qty := range quantities {
		total += float64(qty) * unitValues[id]
	}
	return total
}

// MeetsMinSpend reports whether a pallet/bin aggregate clears the
// minimum-spend guidance threshold.
func MeetsMinSpend(aggregate float64) bool {
	return aggregate >= MinSpendThreshold
}

// GoalPercent derives goal progress from accumulated value against the goal
// definition. Percent goals express goalValue as the target; absolute goals
// are currency against currency. A zero goal reads as 0 percent.
func GoalPercent(goalValue, currentValue float64) float64 {
	if goalValue <= 0 {
		return 0
	}
	return currentValue / goalValue * 100
}
