package tour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(0, ModeCar))
	assert.Equal(t, 45, Estimate(1, ModeCar))
	assert.Equal(t, 3*45+2*15, Estimate(3, ModeCar))
	assert.Equal(t, 3*45+2*25, Estimate(3, ModeBike))
	assert.Equal(t, 3*45+2*40, Estimate(3, ModeWalk))
}

func TestPlanFlow(t *testing.T) {
	p := NewPlan()

	require.ErrorIs(t, p.Continue(), ErrNoSelection)

	require.NoError(t, p.Toggle(3))
	require.NoError(t, p.Toggle(7))
	require.NoError(t, p.Toggle(5))
	// Toggling again removes.
	require.NoError(t, p.Toggle(7))
	require.NoError(t, p.Toggle(7))
	assert.Equal(t, []int{3, 5, 7}, p.Selected)

	require.NoError(t, p.Continue())
	require.Equal(t, StateTransportPrompt, p.State)

	require.ErrorIs(t, p.ChooseMode("horse"), ErrUnknownMode)
	require.NoError(t, p.ChooseMode(ModeBike))
	require.Equal(t, StateResult, p.State)
	assert.Equal(t, []int{3, 5, 7}, p.Order)
	assert.Equal(t, 3*45+2*25, p.TotalMinutes)
}

func TestReorderInvalidatesEstimate(t *testing.T) {
	p := NewPlan()
	require.NoError(t, p.Toggle(1))
	require.NoError(t, p.Toggle(2))
	require.NoError(t, p.Toggle(3))
	require.NoError(t, p.Continue())
	require.NoError(t, p.ChooseMode(ModeCar))

	// A reorder must be a permutation of the planned stops.
	require.ErrorIs(t, p.Reorder([]int{1, 2}), ErrBadOrder)
	require.ErrorIs(t, p.Reorder([]int{1, 2, 4}), ErrBadOrder)
	require.ErrorIs(t, p.Reorder([]int{1, 1, 2}), ErrBadOrder)

	require.NoError(t, p.Reorder([]int{3, 1, 2}))
	assert.True(t, p.Modified)
	assert.Equal(t, []int{3, 1, 2}, p.Order)

	require.NoError(t, p.Recompute())
	assert.False(t, p.Modified)
	assert.Equal(t, 3*45+2*15, p.TotalMinutes)
}

func TestBackReturnsToSelection(t *testing.T) {
	p := NewPlan()
	require.NoError(t, p.Toggle(1))
	require.NoError(t, p.Toggle(2))
	require.NoError(t, p.Continue())
	require.NoError(t, p.ChooseMode(ModeWalk))

	require.NoError(t, p.Back())
	require.Equal(t, StateSelection, p.State)
	assert.Nil(t, p.Order)
	assert.Equal(t, 0, p.TotalMinutes)
	// Selection and mode survive; continue re-runs the estimate without
	// prompting for the mode again.
	assert.Equal(t, []int{1, 2}, p.Selected)

	require.NoError(t, p.Continue())
	require.Equal(t, StateResult, p.State)
	assert.Equal(t, 2*45+40, p.TotalMinutes)
}

func TestBackOnlyFromResult(t *testing.T) {
	p := NewPlan()
	require.ErrorIs(t, p.Back(), ErrWrongState)
	require.NoError(t, p.Toggle(1))
	require.NoError(t, p.Continue())
	require.ErrorIs(t, p.Back(), ErrWrongState)
}
