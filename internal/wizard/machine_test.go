package wizard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveFlowWithPhotosAndRecentVisit(t *testing.T) {
	now := time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)
	lastVisit := now.Add(-10 * 24 * time.Hour) // inside the recency window

	s := NewSession(7)
	require.Equal(t, StateSelectingTarget, s.State)

	// Cannot continue without a target.
	require.ErrorIs(t, s.Apply(ActionContinue, now), ErrNoTarget)

	s.SelectWave(3, true, []string{"platzierung", "zweitplatzierung"})
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateSelectingMarket, s.State)

	// Cannot continue without a market.
	require.ErrorIs(t, s.Apply(ActionContinue, now), ErrNoMarket)

	s.SelectMarket(12, &lastVisit, []Obligation{{ID: 1, Tag: "lieferung"}})
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateCheckingPendingPhotos, s.State)

	// Open obligation blocks the continue.
	require.ErrorIs(t, s.Apply(ActionContinue, now), ErrOpenObligations)

	require.NoError(t, s.SkipObligation(1))
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateSelectingItems, s.State)

	// Nothing selected yet.
	require.ErrorIs(t, s.Apply(ActionContinue, now), ErrNothingSelected)

	s.SetQuantity(ItemKey{Kind: "display", ItemID: 5}, 49.90, 2)
	s.SetQuantity(ItemKey{Kind: "product", ItemID: 9}, 3.20, 0)
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StatePhotoCapture, s.State)

	// Both required tags must be present.
	s.AttachPhoto("platzierung", []byte{0x1})
	require.ErrorIs(t, s.Apply(ActionContinue, now), ErrMissingPhotos)
	s.AttachPhoto("zweitplatzierung", []byte{0x2})

	// Market was visited 10 days ago, so the visit choice screen appears.
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateConfirmingVisit, s.State)

	require.NoError(t, s.Apply(ActionCountExisting, now))
	require.Equal(t, StateSubmitting, s.State)
	assert.Equal(t, VisitExisting, s.VisitChoice)
	assert.True(t, s.Submitting)

	require.NoError(t, s.Apply(ActionComplete, now))
	require.Equal(t, StateSuccess, s.State)
}

func TestExchangeFlowWithoutPhotos(t *testing.T) {
	now := time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)

	s := NewSession(7)
	s.SelectExchange()
	require.NoError(t, s.Apply(ActionContinue, now))

	// No prior visit, no obligations: straight to item selection.
	s.SelectMarket(4, nil, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateSelectingItems, s.State)

	s.SetQuantity(ItemKey{Kind: "product", ItemID: 2}, 1.99, 6)

	// Exchange carries no photo requirement and the market was never
	// visited, so continue goes directly into submitting with a new visit.
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateSubmitting, s.State)
	assert.Equal(t, VisitNew, s.VisitChoice)

	require.NoError(t, s.Apply(ActionComplete, now))
	require.Equal(t, StateSuccess, s.State)
}

func TestVisitChoiceSkippedOutsideRecencyWindow(t *testing.T) {
	now := time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)
	lastVisit := now.Add(-30 * 24 * time.Hour)

	s := NewSession(1)
	s.SelectWave(1, false, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SelectMarket(8, &lastVisit, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SetQuantity(ItemKey{Kind: "box", ItemID: 1}, 10, 1)

	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateSubmitting, s.State)
	assert.Equal(t, VisitNew, s.VisitChoice)
}

func TestDoubleSubmitRejected(t *testing.T) {
	now := time.Now()

	s := NewSession(1)
	s.SelectWave(1, false, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SelectMarket(8, nil, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SetQuantity(ItemKey{Kind: "product", ItemID: 1}, 2.50, 3)
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateSubmitting, s.State)

	// Simulate a retry while the persist call is in flight: the failed
	// transition below re-enters submitting, which must be rejected while
	// the flag is raised.
	s.State = StateConfirmingVisit
	require.ErrorIs(t, s.Apply(ActionCountNew, now), ErrAlreadySubmitting)
}

func TestFailKeepsEnteredData(t *testing.T) {
	now := time.Now()

	s := NewSession(1)
	s.SelectWave(1, false, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SelectMarket(8, nil, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SetQuantity(ItemKey{Kind: "product", ItemID: 1}, 2.50, 3)
	require.NoError(t, s.Apply(ActionContinue, now))

	require.NoError(t, s.Apply(ActionFail, now))
	require.Equal(t, StateSelectingItems, s.State)
	assert.False(t, s.Submitting)
	assert.Equal(t, 3, s.Quantities[ItemKey{Kind: "product", ItemID: 1}])

	// A second attempt is possible after the failure.
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateSubmitting, s.State)
}

func TestUnknownTransition(t *testing.T) {
	s := NewSession(1)
	require.ErrorIs(t, s.Apply(ActionComplete, time.Now()), ErrInvalidTransition)
}

func TestConcurrentSubmitSingleWinner(t *testing.T) {
	now := time.Now()

	s := NewSession(1)
	lastVisit := now.Add(-3 * 24 * time.Hour)
	s.SelectWave(1, false, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SelectMarket(8, &lastVisit, nil)
	require.NoError(t, s.Apply(ActionContinue, now))
	s.SetQuantity(ItemKey{Kind: "product", ItemID: 1}, 2.50, 3)
	require.NoError(t, s.Apply(ActionContinue, now))
	require.Equal(t, StateConfirmingVisit, s.State)

	// Overlapping requests both try to enter submitting; exactly one may
	// win and raise the in-flight flag.
	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Apply(ActionCountNew, now)
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, errors.Is(err, ErrAlreadySubmitting) || errors.Is(err, ErrInvalidTransition))
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, StateSubmitting, s.State)
	assert.True(t, s.Submitting)
}

func TestConcurrentQuantityEdits(t *testing.T) {
	s := NewSession(1)

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		key := ItemKey{Kind: "product", ItemID: i}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Increment(key, 1.0, 1)
			}
		}()
	}
	wg.Wait()

	lines := s.SelectedLines()
	require.Len(t, lines, writers)
	for _, l := range lines {
		assert.Equal(t, 50, l.Quantity)
	}
}

func TestSelectedLinesOrderedAndFiltered(t *testing.T) {
	s := NewSession(1)
	s.SetQuantity(ItemKey{Kind: "product", ItemID: 9}, 1.50, 2)
	s.SetQuantity(ItemKey{Kind: "display", ItemID: 4}, 30, 1)
	s.SetQuantity(ItemKey{Kind: "display", ItemID: 2}, 20, 0)
	s.SetQuantity(ItemKey{Kind: "box", ItemID: 7}, 12, 4)

	lines := s.SelectedLines()
	require.Len(t, lines, 3)
	assert.Equal(t, ItemKey{Kind: "box", ItemID: 7}, lines[0].Key)
	assert.Equal(t, ItemKey{Kind: "display", ItemID: 4}, lines[1].Key)
	assert.Equal(t, ItemKey{Kind: "product", ItemID: 9}, lines[2].Key)
}
