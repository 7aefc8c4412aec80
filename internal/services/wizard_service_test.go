package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/wizard"
)

type fakeWaveGetter struct {
	waves map[int]*models.Wave
}

func (f *fakeWaveGetter) Get(_ context.Context, id int) (*models.Wave, error) {
	if w, ok := f.waves[id]; ok {
		return w, nil
	}
	return nil, errors.New("not found")
}

type wizardFixture struct {
	svc    *WizardService
	submit *submitFixture
	waves  *fakeWaveGetter
	market *fakeMarketGetter
}

func newWizardFixture() *wizardFixture {
	submit := newSubmitFixture()
	waves := &fakeWaveGetter{waves: map[int]*models.Wave{}}
	markets := &fakeMarketGetter{markets: map[int]*models.Market{}}
	return &wizardFixture{
		svc:    NewWizardService(waves, markets, submit.pending, submit.svc),
		submit: submit,
		waves:  waves,
		market: markets,
	}
}

func TestWizardWaveRunEndToEnd(t *testing.T) {
	f := newWizardFixture()
	lastVisit := time.Now().Add(-5 * 24 * time.Hour)

	f.waves.waves[3] = &models.Wave{
		ID: 3, Name: "KW48-49", Active: true, PhotoRequired: true,
		PhotoTags: []models.WavePhotoTag{
			{Tag: "platzierung"},
			{Tag: "kassenzone", Optional: true},
		},
	}
	f.market.markets[12] = &models.Market{ID: 12, Name: "Edeka Musterstadt", LastVisitDate: &lastVisit}
	f.submit.pending.open = []*models.PendingDeliveryPhoto{
		{ID: 31, MarketID: 12, Tag: "lieferung"},
	}

	ctx := context.Background()
	sess := f.svc.Open(7)

	_, err := f.svc.ChooseWave(ctx, sess.ID, 3)
	require.NoError(t, err)
	require.Equal(t, wizard.StateSelectingMarket, sess.State)
	// Optional tag is not required.
	assert.Equal(t, []string{"platzierung"}, sess.RequiredPhotoTags)

	_, err = f.svc.ChooseMarket(ctx, sess.ID, 12)
	require.NoError(t, err)
	require.Equal(t, wizard.StateCheckingPendingPhotos, sess.State)

	require.NoError(t, f.svc.FulfillObligation(sess.ID, 31, []byte{0xff}))
	_, err = f.svc.Advance(ctx, sess.ID, wizard.ActionContinue)
	require.NoError(t, err)
	require.Equal(t, wizard.StateSelectingItems, sess.State)

	require.NoError(t, f.svc.SetQuantity(sess.ID, wizard.ItemKey{Kind: "display", ItemID: 5}, 49.90, 2))
	_, err = f.svc.Advance(ctx, sess.ID, wizard.ActionContinue)
	require.NoError(t, err)
	require.Equal(t, wizard.StatePhotoCapture, sess.State)

	require.NoError(t, f.svc.AttachPhoto(sess.ID, "platzierung", []byte{0x1}))
	_, err = f.svc.Advance(ctx, sess.ID, wizard.ActionContinue)
	require.NoError(t, err)
	// Visited 5 days ago: the visit choice screen appears.
	require.Equal(t, wizard.StateConfirmingVisit, sess.State)

	_, err = f.svc.Advance(ctx, sess.ID, wizard.ActionCountExisting)
	require.NoError(t, err)
	require.Equal(t, wizard.StateSuccess, sess.State)

	// The run persisted as one batch against the wave.
	created := f.submit.subs.created
	require.NotNil(t, created)
	require.NotNil(t, created.WaveID)
	assert.Equal(t, 3, *created.WaveID)
	assert.Equal(t, 12, created.MarketID)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 2, created.Items[0].Quantity)

	// Existing visit: nothing counted, market left alone.
	assert.Equal(t, 0, f.submit.markets.recorded)
	assert.Empty(t, f.submit.visits.visits)

	// The fulfilled obligation was resolved in the store.
	assert.Equal(t, []int{31}, f.submit.pending.fulfilled)

	// Wave totals advanced.
	require.Len(t, f.submit.waves.accumulated, 1)
	assert.InDelta(t, 99.80, f.submit.waves.accumulated[0].value, 0.001)
}

func TestWizardExchangeRunEndToEnd(t *testing.T) {
	f := newWizardFixture()
	f.market.markets[4] = &models.Market{ID: 4, Name: "Spar Graz"}

	ctx := context.Background()
	sess := f.svc.Open(7)

	_, err := f.svc.ChooseExchange(sess.ID)
	require.NoError(t, err)

	_, err = f.svc.ChooseMarket(ctx, sess.ID, 4)
	require.NoError(t, err)
	// No obligations, so the pending screen is skipped.
	require.Equal(t, wizard.StateSelectingItems, sess.State)

	require.NoError(t, f.svc.Increment(sess.ID, wizard.ItemKey{Kind: "product", ItemID: 2}, 1.99, 6))

	// No photo requirement and no prior visit: straight through to success.
	_, err = f.svc.Advance(ctx, sess.ID, wizard.ActionContinue)
	require.NoError(t, err)
	require.Equal(t, wizard.StateSuccess, sess.State)

	created := f.submit.subs.created
	require.NotNil(t, created)
	assert.Nil(t, created.WaveID)
	assert.Equal(t, 4, created.MarketID)

	// New visit recorded automatically.
	assert.Equal(t, 4, f.submit.markets.recorded)
	require.Len(t, f.submit.visits.visits, 1)
}

func TestWizardSubmitFailureReturnsToItems(t *testing.T) {
	f := newWizardFixture()
	f.market.markets[4] = &models.Market{ID: 4}
	f.submit.subs.failCreate = true

	ctx := context.Background()
	sess := f.svc.Open(7)

	_, err := f.svc.ChooseExchange(sess.ID)
	require.NoError(t, err)
	_, err = f.svc.ChooseMarket(ctx, sess.ID, 4)
	require.NoError(t, err)
	require.NoError(t, f.svc.SetQuantity(sess.ID, wizard.ItemKey{Kind: "product", ItemID: 2}, 1.99, 6))

	_, err = f.svc.Advance(ctx, sess.ID, wizard.ActionContinue)
	require.Error(t, err)
	require.Equal(t, wizard.StateSelectingItems, sess.State)
	assert.False(t, sess.Submitting)
	// Entered quantities survive for the retry.
	assert.Equal(t, 6, sess.Quantities[wizard.ItemKey{Kind: "product", ItemID: 2}])

	// The retry succeeds once the store recovers.
	f.submit.subs.failCreate = false
	_, err = f.svc.Advance(ctx, sess.ID, wizard.ActionContinue)
	require.NoError(t, err)
	require.Equal(t, wizard.StateSuccess, sess.State)
}

func TestWizardRejectsInactiveWave(t *testing.T) {
	f := newWizardFixture()
	f.waves.waves[9] = &models.Wave{ID: 9, Active: false}

	sess := f.svc.Open(7)
	_, err := f.svc.ChooseWave(context.Background(), sess.ID, 9)
	require.Error(t, err)
	require.Equal(t, wizard.StateSelectingTarget, sess.State)
}

func TestWizardUnknownSession(t *testing.T) {
	f := newWizardFixture()
	_, err := f.svc.Get("missing")
	require.ErrorIs(t, err, ErrNoSession)
}
