package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertrieb-backend/internal/invalidation"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/wizard"
)

type fakeSubmissionStore struct {
	created    *models.Submission
	photos     []*models.SubmissionPhoto
	failCreate bool
}

func (f *fakeSubmissionStore) Create(_ context.Context, s *models.Submission) error {
	if f.failCreate {
		return errors.New("database unavailable")
	}
	s.ID = 101
	f.created = s
	return nil
}

func (f *fakeSubmissionStore) AddPhoto(_ context.Context, p *models.SubmissionPhoto) error {
	f.photos = append(f.photos, p)
	return nil
}

func (f *fakeSubmissionStore) ListByGebietsleiter(context.Context, int) ([]*models.Submission, error) {
	return nil, nil
}

type accumulation struct {
	itemID int
	count  int
	value  float64
}

type fakeWaveStore struct {
	wave        *models.Wave
	accumulated []accumulation
}

func (f *fakeWaveStore) Get(_ context.Context, id int) (*models.Wave, error) {
	if f.wave == nil || f.wave.ID != id {
		return nil, errors.New("wave not found")
	}
	return f.wave, nil
}

func (f *fakeWaveStore) AccumulateItem(_ context.Context, itemID, count int, value float64) error {
	f.accumulated = append(f.accumulated, accumulation{itemID, count, value})
	return nil
}

type fakeMarketStore struct {
	recorded int
}

func (f *fakeMarketStore) RecordVisit(_ context.Context, id int, _ time.Time) error {
	f.recorded = id
	return nil
}

type fakeVisitLog struct {
	visits []*models.Visit
}

func (f *fakeVisitLog) Create(_ context.Context, v *models.Visit) error {
	f.visits = append(f.visits, v)
	return nil
}

type fakePendingStore struct {
	created   []*models.PendingDeliveryPhoto
	fulfilled []int
	skipped   []int
	open      []*models.PendingDeliveryPhoto
}

func (f *fakePendingStore) Create(_ context.Context, p *models.PendingDeliveryPhoto) error {
	f.created = append(f.created, p)
	return nil
}

func (f *fakePendingStore) ListOpenForMarket(context.Context, int) ([]*models.PendingDeliveryPhoto, error) {
	return f.open, nil
}

func (f *fakePendingStore) MarkFulfilled(_ context.Context, id int) error {
	f.fulfilled = append(f.fulfilled, id)
	return nil
}

func (f *fakePendingStore) MarkSkipped(_ context.Context, id int) error {
	f.skipped = append(f.skipped, id)
	return nil
}

type fakePhotoStore struct {
	uploads map[string][]byte
	fail    bool
}

func (f *fakePhotoStore) Upload(_ context.Context, key string, data []byte) error {
	if f.fail {
		return errors.New("bucket unreachable")
	}
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return nil
}

func (f *fakePhotoStore) Fetch(_ context.Context, key string) ([]byte, error) {
	data, ok := f.uploads[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

type submitFixture struct {
	svc     *SubmissionService
	subs    *fakeSubmissionStore
	waves   *fakeWaveStore
	markets *fakeMarketStore
	visits  *fakeVisitLog
	pending *fakePendingStore
	photos  *fakePhotoStore
}

func newSubmitFixture() *submitFixture {
	f := &submitFixture{
		subs: &fakeSubmissionStore{},
		waves: &fakeWaveStore{wave: &models.Wave{
			ID: 3,
			Items: []models.WaveItem{
				{ID: 5, Kind: "display"},
				{ID: 4, Kind: "box"},
				{ID: 9, Kind: "product"},
			},
		}},
		markets: &fakeMarketStore{},
		visits:  &fakeVisitLog{},
		pending: &fakePendingStore{},
		photos:  &fakePhotoStore{},
	}
	f.svc = NewSubmissionService(f.subs, f.waves, f.markets, f.visits, f.pending, f.photos, invalidation.New(nil))
	return f
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestSubmitWaveFlow(t *testing.T) {
	f := newSubmitFixture()

	sub, err := f.svc.Submit(context.Background(), SubmitInput{
		MarketID:        12,
		GebietsleiterID: 7,
		WaveID:          intPtr(3),
		Lines: []models.SubmissionLine{
			{Kind: "display", ItemID: 5, Quantity: 2, UnitValue: floatPtr(49.90)},
			{Kind: "product", ItemID: 9, Quantity: 0, UnitValue: floatPtr(3.20)},
			{Kind: "box", ItemID: 4, Quantity: 3},
		},
		Photos: []models.PhotoUpload{
			{Tag: "platzierung", Name: "platzierung.jpg", Data: []byte{0x1}},
		},
		RequiredTags: []string{"platzierung"},
		VisitChoice:  wizard.VisitNew,
	})
	require.NoError(t, err)

	// Zero-quantity line dropped.
	require.Len(t, sub.Items, 2)
	assert.Equal(t, 5, sub.Items[0].ItemID)
	assert.Equal(t, 4, sub.Items[1].ItemID)

	// Wave totals advanced; nil unit value accumulates as zero money.
	require.Len(t, f.waves.accumulated, 2)
	assert.InDelta(t, 99.80, f.waves.accumulated[0].value, 0.001)
	assert.Equal(t, 0.0, f.waves.accumulated[1].value)

	// New visit recorded and logged.
	assert.Equal(t, 12, f.markets.recorded)
	require.Len(t, f.visits.visits, 1)
	assert.Equal(t, 7, f.visits.visits[0].GebietsleiterID)

	// Photo stored under the market/submission key; no pending obligation.
	assert.Contains(t, f.photos.uploads, "photos/12/101/platzierung.jpg")
	require.Len(t, f.subs.photos, 1)
	assert.Empty(t, f.pending.created)
}

func TestSubmitExchangeFoldsIntoExistingVisit(t *testing.T) {
	f := newSubmitFixture()

	sub, err := f.svc.Submit(context.Background(), SubmitInput{
		MarketID:        4,
		GebietsleiterID: 7,
		Lines: []models.SubmissionLine{
			{Kind: "product", ItemID: 2, Quantity: 6, UnitValue: floatPtr(1.99)},
		},
		VisitChoice: wizard.VisitExisting,
	})
	require.NoError(t, err)
	assert.Nil(t, sub.WaveID)

	// Folding into an existing visit leaves the market untouched: no new
	// visit, no counter bump, no last-visit refresh.
	assert.Equal(t, 0, f.markets.recorded)
	assert.Empty(t, f.visits.visits)
	assert.Empty(t, f.waves.accumulated)
}

func TestSubmitSkipsLinesOutsideWave(t *testing.T) {
	f := newSubmitFixture()

	// The product line shares its ID with the wave's display item but lives
	// in the catalog table; it must not advance the wave totals.
	sub, err := f.svc.Submit(context.Background(), SubmitInput{
		MarketID:        12,
		GebietsleiterID: 7,
		WaveID:          intPtr(3),
		Lines: []models.SubmissionLine{
			{Kind: "display", ItemID: 5, Quantity: 2, UnitValue: floatPtr(49.90)},
			{Kind: "product", ItemID: 5, Quantity: 4, UnitValue: floatPtr(2.20)},
			{Kind: "product", ItemID: 777, Quantity: 1, UnitValue: floatPtr(1.10)},
		},
		VisitChoice: wizard.VisitNew,
	})
	require.NoError(t, err)
	require.Len(t, sub.Items, 3)

	require.Len(t, f.waves.accumulated, 1)
	assert.Equal(t, 5, f.waves.accumulated[0].itemID)
	assert.Equal(t, 2, f.waves.accumulated[0].count)
	assert.InDelta(t, 99.80, f.waves.accumulated[0].value, 0.001)
}

func TestSubmitRejectsEmptySelection(t *testing.T) {
	f := newSubmitFixture()

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		MarketID:        4,
		GebietsleiterID: 7,
		Lines: []models.SubmissionLine{
			{Kind: "product", ItemID: 2, Quantity: 0},
		},
		VisitChoice: wizard.VisitNew,
	})
	require.Error(t, err)
	assert.Nil(t, f.subs.created)
}

func TestSubmitPhotoUploadFailureCreatesObligation(t *testing.T) {
	f := newSubmitFixture()
	f.photos.fail = true

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		MarketID:        12,
		GebietsleiterID: 7,
		WaveID:          intPtr(3),
		Lines: []models.SubmissionLine{
			{Kind: "display", ItemID: 5, Quantity: 1, UnitValue: floatPtr(49.90)},
		},
		Photos: []models.PhotoUpload{
			{Tag: "platzierung", Name: "platzierung.jpg", Data: []byte{0x1}},
		},
		RequiredTags: []string{"platzierung"},
		VisitChoice:  wizard.VisitNew,
	})

	// Order data survives the storage outage.
	require.NoError(t, err)
	require.NotNil(t, f.subs.created)
	assert.Empty(t, f.subs.photos)

	// The unfulfilled required tag becomes a pending obligation.
	require.Len(t, f.pending.created, 1)
	assert.Equal(t, "platzierung", f.pending.created[0].Tag)
	assert.Equal(t, 12, f.pending.created[0].MarketID)
	assert.Equal(t, 101, f.pending.created[0].SubmissionID)
}

func TestSubmitResolvesCarriedObligations(t *testing.T) {
	f := newSubmitFixture()

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		MarketID:        12,
		GebietsleiterID: 7,
		Lines: []models.SubmissionLine{
			{Kind: "product", ItemID: 1, Quantity: 2, UnitValue: floatPtr(2.50)},
		},
		VisitChoice:     wizard.VisitNew,
		ResolvedPending: []int{31},
		SkippedPending:  []int{44, 45},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{31}, f.pending.fulfilled)
	assert.Equal(t, []int{44, 45}, f.pending.skipped)
}
