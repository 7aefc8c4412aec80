package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertrieb-backend/internal/models"
)

type fakeNaraStore struct {
	created []*models.NaraSubmission
	all     []*models.NaraSubmission
}

func (f *fakeNaraStore) Create(_ context.Context, s *models.NaraSubmission) error {
	s.ID = len(f.created) + 1
	f.created = append(f.created, s)
	return nil
}

func (f *fakeNaraStore) ListAll(context.Context) ([]*models.NaraSubmission, error) {
	return f.all, nil
}

type fakeMarketGetter struct {
	markets map[int]*models.Market
}

func (f *fakeMarketGetter) Get(_ context.Context, id int) (*models.Market, error) {
	if m, ok := f.markets[id]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

type fakeProductGetter struct {
	products map[int]*models.Product
}

func (f *fakeProductGetter) Get(_ context.Context, id int) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func TestNaraCreateDropsZeroQuantities(t *testing.T) {
	store := &fakeNaraStore{}
	svc := NewNaraService(store, &fakeMarketGetter{}, &fakeProductGetter{})

	sub, err := svc.Create(context.Background(), 7, models.CreateNaraRequest{
		MarketID: 3,
		Items: []models.NaraItemInput{
			{ProductID: 1, Quantity: 4},
			{ProductID: 2, Quantity: 0},
			{ProductID: 3, Quantity: -2},
		},
	})
	require.NoError(t, err)
	require.Len(t, sub.Items, 1)
	assert.Equal(t, 1, sub.Items[0].ProductID)

	_, err = svc.Create(context.Background(), 7, models.CreateNaraRequest{
		MarketID: 3,
		Items:    []models.NaraItemInput{{ProductID: 1, Quantity: 0}},
	})
	assert.Error(t, err)
}

func TestNaraGrouped(t *testing.T) {
	day1 := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	day1Later := time.Date(2025, 11, 20, 16, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)

	store := &fakeNaraStore{all: []*models.NaraSubmission{
		{MarketID: 3, SubmittedAt: day1, Items: []models.NaraItem{{ProductID: 1, Quantity: 2}}},
		{MarketID: 3, SubmittedAt: day1Later, Items: []models.NaraItem{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 1},
		}},
		{MarketID: 3, SubmittedAt: day2, Items: []models.NaraItem{{ProductID: 1, Quantity: 5}}},
		{MarketID: 4, SubmittedAt: day1, Items: []models.NaraItem{{ProductID: 2, Quantity: 7}}},
	}}
	markets := &fakeMarketGetter{markets: map[int]*models.Market{
		3: {ID: 3, Name: "Edeka Musterstadt"},
		4: {ID: 4, Name: "Billa Plus Wien"},
	}}

	svc := NewNaraService(store, markets, &fakeProductGetter{})
	groups, err := svc.Grouped(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 3)

	// Same market, same day: quantities sum across submissions.
	assert.Equal(t, "Edeka Musterstadt", groups[0].MarketName)
	assert.Equal(t, "2025-11-20", groups[0].Day)
	assert.Equal(t, 5, groups[0].Quantities[1])
	assert.Equal(t, 1, groups[0].Quantities[2])
	assert.Equal(t, 6, groups[0].Total)

	// Same market, next day: separate group.
	assert.Equal(t, "2025-11-21", groups[1].Day)
	assert.Equal(t, 5, groups[1].Total)

	// Other market keeps its own group.
	assert.Equal(t, "Billa Plus Wien", groups[2].MarketName)
	assert.Equal(t, 7, groups[2].Total)
}
