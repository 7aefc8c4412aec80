package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/timeutil"
)

type NaraStore interface {
	Create(ctx context.Context, s *models.NaraSubmission) error
	ListAll(ctx context.Context) ([]*models.NaraSubmission, error)
}

type ProductGetter interface {
	Get(ctx context.Context, id int) (*models.Product, error)
}

type NaraService struct {
	Repo     NaraStore
	Markets  MarketGetter
	Products ProductGetter
}

func NewNaraService(repo NaraStore, markets MarketGetter, products ProductGetter) *NaraService {
	return &NaraService{Repo: repo, Markets: markets, Products: products}
}

func (s *NaraService) Create(ctx context.Context, glID int, req models.CreateNaraRequest) (*models.NaraSubmission, error) {
	if req.MarketID == 0 {
		return nil, errors.New("market is required")
	}
	sub := &models.NaraSubmission{
		MarketID:        req.MarketID,
		GebietsleiterID: glID,
		SubmittedAt:     timeutil.Now(),
	}
	for _, in := range req.Items {
		if in.Quantity <= 0 {
			continue
		}
		sub.Items = append(sub.Items, models.NaraItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		})
	}
	if len(sub.Items) == 0 {
		return nil, errors.New("at least one product with a positive quantity is required")
	}
	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Grouped aggregates all submissions per market and calendar day, summing
// quantities per product across same-day submissions to the same market.
func (s *NaraService) Grouped(ctx context.Context) ([]models.NaraGroup, error) {
	subs, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		marketID int
		day      string
	}
	groups := make(map[groupKey]*models.NaraGroup)
	var order []groupKey
	for _, sub := range subs {
		key := groupKey{sub.MarketID, timeutil.In(sub.SubmittedAt).Format("2006-01-02")}
		g, ok := groups[key]
		if !ok {
			g = &models.NaraGroup{
				MarketID:   key.marketID,
				Day:        key.day,
				Quantities: make(map[int]int),
			}
			groups[key] = g
			order = append(order, key)
		}
		for _, item := range sub.Items {
			g.Quantities[item.ProductID] += item.Quantity
			g.Total += item.Quantity
		}
	}

	out := make([]models.NaraGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if m, err := s.Markets.Get(ctx, g.MarketID); err == nil {
			g.MarketName = m.Name
		}
		out = append(out, *g)
	}
	return out, nil
}

// ExportXLSX renders the grouped view as a workbook: one row per
// market/day group, one column per product seen anywhere in the data.
func (s *NaraService) ExportXLSX(ctx context.Context) (*excelize.File, error) {
	groups, err := s.Grouped(ctx)
	if err != nil {
		return nil, err
	}

	productIDs := make(map[int]bool)
	for _, g := range groups {
		for id := range g.Quantities {
			productIDs[id] = true
		}
	}
	ids := make([]int, 0, len(productIDs))
	for id := range productIDs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	names := make(map[int]string, len(ids))
	for _, id := range ids {
		names[id] = fmt.Sprintf("Produkt %d", id)
		if p, err := s.Products.Get(ctx, id); err == nil {
			names[id] = p.Name
		}
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Markt", "Datum"}
	for _, id := range ids {
		headers = append(headers, names[id])
	}
	headers = append(headers, "Gesamt")
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, g := range groups {
		values := []interface{}{g.MarketName, g.Day}
		for _, id := range ids {
			values = append(values, g.Quantities[id])
		}
		values = append(values, g.Total)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
