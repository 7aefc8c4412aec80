package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vertrieb-backend/internal/cache"
	"vertrieb-backend/internal/invalidation"
	"vertrieb-backend/internal/mapper"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/repositories"
)

const defaultVisitFrequency = 12

// Cache keys for the hot list reads; cleared via the invalidation topics.
const (
	marketListKey  = "markets:all"
	productListKey = "products:all"
	waveListKey    = "waves:all"

	listCacheTTL = 5 * time.Minute
)

type MarketService struct {
	Repo        *repositories.MarketRepository
	Broadcaster *invalidation.Broadcaster
}

func NewMarketService(repo *repositories.MarketRepository, broadcaster *invalidation.Broadcaster) *MarketService {
	return &MarketService{Repo: repo, Broadcaster: broadcaster}
}

func (s *MarketService) Create(ctx context.Context, req models.CreateMarketRequest) (*models.Market, error) {
	if req.Name == "" {
		return nil, errors.New("market name is required")
	}
	m := &models.Market{
		Name:            req.Name,
		Chain:           req.Chain,
		Street:          req.Street,
		PostalCode:      req.PostalCode,
		City:            req.City,
		GebietsleiterID: req.GebietsleiterID,
		Coordinates:     foldCoords(req.Latitude, req.Longitude),
		VisitFrequency:  defaultVisitFrequency,
	}
	if req.VisitFrequency != nil && *req.VisitFrequency > 0 {
		m.VisitFrequency = *req.VisitFrequency
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return m, nil
}

func (s *MarketService) Get(ctx context.Context, id int) (*models.Market, error) {
	return s.Repo.Get(ctx, id)
}

func (s *MarketService) List(ctx context.Context) ([]*models.Market, error) {
	if data, ok := cache.GetCached(ctx, marketListKey); ok {
		var markets []*models.Market
		if err := json.Unmarshal(data, &markets); err == nil {
			return markets, nil
		}
	}
	markets, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(markets); err == nil {
		cache.SetCached(ctx, marketListKey, data, listCacheTTL)
	}
	return markets, nil
}

func (s *MarketService) ListByGebietsleiter(ctx context.Context, glID int) ([]*models.Market, error) {
	return s.Repo.ListByGebietsleiter(ctx, glID)
}

func (s *MarketService) Update(ctx context.Context, id int, req models.UpdateMarketRequest) (*models.Market, error) {
	m, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		m.Name = req.Name
	}
	if req.Chain != "" {
		m.Chain = req.Chain
	}
	if req.Street != "" {
		m.Street = req.Street
	}
	if req.PostalCode != "" {
		m.PostalCode = req.PostalCode
	}
	if req.City != "" {
		m.City = req.City
	}
	if req.GebietsleiterID != nil {
		m.GebietsleiterID = req.GebietsleiterID
	}
	if coords := foldCoords(req.Latitude, req.Longitude); coords != nil {
		m.Coordinates = coords
	}
	if req.VisitFrequency != nil && *req.VisitFrequency > 0 {
		m.VisitFrequency = *req.VisitFrequency
	}
	if req.Completed != nil {
		m.Completed = *req.Completed
	}
	if err := s.Repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return m, nil
}

func (s *MarketService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Import creates markets in bulk from loosely typed rows (CSV/XLSX upload
// or JSON batch). Rows go through the declarative field table so absent
// optional columns pick up backend defaults. Bad rows are reported and
// skipped, good rows still land.
func (s *MarketService) Import(ctx context.Context, req models.ImportMarketsRequest) (*models.ImportReport, error) {
	report := &models.ImportReport{}
	for i, raw := range req.Markets {
		domain := make(map[string]interface{}, len(raw))
		for k, v := range raw {
			domain[k] = v
		}
		mapper.ExplodeCoordinates(domain)
		row := mapper.MarketFields.ToRow(domain)
		back := mapper.MarketFields.ToDomain(row)

		m, err := marketFromDomain(back)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if err := s.Repo.Create(ctx, m); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		report.Imported++
	}
	if report.Imported > 0 {
		s.invalidate(ctx)
	}
	return report, nil
}

// RecordVisit counts a visit against the market's cycle: increments the
// counter, flips completed when the frequency target is reached and stamps
// the visit date.
func (s *MarketService) RecordVisit(ctx context.Context, id int, visitedAt time.Time) error {
	if err := s.Repo.RecordVisit(ctx, id, visitedAt); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate broadcasts the change; cache clearing rides on the topic via
// the subscriber wired in main, locally and on every other instance.
func (s *MarketService) invalidate(ctx context.Context) {
	s.Broadcaster.Invalidate(ctx, invalidation.TopicMarkets)
}

func foldCoords(lat, lng *float64) *models.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &models.Coordinates{Latitude: *lat, Longitude: *lng}
}

func marketFromDomain(domain map[string]interface{}) (*models.Market, error) {
	name, _ := domain["name"].(string)
	if name == "" {
		return nil, errors.New("missing name")
	}
	m := &models.Market{
		Name:           name,
		VisitFrequency: defaultVisitFrequency,
	}
	m.Chain, _ = domain["chain"].(string)
	m.Street, _ = domain["street"].(string)
	m.PostalCode = strField(domain, "postalCode")
	m.City, _ = domain["city"].(string)
	if v, ok := numField(domain, "gebietsleiterId"); ok {
		id := int(v)
		m.GebietsleiterID = &id
	}
	if v, ok := numField(domain, "visitFrequency"); ok && int(v) > 0 {
		m.VisitFrequency = int(v)
	}
	lat, latOK := numField(domain, "latitude")
	lng, lngOK := numField(domain, "longitude")
	if latOK && lngOK {
		m.Coordinates = &models.Coordinates{Latitude: lat, Longitude: lng}
	}
	return m, nil
}

// strField reads a string map entry, stringifying numbers. Postal codes in
// CSV uploads parse as integers.
func strField(domain map[string]interface{}, key string) string {
	switch v := domain[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// numField reads a numeric map entry regardless of whether it arrived as a
// JSON float64, an int from a parser, or a mapping default.
func numField(domain map[string]interface{}, key string) (float64, bool) {
	switch v := domain[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
