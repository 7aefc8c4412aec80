package services

import (
	"context"
	"errors"
	"math"

	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/repositories"
)

// balanceTolerance is the value delta below which a swap counts as balanced.
const balanceTolerance = 0.005

type ExchangeService struct {
	Repo *repositories.ExchangeRepository
}

func NewExchangeService(repo *repositories.ExchangeRepository) *ExchangeService {
	return &ExchangeService{Repo: repo}
}

func validReason(reason string) bool {
	switch reason {
	case models.ExchangeReasonOutOfStock, models.ExchangeReasonListingGap, models.ExchangeReasonPlacement:
		return true
	}
	return false
}

func (s *ExchangeService) Create(ctx context.Context, glID int, req models.CreateExchangeRequest) (*models.ExchangeEntry, error) {
	if req.MarketID == 0 {
		return nil, errors.New("market is required")
	}
	if !validReason(req.Reason) {
		return nil, errors.New("invalid exchange reason")
	}
	if len(req.Removed) == 0 {
		return nil, errors.New("at least one removed product is required")
	}

	e := &models.ExchangeEntry{
		MarketID:        req.MarketID,
		GebietsleiterID: glID,
		Reason:          req.Reason,
	}
	for _, in := range req.Removed {
		if in.Quantity <= 0 {
			return nil, errors.New("removed quantities must be positive")
		}
		e.Removed = append(e.Removed, models.ExchangeItem{
			Direction: "removed",
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}
	for _, in := range req.Replacement {
		if in.Quantity <= 0 {
			return nil, errors.New("replacement quantities must be positive")
		}
		e.Replacement = append(e.Replacement, models.ExchangeItem{
			Direction: "replacement",
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ExchangeService) Get(ctx context.Context, id int) (*models.ExchangeEntry, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ExchangeService) ListByGebietsleiter(ctx context.Context, glID int) ([]*models.ExchangeEntry, error) {
	return s.Repo.ListByGebietsleiter(ctx, glID)
}

func (s *ExchangeService) Delete(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}

// Balance compares removed against replacement value for an entry in
// progress, so the client can steer the GL toward a value-neutral swap.
func Balance(removed, replacement []models.ExchangeItem) models.ExchangeBalance {
	var out, in float64
	for _, item := range removed {
		out += item.UnitPrice * float64(item.Quantity)
	}
	for _, item := range replacement {
		in += item.UnitPrice * float64(item.Quantity)
	}
	delta := in - out
	return models.ExchangeBalance{
		RemovedValue:     out,
		ReplacementValue: in,
		Delta:            delta,
		Balanced:         math.Abs(delta) < balanceTolerance,
	}
}

// BalanceOf derives the balance of a stored entry.
func (s *ExchangeService) BalanceOf(ctx context.Context, id int) (*models.ExchangeBalance, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b := Balance(e.Removed, e.Replacement)
	return &b, nil
}
