package services

import (
	"context"
	"errors"
	"sync"

	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/repositories"
	"vertrieb-backend/internal/tour"
)

// TourService keeps one planning session per Gebietsleiter. Plans are
// in-memory only; a tour is throwaway day planning, not a stored document.
type TourService struct {
	Markets *repositories.MarketRepository

	mu    sync.Mutex
	plans map[int]*tour.Plan
}

func NewTourService(markets *repositories.MarketRepository) *TourService {
	return &TourService{Markets: markets, plans: make(map[int]*tour.Plan)}
}

// Plan returns the GL's current planning session, opening one on first use.
func (s *TourService) Plan(glID int) *tour.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[glID]
	if !ok {
		p = tour.NewPlan()
		s.plans[glID] = p
	}
	return p
}

// Reset discards the GL's planning session.
func (s *TourService) Reset(glID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, glID)
}

// Toggle adds or removes one of the GL's markets from the selection.
func (s *TourService) Toggle(ctx context.Context, glID, marketID int) (*tour.Plan, error) {
	if _, err := s.Markets.Get(ctx, marketID); err != nil {
		return nil, errors.New("unknown market")
	}
	p := s.Plan(glID)
	if err := p.Toggle(marketID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TourService) Continue(glID int) (*tour.Plan, error) {
	p := s.Plan(glID)
	if err := p.Continue(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TourService) ChooseMode(glID int, mode tour.TransportMode) (*tour.Plan, error) {
	p := s.Plan(glID)
	if err := p.ChooseMode(mode); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TourService) Reorder(glID int, order []int) (*tour.Plan, error) {
	p := s.Plan(glID)
	if err := p.Reorder(order); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TourService) Recompute(glID int) (*tour.Plan, error) {
	p := s.Plan(glID)
	if err := p.Recompute(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TourService) Back(glID int) (*tour.Plan, error) {
	p := s.Plan(glID)
	if err := p.Back(); err != nil {
		return nil, err
	}
	return p, nil
}

// Stops resolves the planned route to full market records, in route order.
func (s *TourService) Stops(ctx context.Context, glID int) ([]*models.Market, error) {
	p := s.Plan(glID)
	stops := make([]*models.Market, 0, len(p.Order))
	for _, id := range p.Order {
		m, err := s.Markets.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		stops = append(stops, m)
	}
	return stops, nil
}
