package services

import (
	"context"
	"encoding/json"
	"errors"

	"vertrieb-backend/internal/cache"
	"vertrieb-backend/internal/invalidation"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/repositories"
	"vertrieb-backend/internal/wizard"
)

type WaveService struct {
	Repo        *repositories.WaveRepository
	Broadcaster *invalidation.Broadcaster
}

func NewWaveService(repo *repositories.WaveRepository, broadcaster *invalidation.Broadcaster) *WaveService {
	return &WaveService{Repo: repo, Broadcaster: broadcaster}
}

func validWaveItemKind(kind string) bool {
	switch kind {
	case models.WaveItemDisplay, models.WaveItemBox, models.WaveItemProduct,
		models.WaveItemPallet, models.WaveItemBin:
		return true
	}
	return false
}

func (s *WaveService) Create(ctx context.Context, req models.CreateWaveRequest) (*models.Wave, error) {
	if req.Name == "" {
		return nil, errors.New("wave name is required")
	}
	if req.GoalKind != models.GoalKindPercent && req.GoalKind != models.GoalKindAbsolute {
		return nil, errors.New("invalid goal kind")
	}
	if len(req.Items) == 0 {
		return nil, errors.New("a wave needs at least one item collection")
	}

	w := &models.Wave{
		Name:          req.Name,
		OrderWeek:     req.OrderWeek,
		OrderDay:      req.OrderDay,
		DeliveryStart: req.DeliveryStart,
		DeliveryEnd:   req.DeliveryEnd,
		GoalKind:      req.GoalKind,
		GoalValue:     req.GoalValue,
		PhotoRequired: req.PhotoRequired,
		PhotoTags:     req.PhotoTags,
		Active:        true,
	}
	for _, in := range req.Items {
		if !validWaveItemKind(in.Kind) {
			return nil, errors.New("invalid wave item kind")
		}
		w.Items = append(w.Items, models.WaveItem{
			ProductID:   in.ProductID,
			Kind:        in.Kind,
			Name:        in.Name,
			UnitValue:   in.UnitValue,
			TargetCount: in.TargetCount,
			TargetValue: in.TargetValue,
		})
	}
	if err := s.Repo.Create(ctx, w); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return w, nil
}

func (s *WaveService) Get(ctx context.Context, id int) (*models.Wave, error) {
	return s.Repo.Get(ctx, id)
}

func (s *WaveService) List(ctx context.Context) ([]*models.Wave, error) {
	if data, ok := cache.GetCached(ctx, waveListKey); ok {
		var waves []*models.Wave
		if err := json.Unmarshal(data, &waves); err == nil {
			return waves, nil
		}
	}
	waves, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(waves); err == nil {
		cache.SetCached(ctx, waveListKey, data, listCacheTTL)
	}
	return waves, nil
}

// ListActive filters the wave list down to campaigns open for submissions.
func (s *WaveService) ListActive(ctx context.Context) ([]*models.Wave, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*models.Wave, 0, len(all))
	for _, w := range all {
		if w.Active {
			active = append(active, w)
		}
	}
	return active, nil
}

func (s *WaveService) Update(ctx context.Context, id int, req models.UpdateWaveRequest) (*models.Wave, error) {
	w, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		w.Name = req.Name
	}
	if req.OrderWeek != "" {
		w.OrderWeek = req.OrderWeek
	}
	if req.OrderDay != "" {
		w.OrderDay = req.OrderDay
	}
	if req.DeliveryStart != nil {
		w.DeliveryStart = req.DeliveryStart
	}
	if req.DeliveryEnd != nil {
		w.DeliveryEnd = req.DeliveryEnd
	}
	if req.GoalKind != "" {
		if req.GoalKind != models.GoalKindPercent && req.GoalKind != models.GoalKindAbsolute {
			return nil, errors.New("invalid goal kind")
		}
		w.GoalKind = req.GoalKind
	}
	if req.GoalValue > 0 {
		w.GoalValue = req.GoalValue
	}
	w.PhotoRequired = req.PhotoRequired
	if req.Active != nil {
		w.Active = *req.Active
	}
	if err := s.Repo.Update(ctx, w); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return w, nil
}

func (s *WaveService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Progress derives goal completion for a wave from its item running totals.
func (s *WaveService) Progress(ctx context.Context, id int) (*models.WaveProgress, error) {
	w, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var current float64
	for _, item := range w.Items {
		current += item.CurrentValue
	}
	return &models.WaveProgress{
		WaveID:       w.ID,
		GoalKind:     w.GoalKind,
		GoalValue:    w.GoalValue,
		CurrentValue: current,
		Percent:      wizard.GoalPercent(w.GoalValue, current),
	}, nil
}

func (s *WaveService) invalidate(ctx context.Context) {
	s.Broadcaster.Invalidate(ctx, invalidation.TopicWaves)
}
