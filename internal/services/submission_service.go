package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vertrieb-backend/internal/invalidation"
	"vertrieb-backend/internal/metrics"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/timeutil"
	"vertrieb-backend/internal/wizard"
)

// Narrow store interfaces so the submission flow can run against fakes.
// The concrete repositories satisfy them.

type SubmissionStore interface {
	Create(ctx context.Context, s *models.Submission) error
	AddPhoto(ctx context.Context, photo *models.SubmissionPhoto) error
	ListByGebietsleiter(ctx context.Context, glID int) ([]*models.Submission, error)
}

type WaveAccumulator interface {
	Get(ctx context.Context, id int) (*models.Wave, error)
	AccumulateItem(ctx context.Context, itemID, count int, value float64) error
}

type VisitRecorder interface {
	RecordVisit(ctx context.Context, id int, visitedAt time.Time) error
}

type VisitLog interface {
	Create(ctx context.Context, v *models.Visit) error
}

type PendingPhotoStore interface {
	Create(ctx context.Context, p *models.PendingDeliveryPhoto) error
	ListOpenForMarket(ctx context.Context, marketID int) ([]*models.PendingDeliveryPhoto, error)
	MarkFulfilled(ctx context.Context, id int) error
	MarkSkipped(ctx context.Context, id int) error
}

// PhotoStore stores completion photos in object storage.
type PhotoStore interface {
	Upload(ctx context.Context, key string, data []byte) error
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type SubmissionService struct {
	Submissions   SubmissionStore
	Waves         WaveAccumulator
	Markets       VisitRecorder
	Visits        VisitLog
	PendingPhotos PendingPhotoStore
	Photos        PhotoStore
	Broadcaster   *invalidation.Broadcaster
}

func NewSubmissionService(
	submissions SubmissionStore,
	waves WaveAccumulator,
	markets VisitRecorder,
	visits VisitLog,
	pendingPhotos PendingPhotoStore,
	photos PhotoStore,
	broadcaster *invalidation.Broadcaster,
) *SubmissionService {
	return &SubmissionService{
		Submissions:   submissions,
		Waves:         waves,
		Markets:       markets,
		Visits:        visits,
		PendingPhotos: pendingPhotos,
		Photos:        photos,
		Broadcaster:   broadcaster,
	}
}

// SubmitInput is the batched output of a completed wizard run.
type SubmitInput struct {
	MarketID        int
	GebietsleiterID int
	WaveID          *int
	Lines           []models.SubmissionLine
	Photos          []models.PhotoUpload
	RequiredTags    []string
	VisitChoice     string // wizard.VisitNew or wizard.VisitExisting
	ResolvedPending []int  // pending photo obligations fulfilled this run
	SkippedPending  []int  // pending photo obligations skipped again
}

// Submit persists one wizard run as a single batch. Zero-quantity lines are
// dropped, wave item running totals are advanced, the visit counter moves
// per the GL's choice, photos go to object storage, and any required photo
// tag left without an upload becomes a pending obligation for the next
// visit to this market.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*models.Submission, error) {
	if in.MarketID == 0 {
		return nil, errors.New("market is required")
	}
	if in.VisitChoice == "" {
		return nil, errors.New("visit choice is required")
	}

	sub := &models.Submission{
		MarketID:        in.MarketID,
		GebietsleiterID: in.GebietsleiterID,
		WaveID:          in.WaveID,
		SubmittedAt:     timeutil.Now(),
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			continue
		}
		sub.Items = append(sub.Items, models.SubmissionItem{
			Kind:      line.Kind,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitValue: line.UnitValue,
		})
	}
	if len(sub.Items) == 0 {
		return nil, errors.New("nothing to submit")
	}

	if err := s.Submissions.Create(ctx, sub); err != nil {
		return nil, err
	}

	// Advance wave running totals. A batch can mix wave-bound lines with
	// catalog lines whose IDs live in a different table, so only lines that
	// match an item of this wave by ID and kind are accumulated.
	if in.WaveID != nil {
		wave, err := s.Waves.Get(ctx, *in.WaveID)
		if err != nil {
			return nil, err
		}
		members := make(map[int]string, len(wave.Items))
		for _, wi := range wave.Items {
			members[wi.ID] = wi.Kind
		}
		for _, item := range sub.Items {
			if kind, ok := members[item.ItemID]; !ok || kind != item.Kind {
				continue
			}
			value := 0.0
			if item.UnitValue != nil {
				value = *item.UnitValue * float64(item.Quantity)
			}
			if err := s.Waves.AccumulateItem(ctx, item.ItemID, item.Quantity, value); err != nil {
				return nil, err
			}
		}
	}

	// Visit bookkeeping per the GL's choice when the last visit was recent.
	switch in.VisitChoice {
	case wizard.VisitNew:
		if err := s.Markets.RecordVisit(ctx, in.MarketID, sub.SubmittedAt); err != nil {
			return nil, err
		}
		visit := &models.Visit{
			MarketID:        in.MarketID,
			GebietsleiterID: in.GebietsleiterID,
			VisitedAt:       sub.SubmittedAt,
		}
		if err := s.Visits.Create(ctx, visit); err != nil {
			return nil, err
		}
	case wizard.VisitExisting:
		// Folding into a recent visit records nothing: the counter and
		// last_visit_date stay put, so the recency window keeps aging.
	default:
		return nil, errors.New("unknown visit choice")
	}

	s.storePhotos(ctx, sub, in)
	s.resolvePending(ctx, in)

	flow := "exchange"
	if in.WaveID != nil {
		flow = "wave"
	}
	metrics.SubmissionsTotal.WithLabelValues(flow).Inc()

	s.Broadcaster.Invalidate(ctx, invalidation.TopicMarkets)
	if in.WaveID != nil {
		s.Broadcaster.Invalidate(ctx, invalidation.TopicWaves)
	}
	return sub, nil
}

// storePhotos uploads captured photos and records which required tags went
// unfulfilled. Upload failures never fail the submission; the order data is
// already safe, the photo becomes an obligation instead.
func (s *SubmissionService) storePhotos(ctx context.Context, sub *models.Submission, in SubmitInput) {
	uploaded := make(map[string]bool, len(in.Photos))
	for _, photo := range in.Photos {
		key := fmt.Sprintf("photos/%d/%d/%s", sub.MarketID, sub.ID, photo.Name)
		if err := s.Photos.Upload(ctx, key, photo.Data); err != nil {
			log.Printf("[Submission] photo upload %s failed: %v", key, err)
			metrics.PhotoUploadFailures.Inc()
			continue
		}
		uploaded[photo.Tag] = true
		rec := &models.SubmissionPhoto{SubmissionID: sub.ID, Tag: photo.Tag, ObjectKey: key}
		if err := s.Submissions.AddPhoto(ctx, rec); err != nil {
			log.Printf("[Submission] photo record %s failed: %v", key, err)
			continue
		}
		sub.Photos = append(sub.Photos, *rec)
	}

	for _, tag := range in.RequiredTags {
		if uploaded[tag] {
			continue
		}
		pending := &models.PendingDeliveryPhoto{
			MarketID:     sub.MarketID,
			SubmissionID: sub.ID,
			Tag:          tag,
		}
		if err := s.PendingPhotos.Create(ctx, pending); err != nil {
			log.Printf("[Submission] pending photo for tag %s failed: %v", tag, err)
		}
	}
}

func (s *SubmissionService) resolvePending(ctx context.Context, in SubmitInput) {
	for _, id := range in.ResolvedPending {
		if err := s.PendingPhotos.MarkFulfilled(ctx, id); err != nil {
			log.Printf("[Submission] resolve pending %d failed: %v", id, err)
		}
	}
	for _, id := range in.SkippedPending {
		if err := s.PendingPhotos.MarkSkipped(ctx, id); err != nil {
			log.Printf("[Submission] skip pending %d failed: %v", id, err)
		}
	}
}

// FetchPhoto reads a stored completion photo back for the review screens.
func (s *SubmissionService) FetchPhoto(ctx context.Context, objectKey string) ([]byte, error) {
	return s.Photos.Fetch(ctx, objectKey)
}

// OpenObligations lists unfulfilled, unskipped photo obligations for a market.
func (s *SubmissionService) OpenObligations(ctx context.Context, marketID int) ([]*models.PendingDeliveryPhoto, error) {
	return s.PendingPhotos.ListOpenForMarket(ctx, marketID)
}

func (s *SubmissionService) ListByGebietsleiter(ctx context.Context, glID int) ([]*models.Submission, error) {
	return s.Submissions.ListByGebietsleiter(ctx, glID)
}
