package services

import (
	"context"
	"errors"

	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/timeutil"
	"vertrieb-backend/internal/wizard"
)

// Lookup interfaces for the data the wizard screens need. The concrete
// repositories satisfy them; tests use fakes.

type WaveGetter interface {
	Get(ctx context.Context, id int) (*models.Wave, error)
}

type MarketGetter interface {
	Get(ctx context.Context, id int) (*models.Market, error)
}

var ErrNoSession = errors.New("no such wizard session")

// WizardService drives the submission wizard: it owns the open sessions,
// feeds the state machine with catalog data, and hands a completed run to
// the submission service as one batch.
type WizardService struct {
	Sessions    *wizard.Registry
	Waves       WaveGetter
	Markets     MarketGetter
	Pending     PendingPhotoStore
	Submissions *SubmissionService
}

func NewWizardService(waves WaveGetter, markets MarketGetter, pending PendingPhotoStore, submissions *SubmissionService) *WizardService {
	return &WizardService{
		Sessions:    wizard.NewRegistry(),
		Waves:       waves,
		Markets:     markets,
		Pending:     pending,
		Submissions: submissions,
	}
}

// Open starts a fresh wizard for a GL and returns the session.
func (s *WizardService) Open(glID int) *wizard.Session {
	return s.Sessions.Open(glID)
}

func (s *WizardService) Get(id string) (*wizard.Session, error) {
	sess, ok := s.Sessions.Get(id)
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// Close discards a session and everything entered into it.
func (s *WizardService) Close(id string) {
	s.Sessions.Close(id)
}

// ChooseWave targets the session at a wave and advances past the target
// screen. Required photo tags are the wave's non-optional tags.
func (s *WizardService) ChooseWave(ctx context.Context, sessionID string, waveID int) (*wizard.Session, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	wave, err := s.Waves.Get(ctx, waveID)
	if err != nil {
		return nil, err
	}
	if !wave.Active {
		return nil, errors.New("wave is not active")
	}
	var required []string
	for _, tag := range wave.PhotoTags {
		if !tag.Optional {
			required = append(required, tag.Tag)
		}
	}
	sess.SelectWave(wave.ID, wave.PhotoRequired, required)
	if err := sess.Apply(wizard.ActionContinue, timeutil.Now()); err != nil {
		return nil, err
	}
	return sess, nil
}

// ChooseExchange targets the session at the product-exchange context.
func (s *WizardService) ChooseExchange(sessionID string) (*wizard.Session, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.SelectExchange()
	if err := sess.Apply(wizard.ActionContinue, timeutil.Now()); err != nil {
		return nil, err
	}
	return sess, nil
}

// ChooseMarket records the market, snapshots its last visit for the recency
// decision and loads its open photo obligations. When obligations exist the
// machine detours through the pending-photos screen.
func (s *WizardService) ChooseMarket(ctx context.Context, sessionID string, marketID int) (*wizard.Session, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	market, err := s.Markets.Get(ctx, marketID)
	if err != nil {
		return nil, err
	}
	open, err := s.Pending.ListOpenForMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	obligations := make([]wizard.Obligation, 0, len(open))
	for _, p := range open {
		obligations = append(obligations, wizard.Obligation{ID: p.ID, Tag: p.Tag})
	}
	sess.SelectMarket(market.ID, market.LastVisitDate, obligations)
	if err := sess.Apply(wizard.ActionContinue, timeutil.Now()); err != nil {
		return nil, err
	}
	return sess, nil
}

// FulfillObligation attaches a late delivery photo for one open obligation.
func (s *WizardService) FulfillObligation(sessionID string, obligationID int, photo []byte) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	for _, o := range sess.View().Obligations {
		if o.ID == obligationID {
			sess.AttachPhoto("pending:"+o.Tag, photo)
		}
	}
	return sess.ResolveObligation(obligationID)
}

// SkipObligation defers one open obligation to the next visit.
func (s *WizardService) SkipObligation(sessionID string, obligationID int) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.SkipObligation(obligationID)
}

// SetQuantity sets one line's quantity; negative input clamps to zero.
func (s *WizardService) SetQuantity(sessionID string, key wizard.ItemKey, unitValue float64, qty int) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	sess.SetQuantity(key, unitValue, qty)
	return nil
}

// Increment steps one line's quantity by delta (plus/minus buttons).
func (s *WizardService) Increment(sessionID string, key wizard.ItemKey, unitValue float64, delta int) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	sess.Increment(key, unitValue, delta)
	return nil
}

// AttachPhoto stores a captured completion photo under its tag.
func (s *WizardService) AttachPhoto(sessionID, tag string, data []byte) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	sess.AttachPhoto(tag, data)
	return nil
}

// Advance applies one machine action. When the session lands in the
// submitting state, the run is persisted as a batch; success and failure
// feed back into the machine so the screen flow matches what happened.
func (s *WizardService) Advance(ctx context.Context, sessionID string, action wizard.Action) (*wizard.Session, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Apply(action, timeutil.Now()); err != nil {
		return nil, err
	}
	if sess.View().State != wizard.StateSubmitting {
		return sess, nil
	}

	if _, err := s.Submissions.Submit(ctx, s.buildInput(sess)); err != nil {
		// Entered data survives the failure; the GL retries from the
		// items screen.
		_ = sess.Apply(wizard.ActionFail, timeutil.Now())
		return sess, err
	}
	if err := sess.Apply(wizard.ActionComplete, timeutil.Now()); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *WizardService) buildInput(sess *wizard.Session) SubmitInput {
	view := sess.View()
	in := SubmitInput{
		GebietsleiterID: view.GebietsleiterID,
		WaveID:          view.WaveID,
		RequiredTags:    view.RequiredPhotoTags,
		VisitChoice:     view.VisitChoice,
	}
	if view.MarketID != nil {
		in.MarketID = *view.MarketID
	}
	for _, line := range view.Lines {
		if line.Quantity <= 0 {
			continue
		}
		in.Lines = append(in.Lines, models.SubmissionLine{
			Kind:      line.Key.Kind,
			ItemID:    line.Key.ItemID,
			Quantity:  line.Quantity,
			UnitValue: ptrFloat(line.UnitValue),
		})
	}
	for tag, data := range sess.PhotoSet() {
		in.Photos = append(in.Photos, models.PhotoUpload{Tag: tag, Name: tag + ".jpg", Data: data})
	}
	for _, o := range view.Obligations {
		if !o.Resolved {
			continue
		}
		if o.Skipped {
			in.SkippedPending = append(in.SkippedPending, o.ID)
		} else {
			in.ResolvedPending = append(in.ResolvedPending, o.ID)
		}
	}
	return in
}

func ptrFloat(v float64) *float64 {
	return &v
}
