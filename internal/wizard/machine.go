package wizard

import (
	"errors"
	"time"
)

// The submission wizard as an explicit state machine: one enumerated state
// per screen, transitions only through Apply with guarded actions. The
// machine is decoupled from HTTP and rendering so the flow is testable on
// its own.

type State string

const (
	StateSelectingTarget       State = "selecting-target"
	StateSelectingMarket       State = "selecting-market"
	StateCheckingPendingPhotos State = "checking-pending-photos"
	StateSelectingItems        State = "selecting-items"
	StatePhotoCapture          State = "photo-capture"
	StateConfirmingVisit       State = "confirming-visit"
	StateSubmitting            State = "submitting"
	StateSuccess               State = "success"
)

type Action string

const (
	// ActionContinue is the explicit forward step of the current screen.
	ActionContinue Action = "continue"
	// ActionCountNew / ActionCountExisting resolve the visit choice when the
	// market was visited within the recency window.
	ActionCountNew      Action = "count-new"
	ActionCountExisting Action = "count-existing"
	// ActionComplete / ActionFail report the outcome of the persist step.
	ActionComplete Action = "complete"
	ActionFail     Action = "fail"
)

// RecencyWindow is the threshold for folding a submission into an existing
// market visit instead of counting a new one.
const RecencyWindow = 21 * 24 * time.Hour

// Visit choices.
const (
	VisitNew      = "new"
	VisitExisting = "existing"
)

var (
	ErrNoTarget            = errors.New("no wave or exchange context chosen")
	ErrNoMarket            = errors.New("no market chosen")
	ErrOpenObligations     = errors.New("pending delivery photos must be attached or skipped")
	ErrNothingSelected     = errors.New("at least one item quantity must be greater than zero")
	ErrMissingPhotos       = errors.New("required completion photos missing")
	ErrInvalidTransition   = errors.New("action not allowed in current state")
	ErrAlreadySubmitting   = errors.New("a submission is already in flight")
	ErrVisitChoiceRequired = errors.New("visit choice required")
)

// transition is one row of the state x action table.
type transition struct {
	from   State
	action Action
	guard  func(s *Session, now time.Time) error
	next   func(s *Session, now time.Time) State
}

func to(state State) func(*Session, time.Time) State {
	return func(*Session, time.Time) State { return state }
}

var transitions = []transition{
	{
		from:   StateSelectingTarget,
		action: ActionContinue,
		guard: func(s *Session, _ time.Time) error {
			if s.WaveID == nil && !s.Exchange {
				return ErrNoTarget
			}
			return nil
		},
		next: to(StateSelectingMarket),
	},
	{
		from:   StateSelectingMarket,
		action: ActionContinue,
		guard: func(s *Session, _ time.Time) error {
			if s.MarketID == nil {
				return ErrNoMarket
			}
			return nil
		},
		next: func(s *Session, _ time.Time) State {
			if s.openObligations() > 0 {
				return StateCheckingPendingPhotos
			}
			return StateSelectingItems
		},
	},
	{
		from:   StateCheckingPendingPhotos,
		action: ActionContinue,
		guard: func(s *Session, _ time.Time) error {
			if s.openObligations() > 0 {
				return ErrOpenObligations
			}
			return nil
		},
		next: to(StateSelectingItems),
	},
	{
		from:   StateSelectingItems,
		action: ActionContinue,
		guard: func(s *Session, _ time.Time) error {
			if TotalCount(s.lines()) == 0 {
				return ErrNothingSelected
			}
			return nil
		},
		next: func(s *Session, now time.Time) State {
			if s.PhotoRequired {
				return StatePhotoCapture
			}
			return s.preSubmitState(now)
		},
	},
	{
		from:   StatePhotoCapture,
		action: ActionContinue,
		guard: func(s *Session, _ time.Time) error {
			for _, tag := range s.RequiredPhotoTags {
				if _, ok := s.Photos[tag]; !ok {
					return ErrMissingPhotos
				}
			}
			return nil
		},
		next: func(s *Session, now time.Time) State {
			return s.preSubmitState(now)
		},
	},
	{
		from:   StateConfirmingVisit,
		action: ActionCountNew,
		next: func(s *Session, _ time.Time) State {
			s.VisitChoice = VisitNew
			return StateSubmitting
		},
	},
	{
		from:   StateConfirmingVisit,
		action: ActionCountExisting,
		next: func(s *Session, _ time.Time) State {
			s.VisitChoice = VisitExisting
			return StateSubmitting
		},
	},
	{
		from:   StateSubmitting,
		action: ActionComplete,
		next:   to(StateSuccess),
	},
	{
		from:   StateSubmitting,
		action: ActionFail,
		next: func(s *Session, _ time.Time) State {
			// Entered data survives; only the in-flight flag is cleared.
			s.Submitting = false
			return StateSelectingItems
		},
	},
}

// preSubmitState routes to the visit-choice screen when the market was
// visited within the recency window, otherwise straight into submitting
// with a new visit recorded automatically.
func (s *Session) preSubmitState(now time.Time) State {
	if s.needsVisitChoice(now) {
		return StateConfirmingVisit
	}
	s.VisitChoice = VisitNew
	return StateSubmitting
}

func (s *Session) needsVisitChoice(now time.Time) bool {
	if s.LastVisitDate == nil {
		return false
	}
	return now.Sub(*s.LastVisitDate) <= RecencyWindow
}

// Apply runs one action against the current state. Unknown state/action
// combinations and failed guards leave the session untouched. The session
// lock is held across the whole transition, so the submitting check-and-set
// is atomic and overlapping submit attempts serialize here.
func (s *Session) Apply(action Action, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range transitions {
		if t.from != s.State || t.action != action {
			continue
		}
		if t.guard != nil {
			if err := t.guard(s, now); err != nil {
				return err
			}
		}
		next := t.next(s, now)
		if next == StateSubmitting {
			// The in-flight flag is raised before the persist call is made,
			// so a second submit attempt is rejected here rather than racing.
			if s.Submitting {
				return ErrAlreadySubmitting
			}
			s.Submitting = true
		}
		s.State = next
		return nil
	}
	return ErrInvalidTransition
}
