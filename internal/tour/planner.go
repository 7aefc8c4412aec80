package tour

import (
	"errors"
	"time"
)

// Tour planning: market multi-select, a deterministic fixed-constant time
// estimate, and manual drag-to-reorder. There is no real routing here; the
// estimate is per-stop work time plus per-hop travel time, nothing else.

type State string

const (
	StateSelection       State = "selection"
	StateTransportPrompt State = "transport-mode-prompt"
	StateOptimizing      State = "optimizing"
	StateCompleted       State = "completed"
	StateResult          State = "result"
)

type TransportMode string

const (
	ModeCar  TransportMode = "car"
	ModeBike TransportMode = "bike"
	ModeWalk TransportMode = "walk"
)

// StopWorkMinutes is the fixed in-market work time per stop.
const StopWorkMinutes = 45

// travelMinutes is the fixed inter-stop travel time per transport mode.
var travelMinutes = map[TransportMode]int{
	ModeCar:  15,
	ModeBike: 25,
	ModeWalk: 40,
}

// OptimizeDelay is the simulated optimization duration the client animates
// through; the computation itself is immediate.
const OptimizeDelay = 2 * time.Second

var (
	ErrNoSelection = errors.New("no markets selected")
	ErrNoMode      = errors.New("no transport mode chosen")
	ErrBadOrder    = errors.New("reorder must be a permutation of the planned stops")
	ErrWrongState  = errors.New("operation not allowed in current state")
	ErrUnknownMode = errors.New("unknown transport mode")
)

// Plan is one planning session.
type Plan struct {
	State    State
	Selected []int // unordered multiset of market ids, in toggle order
	Mode     TransportMode

	Order        []int // stop order of the produced route
	TotalMinutes int
	Modified     bool // a manual reorder happened; continue becomes recompute
}

func NewPlan() *Plan {
	return &Plan{State: StateSelection}
}

// Toggle adds or removes a market from the selection.
func (p *Plan) Toggle(marketID int) error {
	if p.State != StateSelection {
		return ErrWrongState
	}
	for i, id := range p.Selected {
		if id == marketID {
			p.Selected = append(p.Selected[:i], p.Selected[i+1:]...)
			return nil
		}
	}
	p.Selected = append(p.Selected, marketID)
	return nil
}

// Continue moves from selection into the transport-mode prompt. The mode is
// chosen once per planning session.
func (p *Plan) Continue() error {
	if p.State != StateSelection {
		return ErrWrongState
	}
	if len(p.Selected) == 0 {
		return ErrNoSelection
	}
	if p.Mode != "" {
		// Mode already chosen earlier in this session; go straight to the
		// estimate.
		return p.optimize()
	}
	p.State = StateTransportPrompt
	return nil
}

// ChooseMode records the transport mode and produces the estimate.
func (p *Plan) ChooseMode(mode TransportMode) error {
	if p.State != StateTransportPrompt {
		return ErrWrongState
	}
	if _, ok := travelMinutes[mode]; !ok {
		return ErrUnknownMode
	}
	p.Mode = mode
	return p.optimize()
}

// optimize walks optimizing -> completed -> result and derives the estimate
// over the current order.
func (p *Plan) optimize() error {
	if p.Mode == "" {
		return ErrNoMode
	}
	p.State = StateOptimizing
	if !p.Modified || p.Order == nil {
		p.Order = append([]int(nil), p.Selected...)
	}
	p.TotalMinutes = Estimate(len(p.Order), p.Mode)
	p.Modified = false
	p.State = StateCompleted
	p.State = StateResult
	return nil
}

// Estimate is the authoritative fixed-constant formula:
// N x 45 work minutes plus max(N-1, 0) inter-stop hops.
func Estimate(stops int, mode TransportMode) int {
	if stops <= 0 {
		return 0
	}
	travel := travelMinutes[mode]
	hops := stops - 1
	if hops < 0 {
		hops = 0
	}
	return stops*StopWorkMinutes + hops*travel
}

// Reorder applies a manual drag-to-reorder of the produced route. The cached
// estimate is invalidated: Modified flips and Recompute must run.
func (p *Plan) Reorder(order []int) error {
	if p.State != StateResult {
		return ErrWrongState
	}
	if !samePermutation(p.Order, order) {
		return ErrBadOrder
	}
	p.Order = append([]int(nil), order...)
	p.Modified = true
	return nil
}

// Recompute re-derives the estimate over the manually reordered stops.
func (p *Plan) Recompute() error {
	if p.State != StateResult {
		return ErrWrongState
	}
	p.TotalMinutes = Estimate(len(p.Order), p.Mode)
	p.Modified = false
	return nil
}

// Back is the only backward transition: result -> selection.
func (p *Plan) Back() error {
	if p.State != StateResult {
		return ErrWrongState
	}
	p.State = StateSelection
	p.Order = nil
	p.TotalMinutes = 0
	p.Modified = false
	return nil
}

func samePermutation(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[int]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}
