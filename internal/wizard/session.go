package wizard

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"sync"
	"time"
)

// Obligation mirrors one unfulfilled delivery-photo obligation for the
// chosen market.
type Obligation struct {
	ID       int
	Tag      string
	Resolved bool
	Skipped  bool
}

// Session is the state of one open wizard instance (one modal). All entered
// data lives here until submit succeeds or the session is closed. mu guards
// every field; concurrent requests against the same session serialize here.
type Session struct {
	mu sync.Mutex

	ID              string
	GebietsleiterID int
	State           State

	// Target: a wave or the product-exchange context.
	WaveID   *int
	Exchange bool

	// Market selection and its visit snapshot.
	MarketID      *int
	LastVisitDate *time.Time

	// Pending delivery-photo obligations carried over from earlier
	// submissions to the same market.
	Obligations []Obligation

	// Selection: quantities and unit values per candidate line.
	Quantities map[ItemKey]int
	UnitValues map[ItemKey]float64

	// Photo capture requirements of the chosen wave.
	PhotoRequired     bool
	RequiredPhotoTags []string
	Photos            map[string][]byte

	VisitChoice string
	Submitting  bool

	CreatedAt time.Time
}

func newSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// NewSession opens a wizard in its initial screen.
func NewSession(glID int) *Session {
	return &Session{
		ID:              newSessionID(),
		GebietsleiterID: glID,
		State:           StateSelectingTarget,
		Quantities:      make(map[ItemKey]int),
		UnitValues:      make(map[ItemKey]float64),
		Photos:          make(map[string][]byte),
		CreatedAt:       time.Now(),
	}
}

// SelectWave sets the wave target and its photo requirements.
func (s *Session) SelectWave(waveID int, photoRequired bool, requiredTags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WaveID = &waveID
	s.Exchange = false
	s.PhotoRequired = photoRequired
	s.RequiredPhotoTags = requiredTags
}

// SelectExchange switches the session into the product-exchange context
// (no wave reference, no completion photo).
func (s *Session) SelectExchange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WaveID = nil
	s.Exchange = true
	s.PhotoRequired = false
	s.RequiredPhotoTags = nil
}

// SelectMarket records the chosen market, its last-visit snapshot, and the
// open photo obligations found for it.
func (s *Session) SelectMarket(marketID int, lastVisit *time.Time, obligations []Obligation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MarketID = &marketID
	s.LastVisitDate = lastVisit
	s.Obligations = obligations
}

func (s *Session) openObligations() int {
	n := 0
	for _, o := range s.Obligations {
		if !o.Resolved {
			n++
		}
	}
	return n
}

// ResolveObligation marks one pending-photo obligation as fulfilled with a
// fresh photo.
func (s *Session) ResolveObligation(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Obligations {
		if s.Obligations[i].ID == id {
			s.Obligations[i].Resolved = true
			s.Obligations[i].Skipped = false
			return nil
		}
	}
	return errors.New("unknown obligation")
}

// SkipObligation marks one pending-photo obligation as explicitly skipped;
// it stays open for the next visit but no longer blocks this one.
func (s *Session) SkipObligation(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Obligations {
		if s.Obligations[i].ID == id {
			s.Obligations[i].Resolved = true
			s.Obligations[i].Skipped = true
			return nil
		}
	}
	return errors.New("unknown obligation")
}

// SetQuantity sets a line quantity, clamped at zero.
func (s *Session) SetQuantity(key ItemKey, unitValue float64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setQuantity(key, unitValue, qty)
}

// Increment adjusts a line quantity by delta, clamped at zero.
func (s *Session) Increment(key ItemKey, unitValue float64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setQuantity(key, unitValue, s.Quantities[key]+delta)
}

func (s *Session) setQuantity(key ItemKey, unitValue float64, qty int) {
	s.Quantities[key] = ClampQuantity(qty)
	s.UnitValues[key] = unitValue
}

// AttachPhoto stores a captured completion photo under its tag.
func (s *Session) AttachPhoto(tag string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Photos[tag] = data
}

// Lines returns the selection snapshot, stable-ordered for deterministic
// totals and persistence.
func (s *Session) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines()
}

func (s *Session) lines() []Line {
	keys := make([]ItemKey, 0, len(s.Quantities))
	for k := range s.Quantities {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ItemID < keys[j].ItemID
	})

	lines := make([]Line, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, Line{Key: k, UnitValue: s.UnitValues[k], Quantity: s.Quantities[k]})
	}
	return lines
}

// SelectedLines returns only the quantity > 0 subset, which is exactly
// what gets persisted on submit.
func (s *Session) SelectedLines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	var selected []Line
	for _, l := range s.lines() {
		if l.Quantity > 0 {
			selected = append(selected, l)
		}
	}
	return selected
}

// View is a consistent read of a session, taken under the session lock so
// renderers and the submit path never observe a half-applied mutation.
type View struct {
	ID                string
	GebietsleiterID   int
	State             State
	WaveID            *int
	Exchange          bool
	MarketID          *int
	VisitChoice       string
	RequiredPhotoTags []string
	Obligations       []Obligation
	Lines             []Line
}

// View snapshots the session. Slices are copied; callers may hold the result
// while other requests keep mutating the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:                s.ID,
		GebietsleiterID:   s.GebietsleiterID,
		State:             s.State,
		WaveID:            s.WaveID,
		Exchange:          s.Exchange,
		MarketID:          s.MarketID,
		VisitChoice:       s.VisitChoice,
		RequiredPhotoTags: append([]string(nil), s.RequiredPhotoTags...),
		Obligations:       append([]Obligation(nil), s.Obligations...),
		Lines:             s.lines(),
	}
}

// PhotoSet returns a copy of the captured photos keyed by tag.
func (s *Session) PhotoSet() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	photos := make(map[string][]byte, len(s.Photos))
	for tag, data := range s.Photos {
		photos[tag] = data
	}
	return photos
}

// Registry holds open wizard sessions, one per modal instance.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Open(glID int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := NewSession(glID)
	r.sessions[s.ID] = s
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close discards a session and all its entered state.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
