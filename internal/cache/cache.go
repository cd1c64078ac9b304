package cache

import (
	"sync"

	"github.com/sveniik/battletrack/internal/model"
)

// BaselineStore maps durable combatant identities to the last locally tracked
// health percentage. Latency here is critical: the reconciler reads and writes
// a baseline for every incoming health event.
type BaselineStore struct {
	m         sync.Mutex
	baselines map[string]float64
}

func NewBaselineStore() *BaselineStore {
	return &BaselineStore{
		baselines: make(map[string]float64),
	}
}

// Get returns the tracked percentage for an identity, if one exists.
func (s *BaselineStore) Get(id string) (float64, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	pct, ok := s.baselines[id]
	return pct, ok
}

// Set unconditionally overwrites the baseline for an identity.
func (s *BaselineStore) Set(id string, pct float64) {
	s.m.Lock()
	defer s.m.Unlock()
	s.baselines[id] = pct
}

// Clear drops every tracked baseline. Called once at battle end.
func (s *BaselineStore) Clear() {
	s.m.Lock()
	defer s.m.Unlock()
	s.baselines = make(map[string]float64)
}

// Len returns the number of tracked identities.
func (s *BaselineStore) Len() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.baselines)
}

// Roster caches combatant display metadata (name, side) keyed by durable
// identity so record emission avoids any upstream lookup.
type Roster struct {
	m          sync.Mutex
	combatants map[string]model.Combatant
}

func NewRoster() *Roster {
	return &Roster{
		combatants: make(map[string]model.Combatant),
	}
}

func (r *Roster) Add(c model.Combatant) {
	r.m.Lock()
	defer r.m.Unlock()
	r.combatants[c.ID] = c
}

func (r *Roster) Get(id string) (model.Combatant, bool) {
	r.m.Lock()
	defer r.m.Unlock()
	c, ok := r.combatants[id]
	return c, ok
}

// All returns a snapshot of every registered combatant.
func (r *Roster) All() []model.Combatant {
	r.m.Lock()
	defer r.m.Unlock()
	out := make([]model.Combatant, 0, len(r.combatants))
	for _, c := range r.combatants {
		out = append(out, c)
	}
	return out
}

func (r *Roster) Reset() {
	r.m.Lock()
	defer r.m.Unlock()
	r.combatants = make(map[string]model.Combatant)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
