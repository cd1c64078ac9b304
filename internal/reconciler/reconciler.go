// Package reconciler turns the raw battle event stream into baseline-relative
// health records. Deltas are computed against the locally tracked baseline,
// never against the upstream's own value, because the upstream may not have
// settled between rapid successive events.
package reconciler

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/sveniik/battletrack/internal/cache"
	"github.com/sveniik/battletrack/internal/model"
	"github.com/sveniik/battletrack/internal/perspective"
	"github.com/sveniik/battletrack/internal/queue"
	"github.com/sveniik/battletrack/internal/storage"
)

// Dependencies holds collaborators injected into the tracking service.
// Backend is optional; core tracking never depends on it.
type Dependencies struct {
	Baselines *cache.BaselineStore
	Roster    *cache.Roster
	Logger    *slog.Logger
	Backend   storage.Backend
}

// Service owns the per-battle tracking state: baselines, roster, perspective
// and the outbound record feed. All processing is synchronous and in-memory.
type Service struct {
	deps Dependencies
	info atomic.Pointer[perspective.Info]
	feed *queue.Queue[model.LogRecord]
}

// NewService creates a tracking service around the given dependencies.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		deps: deps,
		feed: queue.New[model.LogRecord](),
	}
}

// HandleBattleStart classifies the observer's perspective and seeds baselines
// for every combatant on both sides. Validation happens before any mutation:
// a malformed event leaves battle state entirely unset. A valid event drops
// any state left over from a previous battle first, so a restart without an
// explicit battle end cannot diff reused identities against stale baselines.
func (s *Service) HandleBattleStart(bs *model.BattleStart) error {
	info, err := perspective.Classify(bs)
	if err != nil {
		return fmt.Errorf("perspective resolution failed: %w", err)
	}

	type seed struct {
		combatant model.Combatant
		percent   float64
	}
	var seeds []seed
	for i := range bs.Sides {
		label := info.Label(i)
		for _, actor := range bs.Sides[i].Actors {
			for _, c := range actor.Combatants {
				pct, err := c.Health.Percent()
				if err != nil {
					return fmt.Errorf("combatant %s: %w", c.ID, err)
				}
				seeds = append(seeds, seed{
					combatant: model.Combatant{
						ID:          c.ID,
						Slot:        c.Slot,
						DisplayName: c.DisplayName,
						Side:        label,
					},
					percent: pct,
				})
			}
		}
	}

	s.Clear()
	for _, sd := range seeds {
		s.deps.Roster.Add(sd.combatant)
		s.deps.Baselines.Set(sd.combatant.ID, sd.percent)
	}
	s.info.Store(&info)

	s.deps.Logger.Debug("Battle state seeded",
		"battleId", bs.BattleID,
		"combatants", len(seeds),
		"spectating", info.Spectating)

	if s.deps.Backend != nil {
		if err := s.deps.Backend.StartBattle(bs, info); err != nil {
			s.deps.Logger.Error("Failed to start battle in storage backend", "error", err)
		}
	}

	return nil
}

// HandleHealthChanged computes the signed delta against the stored baseline
// and emits a damage or heal record for a nonzero delta. The baseline is
// overwritten exactly once per event, before the emission decision, so the
// next event diffs against the freshest local value even when nothing was
// emitted. An identity with no baseline is established at the new reading
// with a zero delta rather than treated as an error.
func (s *Service) HandleHealthChanged(ev *model.HealthChanged) (*model.LogRecord, error) {
	pct, err := ev.Health.Percent()
	if err != nil {
		return nil, fmt.Errorf("combatant %s: %w", ev.CombatantID, err)
	}

	prior, ok := s.deps.Baselines.Get(ev.CombatantID)
	if !ok {
		prior = pct
	}
	delta := pct - prior
	s.deps.Baselines.Set(ev.CombatantID, pct)

	if delta == 0 {
		return nil, nil
	}

	name := ev.CombatantID
	if c, ok := s.deps.Roster.Get(ev.CombatantID); ok && c.DisplayName != "" {
		name = c.DisplayName
	}

	kind := model.RecordDamage
	if delta > 0 {
		kind = model.RecordHeal
	}
	rec := model.LogRecord{
		Kind:        kind,
		Amount:      FormatPercent(math.Abs(delta)),
		Delta:       delta,
		CombatantID: ev.CombatantID,
		DisplayName: name,
		Time:        time.Now(),
	}
	s.feed.Push(rec)

	if s.deps.Backend != nil {
		if err := s.deps.Backend.RecordLog(&rec); err != nil {
			s.deps.Logger.Error("Failed to record log entry", "error", err)
		}
	}

	return &rec, nil
}

// HandleSwitchIn re-seeds the baseline for a combatant entering the field and
// registers it in the roster. This is baseline establishment, not a health
// change: no record is emitted.
func (s *Service) HandleSwitchIn(ev *model.SwitchIn) error {
	pct, err := ev.Health.Percent()
	if err != nil {
		return fmt.Errorf("combatant %s: %w", ev.CombatantID, err)
	}

	label := model.SideFar
	if info := s.info.Load(); info != nil {
		label = info.Label(ev.SideIndex)
	}
	s.deps.Roster.Add(model.Combatant{
		ID:          ev.CombatantID,
		Slot:        ev.Slot,
		DisplayName: ev.DisplayName,
		Side:        label,
	})
	s.deps.Baselines.Set(ev.CombatantID, pct)

	return nil
}

// HandleBattleEnd finalizes the storage backend and clears all tracked state.
func (s *Service) HandleBattleEnd() {
	if s.deps.Backend != nil {
		if err := s.deps.Backend.EndBattle(); err != nil {
			s.deps.Logger.Error("Failed to end battle in storage backend", "error", err)
		}
	}
	s.Clear()
}

// Clear resets baselines, roster, perspective and the pending record feed.
func (s *Service) Clear() {
	s.deps.Baselines.Clear()
	s.deps.Roster.Reset()
	s.info.Store(nil)
	s.feed.Clear()
}

// LastKnownPercent returns the currently tracked percentage for an identity.
func (s *Service) LastKnownPercent(id string) (float64, bool) {
	return s.deps.Baselines.Get(id)
}

// Perspective returns the current battle's side classification, if a battle
// has been initialized.
func (s *Service) Perspective() (perspective.Info, bool) {
	info := s.info.Load()
	if info == nil {
		return perspective.Info{}, false
	}
	return *info, true
}

// Records drains and returns all pending log records.
func (s *Service) Records() []model.LogRecord {
	return s.feed.GetAndEmpty()
}
