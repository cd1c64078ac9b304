package worker

import (
	"github.com/sveniik/battletrack/internal/dispatcher"
)

// RegisterHandlers registers all event handlers with the dispatcher.
// Battle start/end stay synchronous: later events depend on the seeded
// roster, and teardown must not race recording. Health and switch events are
// high-volume and run buffered.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CmdBattleStart, m.handleBattleStart, dispatcher.Logged())
	d.Register(CmdHealth, m.handleHealthChanged, dispatcher.Buffered(2000), dispatcher.Logged())
	d.Register(CmdSwitch, m.handleSwitchIn, dispatcher.Buffered(500), dispatcher.Logged())
	d.Register(CmdBattleEnd, m.handleBattleEnd, dispatcher.Logged())
}

// RegisterHandlersSync registers every handler without buffering. Used by the
// replay CLI and tests, where strict event ordering matters more than
// ingest throughput.
func (m *Manager) RegisterHandlersSync(d *dispatcher.Dispatcher) {
	d.Register(CmdBattleStart, m.handleBattleStart, dispatcher.Logged())
	d.Register(CmdHealth, m.handleHealthChanged, dispatcher.Logged())
	d.Register(CmdSwitch, m.handleSwitchIn, dispatcher.Logged())
	d.Register(CmdBattleEnd, m.handleBattleEnd, dispatcher.Logged())
}

func (m *Manager) handleBattleStart(e dispatcher.Event) (any, error) {
	logger := m.deps.LogManager.Logger()

	bs, err := m.deps.Parser.ParseBattleStart(e.Args)
	if err != nil {
		logger.Warn("Dropping malformed battle start", "error", err)
		return nil, nil
	}

	if err := m.deps.Tracker.HandleBattleStart(bs); err != nil {
		// Best-effort contract: degraded tracking beats disrupting the battle.
		logger.Warn("Battle start left state unset", "error", err)
		return nil, nil
	}

	m.mu.Lock()
	m.battleID = bs.BattleID
	m.mu.Unlock()
	m.processed.Inc()

	return nil, nil
}

func (m *Manager) handleHealthChanged(e dispatcher.Event) (any, error) {
	logger := m.deps.LogManager.Logger()

	ev, err := m.deps.Parser.ParseHealthChanged(e.Args)
	if err != nil {
		logger.Warn("Dropping malformed health event", "error", err)
		return nil, nil
	}

	rec, err := m.deps.Tracker.HandleHealthChanged(ev)
	if err != nil {
		logger.Warn("Dropping unprocessable health event", "error", err)
		return nil, nil
	}
	m.processed.Inc()

	if rec != nil && m.deps.Influx != nil {
		spectating := false
		if info, ok := m.deps.Tracker.Perspective(); ok {
			spectating = info.Spectating
		}
		m.deps.Influx.WriteRecord(rec, spectating)
	}

	return nil, nil
}

func (m *Manager) handleSwitchIn(e dispatcher.Event) (any, error) {
	logger := m.deps.LogManager.Logger()

	ev, err := m.deps.Parser.ParseSwitchIn(e.Args)
	if err != nil {
		logger.Warn("Dropping malformed switch-in", "error", err)
		return nil, nil
	}

	if err := m.deps.Tracker.HandleSwitchIn(ev); err != nil {
		logger.Warn("Dropping unprocessable switch-in", "error", err)
		return nil, nil
	}
	m.processed.Inc()

	return nil, nil
}

func (m *Manager) handleBattleEnd(e dispatcher.Event) (any, error) {
	m.mu.Lock()
	battleID := m.battleID
	m.battleID = ""
	m.mu.Unlock()

	if m.deps.Influx != nil {
		m.deps.Influx.WriteBattleSummary(battleID, m.processed.Value())
	}
	m.processed.Set(0)

	m.deps.Tracker.HandleBattleEnd()

	return nil, nil
}
