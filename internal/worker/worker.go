// Package worker wires the dispatcher to the parse/reconcile pipeline. This
// is the silent-fail boundary: a malformed event is logged and dropped, never
// surfaced to the host, so tracking failures cannot interrupt the battle.
package worker

import (
	"sync"

	"github.com/sveniik/battletrack/internal/cache"
	"github.com/sveniik/battletrack/internal/influx"
	"github.com/sveniik/battletrack/internal/logging"
	"github.com/sveniik/battletrack/internal/parser"
	"github.com/sveniik/battletrack/internal/reconciler"
)

// Host bridge commands.
const (
	CmdBattleStart = ":BATTLE:START:"
	CmdHealth      = ":HEALTH:"
	CmdSwitch      = ":SWITCH:"
	CmdBattleEnd   = ":BATTLE:END:"
)

// Dependencies holds all dependencies for the worker manager.
// Influx is optional telemetry; nil disables it.
type Dependencies struct {
	Parser     *parser.Parser
	Tracker    *reconciler.Service
	LogManager *logging.SlogManager
	Influx     *influx.Manager
}

// Manager routes parsed events into the tracking service.
type Manager struct {
	deps      Dependencies
	processed cache.SafeCounter

	mu       sync.Mutex
	battleID string
}

// NewManager creates a new worker manager.
func NewManager(deps Dependencies) *Manager {
	return &Manager{deps: deps}
}

// EventsProcessed returns the number of events handled since the last battle end.
func (m *Manager) EventsProcessed() int {
	return m.processed.Value()
}
