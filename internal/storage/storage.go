// internal/storage/storage.go
package storage

import (
	"github.com/sveniik/battletrack/internal/model"
	"github.com/sveniik/battletrack/internal/perspective"
)

// Backend is the interface battle-history sinks must satisfy. Backends only
// record; nothing written here is ever read back into live baselines.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Battle management
	StartBattle(bs *model.BattleStart, info perspective.Info) error
	EndBattle() error

	// Record persistence
	RecordLog(rec *model.LogRecord) error
}
