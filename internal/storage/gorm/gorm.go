// internal/storage/gorm/gorm.go
package gormstorage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sveniik/battletrack/internal/model"
	"github.com/sveniik/battletrack/internal/perspective"
)

// Backend persists battle history rows through gorm (Postgres or SQLite).
type Backend struct {
	db     *gorm.DB
	logger zerolog.Logger

	mu      sync.Mutex
	current *model.BattleRecord
}

// New creates a gorm-backed battle history store.
func New(db *gorm.DB, logger zerolog.Logger) *Backend {
	return &Backend{
		db:     db,
		logger: logger,
	}
}

// Init migrates the history schema.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("no database connection")
	}
	return b.db.AutoMigrate(model.DatabaseModels...)
}

// Close is a no-op; the connection is owned by the database manager.
func (b *Backend) Close() error {
	return nil
}

// StartBattle inserts a new battle row with the roster as a JSON column.
func (b *Backend) StartBattle(bs *model.BattleStart, info perspective.Info) error {
	roster := make([]model.Combatant, 0)
	for i := range bs.Sides {
		label := info.Label(i)
		for _, actor := range bs.Sides[i].Actors {
			for _, c := range actor.Combatants {
				roster = append(roster, model.Combatant{
					ID:          c.ID,
					Slot:        c.Slot,
					DisplayName: c.DisplayName,
					Side:        label,
				})
			}
		}
	}
	rosterJSON, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("error marshalling roster: %w", err)
	}

	record := model.BattleRecord{
		BattleID:   bs.BattleID,
		Spectating: info.Spectating,
		NearName:   info.NearName,
		FarName:    info.FarName,
		Roster:     datatypes.JSON(rosterJSON),
		StartTime:  time.Now(),
	}
	if err := b.db.Create(&record).Error; err != nil {
		return fmt.Errorf("error inserting battle record: %w", err)
	}

	b.mu.Lock()
	b.current = &record
	b.mu.Unlock()

	b.logger.Debug().Str("battleId", bs.BattleID).Uint("recordId", record.ID).
		Msg("Battle record inserted")

	return nil
}

// RecordLog inserts one damage/heal row for the current battle.
func (b *Backend) RecordLog(rec *model.LogRecord) error {
	b.mu.Lock()
	current := b.current
	b.mu.Unlock()

	if current == nil {
		return fmt.Errorf("no active battle record")
	}

	entry := model.LogEntry{
		BattleRecordID: current.ID,
		Kind:           string(rec.Kind),
		Amount:         rec.Amount,
		Delta:          rec.Delta,
		CombatantID:    rec.CombatantID,
		DisplayName:    rec.DisplayName,
		Time:           rec.Time,
	}
	if err := b.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("error inserting log entry: %w", err)
	}
	return nil
}

// EndBattle stamps the end time on the current battle row.
func (b *Backend) EndBattle() error {
	b.mu.Lock()
	current := b.current
	b.current = nil
	b.mu.Unlock()

	if current == nil {
		return nil
	}

	err := b.db.Model(&model.BattleRecord{}).
		Where("id = ?", current.ID).
		Update("end_time", time.Now()).Error
	if err != nil {
		return fmt.Errorf("error closing battle record: %w", err)
	}
	return nil
}
