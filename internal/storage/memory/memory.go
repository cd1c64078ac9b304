// internal/storage/memory/memory.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sveniik/battletrack/internal/config"
	"github.com/sveniik/battletrack/internal/model"
	"github.com/sveniik/battletrack/internal/perspective"
)

// battleExport is the JSON shape written at battle end.
type battleExport struct {
	BattleID   string            `json:"battleId"`
	Spectating bool              `json:"spectating"`
	NearName   string            `json:"nearName"`
	FarName    string            `json:"farName"`
	Roster     []model.Combatant `json:"roster"`
	Records    []model.LogRecord `json:"records"`
	StartTime  time.Time         `json:"startTime"`
	EndTime    time.Time         `json:"endTime"`
}

// Backend stores battle data in memory and exports to JSON at battle end.
type Backend struct {
	cfg config.MemoryConfig

	battleID  string
	info      perspective.Info
	roster    []model.Combatant
	records   []model.LogRecord
	startTime time.Time
	active    bool

	mu sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	return os.MkdirAll(b.cfg.OutputDir, 0755)
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartBattle begins recording a new battle, dropping any prior state.
func (b *Backend) StartBattle(bs *model.BattleStart, info perspective.Info) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.battleID = bs.BattleID
	b.info = info
	b.records = nil
	b.startTime = time.Now()
	b.active = true

	b.roster = nil
	for i := range bs.Sides {
		label := info.Label(i)
		for _, actor := range bs.Sides[i].Actors {
			for _, c := range actor.Combatants {
				b.roster = append(b.roster, model.Combatant{
					ID:          c.ID,
					Slot:        c.Slot,
					DisplayName: c.DisplayName,
					Side:        label,
				})
			}
		}
	}

	return nil
}

// RecordLog appends a damage/heal record to the current battle.
func (b *Backend) RecordLog(rec *model.LogRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return fmt.Errorf("no active battle")
	}
	b.records = append(b.records, *rec)
	return nil
}

// EndBattle finalizes and exports the battle data.
func (b *Backend) EndBattle() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return nil
	}
	b.active = false

	return b.exportJSON()
}

// Records returns a snapshot of the records collected so far.
func (b *Backend) Records() []model.LogRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.LogRecord, len(b.records))
	copy(out, b.records)
	return out
}

// exportJSON writes the battle data to a JSON file, gzipped if configured.
// Caller holds the lock.
func (b *Backend) exportJSON() error {
	if b.cfg.OutputDir == "" {
		return nil
	}

	export := battleExport{
		BattleID:   b.battleID,
		Spectating: b.info.Spectating,
		NearName:   b.info.NearName,
		FarName:    b.info.FarName,
		Roster:     b.roster,
		Records:    b.records,
		StartTime:  b.startTime,
		EndTime:    time.Now(),
	}

	data, err := json.Marshal(export)
	if err != nil {
		return fmt.Errorf("error marshalling battle export: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", b.battleID, b.startTime.Format("20060102_150405"))
	name = strings.ReplaceAll(name, " ", "_")
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	path := filepath.Join(b.cfg.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		defer func() { _ = gz.Close() }()
		_, err = gz.Write(data)
	} else {
		_, err = f.Write(data)
	}
	if err != nil {
		return fmt.Errorf("error writing export: %w", err)
	}

	return nil
}
