package memory

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sveniik/battletrack/internal/config"
	"github.com/sveniik/battletrack/internal/model"
	"github.com/sveniik/battletrack/internal/perspective"
)

func testBattleStart() *model.BattleStart {
	return &model.BattleStart{
		BattleID:   "battle-1",
		ObserverID: "player-1",
		Sides: [2]model.Side{
			{Actors: []model.Actor{{
				ID:          "player-1",
				DisplayName: "Ash",
				Combatants: []model.ActiveCombatant{{
					ID:          "uuid-pika",
					Slot:        "p1a",
					DisplayName: "Pikachu",
					Health:      model.FractionReading(1.0),
				}},
			}}},
			{Actors: []model.Actor{{
				ID:          "player-2",
				DisplayName: "Misty",
				Combatants: []model.ActiveCombatant{{
					ID:          "uuid-star",
					Slot:        "p2a",
					DisplayName: "Starmie",
					Health:      model.FractionReading(0.8),
				}},
			}}},
		},
	}
}

func testInfo() perspective.Info {
	return perspective.Info{Spectating: false, NearSide: 0, NearName: "Ash", FarName: "Misty"}
}

func testRecord() *model.LogRecord {
	return &model.LogRecord{
		Kind:        model.RecordDamage,
		Amount:      "18",
		Delta:       -18,
		CombatantID: "uuid-pika",
		DisplayName: "Pikachu",
		Time:        time.Now(),
	}
}

func TestBackend_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})
	require.NoError(t, b.Init())

	require.NoError(t, b.StartBattle(testBattleStart(), testInfo()))
	require.NoError(t, b.RecordLog(testRecord()))
	require.Len(t, b.Records(), 1)

	require.NoError(t, b.EndBattle())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var export battleExport
	require.NoError(t, json.Unmarshal(data, &export))

	assert.Equal(t, "battle-1", export.BattleID)
	assert.False(t, export.Spectating)
	assert.Equal(t, "Ash", export.NearName)
	assert.Equal(t, "Misty", export.FarName)
	require.Len(t, export.Roster, 2)
	assert.Equal(t, model.SideNear, export.Roster[0].Side)
	assert.Equal(t, model.SideFar, export.Roster[1].Side)
	require.Len(t, export.Records, 1)
	assert.Equal(t, "18", export.Records[0].Amount)
}

func TestBackend_CompressedExport(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	require.NoError(t, b.Init())

	require.NoError(t, b.StartBattle(testBattleStart(), testInfo()))
	require.NoError(t, b.EndBattle())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".gz", filepath.Ext(entries[0].Name()))

	f, err := os.Open(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	var export battleExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "battle-1", export.BattleID)
}

func TestBackend_RecordWithoutActiveBattle(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.Init())

	err := b.RecordLog(testRecord())
	assert.Error(t, err)
}

func TestBackend_StartDropsPriorState(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.Init())

	require.NoError(t, b.StartBattle(testBattleStart(), testInfo()))
	require.NoError(t, b.RecordLog(testRecord()))

	bs := testBattleStart()
	bs.BattleID = "battle-2"
	require.NoError(t, b.StartBattle(bs, testInfo()))

	assert.Empty(t, b.Records())
}

func TestBackend_EndWithoutStartIsNoop(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())

	require.NoError(t, b.EndBattle())

	entries, err := os.ReadDir(b.cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
