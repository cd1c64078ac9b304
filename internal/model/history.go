package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists the structs migrated into the battle history schema.
var DatabaseModels = []interface{}{
	&BattleRecord{},
	&LogEntry{},
}

// BattleRecord is one tracked battle in the history store. The roster is kept
// as a JSON column; history rows are never read back into live baselines.
type BattleRecord struct {
	gorm.Model
	BattleID   string         `json:"battleId" gorm:"size:64;index:idx_battle_records_battle_id"`
	Spectating bool           `json:"spectating"`
	NearName   string         `json:"nearName" gorm:"size:64"`
	FarName    string         `json:"farName" gorm:"size:64"`
	Roster     datatypes.JSON `json:"roster"`
	StartTime  time.Time      `json:"startTime"`
	EndTime    time.Time      `json:"endTime"`
}

func (*BattleRecord) TableName() string {
	return "battle_records"
}

// LogEntry is one persisted damage/heal record.
type LogEntry struct {
	gorm.Model
	BattleRecordID uint         `json:"battleRecordId" gorm:"index:idx_log_entries_battle_record_id"`
	BattleRecord   BattleRecord `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:BattleRecordID"`
	Kind           string       `json:"kind" gorm:"size:16"`
	Amount         string       `json:"amount" gorm:"size:16"`
	Delta          float64      `json:"delta"`
	CombatantID    string       `json:"combatantId" gorm:"size:64"`
	DisplayName    string       `json:"displayName" gorm:"size:64"`
	Time           time.Time    `json:"time"`
}

func (*LogEntry) TableName() string {
	return "log_entries"
}
