package model

import (
	"fmt"
	"time"
)

// RecordKind tags an emitted log record for downstream styling.
type RecordKind string

const (
	RecordDamage RecordKind = "damage"
	RecordHeal   RecordKind = "heal"
)

// LogRecord is one emitted damage or heal entry. Amount is the pre-formatted
// magnitude string; Delta keeps the raw signed percentage for consumers that
// aggregate rather than display.
type LogRecord struct {
	Kind        RecordKind `json:"kind"`
	Amount      string     `json:"amount"`
	Delta       float64    `json:"delta"`
	CombatantID string     `json:"combatantId"`
	DisplayName string     `json:"displayName"`
	Time        time.Time  `json:"time"`
}

// Marker returns the directional marker for the record.
func (r LogRecord) Marker() string {
	if r.Kind == RecordHeal {
		return "+"
	}
	return "-"
}

// Line renders the record as a display line, e.g. "18% to Gyarados".
func (r LogRecord) Line() string {
	return fmt.Sprintf("%s%% to %s", r.Amount, r.DisplayName)
}
