package model

// SideLabel classifies a side relative to the local observer. The label is
// assigned once when a battle starts and never changes mid-battle.
type SideLabel string

const (
	SideNear SideLabel = "near"
	SideFar  SideLabel = "far"
)

// Combatant is the durable identity record for a single battle participant.
// ID is globally unique for the lifetime of the battle and stays with the
// combatant across field positions. Slot is the positional identifier, which
// the upstream reuses and which is therefore never used as a tracking key.
type Combatant struct {
	ID          string    `json:"id"`
	Slot        string    `json:"slot"`
	DisplayName string    `json:"displayName"`
	Side        SideLabel `json:"side"`
}

// Actor is a participant controlling zero or more combatants on one side.
type Actor struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Combatants  []ActiveCombatant `json:"combatants"`
}

// ActiveCombatant is a combatant as reported in a battle-initialization event,
// before side classification has been applied.
type ActiveCombatant struct {
	ID          string  `json:"id"`
	Slot        string  `json:"slot"`
	DisplayName string  `json:"displayName"`
	Health      Reading `json:"-"`
}

// Side is one of the two opposing parties in a battle.
type Side struct {
	Actors []Actor `json:"actors"`
}

// BattleStart is the battle-initialization event. ObserverID is the local
// session's actor identity, used for perspective classification.
type BattleStart struct {
	BattleID   string
	ObserverID string
	Sides      [2]Side
}

// HealthChanged carries a new health reading for a known combatant.
type HealthChanged struct {
	CombatantID string
	Health      Reading
}

// SwitchIn reports a combatant entering the field, potentially occupying a
// slot a different combatant used earlier in the battle.
type SwitchIn struct {
	CombatantID string
	DisplayName string
	SideIndex   int
	Slot        string
	Health      Reading
}
