package parser

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sveniik/battletrack/internal/model"
	"github.com/sveniik/battletrack/internal/util"
)

// Parser provides pure []string -> model struct conversion for battle events.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// New creates a new parser with only a logger dependency.
func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// wireReading is the dual-encoded health reading as sent by the host bridge.
type wireReading struct {
	Absolute bool    `json:"absolute"`
	Value    float64 `json:"value"`
	Max      float64 `json:"max"`
}

func (w wireReading) toReading() model.Reading {
	if w.Absolute {
		return model.AbsoluteReading(w.Value, w.Max)
	}
	return model.FractionReading(w.Value)
}

type wireCombatant struct {
	ID          string      `json:"id"`
	Slot        string      `json:"slot"`
	DisplayName string      `json:"name"`
	Health      wireReading `json:"health"`
}

type wireActor struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"name"`
	Combatants  []wireCombatant `json:"combatants"`
}

type wireSide struct {
	Actors []wireActor `json:"actors"`
}

type wireBattleStart struct {
	BattleID   string     `json:"battleId"`
	ObserverID string     `json:"observerId"`
	Sides      []wireSide `json:"sides"`
}

type wireHealthChanged struct {
	CombatantID string      `json:"id"`
	Health      wireReading `json:"health"`
}

type wireSwitchIn struct {
	CombatantID string      `json:"id"`
	DisplayName string      `json:"name"`
	SideIndex   int         `json:"side"`
	Slot        string      `json:"slot"`
	Health      wireReading `json:"health"`
}

// fixData undoes the quote doubling applied by the host bridge's string relay.
func fixData(data []string) {
	for i, v := range data {
		data[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}
}

// ParseBattleStart parses a battle-initialization payload. Exactly two sides
// are required; a combatant without a durable identity is malformed.
func (p *Parser) ParseBattleStart(data []string) (*model.BattleStart, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("battle start event has no payload")
	}
	fixData(data)

	var wire wireBattleStart
	if err := json.Unmarshal([]byte(data[0]), &wire); err != nil {
		return nil, fmt.Errorf("error unmarshalling battle start data: %w", err)
	}
	if len(wire.Sides) != 2 {
		return nil, fmt.Errorf("battle start requires exactly 2 sides, got %d", len(wire.Sides))
	}

	bs := &model.BattleStart{
		BattleID:   wire.BattleID,
		ObserverID: wire.ObserverID,
	}
	for i, ws := range wire.Sides {
		side := model.Side{Actors: make([]model.Actor, 0, len(ws.Actors))}
		for _, wa := range ws.Actors {
			actor := model.Actor{
				ID:          wa.ID,
				DisplayName: wa.DisplayName,
				Combatants:  make([]model.ActiveCombatant, 0, len(wa.Combatants)),
			}
			for _, wc := range wa.Combatants {
				if wc.ID == "" {
					return nil, fmt.Errorf("combatant on side %d is missing an identity", i)
				}
				actor.Combatants = append(actor.Combatants, model.ActiveCombatant{
					ID:          wc.ID,
					Slot:        wc.Slot,
					DisplayName: wc.DisplayName,
					Health:      wc.Health.toReading(),
				})
			}
			side.Actors = append(side.Actors, actor)
		}
		bs.Sides[i] = side
	}

	p.logger.Debug("Parsed battle start",
		"battleId", bs.BattleID,
		"observerId", bs.ObserverID)

	return bs, nil
}

// ParseHealthChanged parses a health-changed payload.
func (p *Parser) ParseHealthChanged(data []string) (*model.HealthChanged, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("health event has no payload")
	}
	fixData(data)

	var wire wireHealthChanged
	if err := json.Unmarshal([]byte(data[0]), &wire); err != nil {
		return nil, fmt.Errorf("error unmarshalling health data: %w", err)
	}
	if wire.CombatantID == "" {
		return nil, fmt.Errorf("health event is missing a combatant identity")
	}

	return &model.HealthChanged{
		CombatantID: wire.CombatantID,
		Health:      wire.Health.toReading(),
	}, nil
}

// ParseSwitchIn parses a switch-in payload.
func (p *Parser) ParseSwitchIn(data []string) (*model.SwitchIn, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("switch-in event has no payload")
	}
	fixData(data)

	var wire wireSwitchIn
	if err := json.Unmarshal([]byte(data[0]), &wire); err != nil {
		return nil, fmt.Errorf("error unmarshalling switch-in data: %w", err)
	}
	if wire.CombatantID == "" {
		return nil, fmt.Errorf("switch-in event is missing a combatant identity")
	}
	if wire.SideIndex < 0 || wire.SideIndex > 1 {
		return nil, fmt.Errorf("switch-in side index out of range: %d", wire.SideIndex)
	}

	return &model.SwitchIn{
		CombatantID: wire.CombatantID,
		DisplayName: wire.DisplayName,
		SideIndex:   wire.SideIndex,
		Slot:        wire.Slot,
		Health:      wire.Health.toReading(),
	}, nil
}
