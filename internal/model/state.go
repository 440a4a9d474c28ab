package model

import (
	"time"

	"github.com/gridfall/outbreak/internal/geo"
)

// Outcome is the terminal result of a run.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	}
	return "none"
}

// ToolKind identifies a player intervention tool.
type ToolKind uint8

const (
	ToolNone ToolKind = iota
	ToolSupplyDrop
	ToolReinforce
	ToolMedicTeam
	ToolAirstrike
)

func (t ToolKind) String() string {
	switch t {
	case ToolSupplyDrop:
		return "supply_drop"
	case ToolReinforce:
		return "reinforce"
	case ToolMedicTeam:
		return "medic_team"
	case ToolAirstrike:
		return "airstrike"
	}
	return "none"
}

// GameState is the per-tick snapshot handed to the presentation layer.
// It is produced fresh each tick and read-only to consumers.
type GameState struct {
	Tick      int64                  `json:"tick"`
	Healthy   int                    `json:"healthy"`
	Infected  int                    `json:"infected"`
	Soldiers  int                    `json:"soldiers"`
	Resources int                    `json:"resources"`
	Cooldowns map[ToolKind]time.Time `json:"cooldowns"`
	Outcome   Outcome                `json:"outcome"`
	Paused    bool                   `json:"paused"`
	Inspected *Entity                `json:"inspected,omitempty"`
}

// EffectKind discriminates visual effect records.
type EffectKind uint8

const (
	EffectShot EffectKind = iota
	EffectExplosion
	EffectHealBeam
)

// VisualEffect is an ephemeral record of a shot, explosion, or heal beam.
// The core emits them and never reads them back; consumers drop effects
// older than a short fixed window.
type VisualEffect struct {
	ID        string           `json:"id"`
	Kind      EffectKind       `json:"kind"`
	Origin    geo.Coordinates  `json:"origin"`
	Target    *geo.Coordinates `json:"target,omitempty"`
	Color     string           `json:"color"`
	Radius    float64          `json:"radius,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// RadioMessage is one entry in the append-only radio log.
type RadioMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	SenderID  string    `json:"senderId,omitempty"` // entity id for UI locate actions
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
