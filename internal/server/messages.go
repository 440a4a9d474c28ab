package server

import (
	"encoding/json"

	"github.com/gridfall/outbreak/internal/model"
)

// Message type constants for the WebSocket protocol.
const (
	TypeFrame   = "frame"
	TypeRadio   = "radio"
	TypeOutcome = "outcome"

	TypeUseTool     = "use_tool"
	TypeInspect     = "inspect"
	TypeTogglePause = "toggle_pause"
	TypeReset       = "reset"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// FramePayload carries one tick to the frontend.
type FramePayload struct {
	State    model.GameState      `json:"state"`
	Entities []model.Entity       `json:"entities"`
	Effects  []model.VisualEffect `json:"effects,omitempty"`
}

// RadioPayload carries new radio lines since the last broadcast.
type RadioPayload struct {
	Messages []model.RadioMessage `json:"messages"`
}

// OutcomePayload announces a finished run.
type OutcomePayload struct {
	Outcome string `json:"outcome"`
	Tick    int64  `json:"tick"`
}

// UseToolPayload is the player command to apply a tool at a map position.
type UseToolPayload struct {
	Tool string  `json:"tool"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// InspectPayload is a bare map click with no tool selected.
type InspectPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// parseTool maps wire tool names onto model.ToolKind.
func parseTool(name string) (model.ToolKind, bool) {
	switch name {
	case "supply_drop":
		return model.ToolSupplyDrop, true
	case "reinforce":
		return model.ToolReinforce, true
	case "medic_team":
		return model.ToolMedicTeam, true
	case "airstrike":
		return model.ToolAirstrike, true
	}
	return model.ToolNone, false
}

func mustEnvelope(msgType string, payload any) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil
	}
	return data
}
